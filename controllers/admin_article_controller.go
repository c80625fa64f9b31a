package controllers

import (
	"net/http"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/services"
	"github.com/gin-gonic/gin"
)

// articleRequest accepts the fields either at the top level or nested under
// "article".
type articleRequest struct {
	Article *services.ArticleInput `json:"article"`
	services.ArticleInput
}

func bindArticleInput(c *gin.Context) (services.ArticleInput, bool) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return services.ArticleInput{}, false
	}
	if req.Article != nil {
		return *req.Article, true
	}
	return req.ArticleInput, true
}

func ListAdminArticles(c *gin.Context) {
	result, err := global.Articles.List(c.Request.Context(), currentUserID(c), services.ListQuery{
		Filter: c.Query("filter"),
		Search: c.Query("search"),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":   articleListJSON(result.Articles),
		"stats":      result.Stats,
		"filter":     result.Filter,
		"pagination": result.Pagination,
	})
}

func SearchAdminArticles(c *gin.Context) {
	found, err := global.Articles.Search(c.Request.Context(), currentUserID(c), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, searchResultJSON(found, true))
}

func GetArticleStats(c *gin.Context) {
	stats, err := global.Articles.Stats(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// NewArticle opens a placeholder draft for the editor.
func NewArticle(c *gin.Context) {
	article, err := global.Articles.NewDraft(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "success", "article": articleJSON(article)})
}

func CreateArticle(c *gin.Context) {
	input, ok := bindArticleInput(c)
	if !ok {
		return
	}
	article, err := global.Articles.Create(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "Article created successfully.",
		"article": articleJSON(article),
	})
}

func GetAdminArticle(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}
	article, err := global.Articles.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, articleJSON(article))
}

func UpdateArticle(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}
	input, ok := bindArticleInput(c)
	if !ok {
		return
	}
	article, err := global.Articles.Update(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Article updated successfully.",
		"new_status": article.Status,
		"article":    articleJSON(article),
	})
}

func DeleteArticle(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}
	if err := global.Articles.Destroy(c.Request.Context(), currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Article deleted successfully."})
}

func ToggleArticleStatus(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}
	article, err := global.Articles.ToggleStatus(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Article saved as draft successfully."
	if article.IsPublished() {
		message = "Article published successfully."
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message, "article": articleJSON(article)})
}

func ArchiveArticle(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}
	article, err := global.Articles.ToggleArchive(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Article unarchived successfully."
	if article.IsArchived() {
		message = "Article archived successfully."
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message, "article": articleJSON(article)})
}

// AutosaveArticle always reports success; edits to non-draft articles are
// silently dropped.
func AutosaveArticle(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}
	input, ok := bindArticleInput(c)
	if !ok {
		return
	}
	result, err := global.Articles.Autosave(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "Auto-saved",
		"last_saved": result.LastSaved,
	})
}
