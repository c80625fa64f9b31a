package controllers

import (
	"net/http"
	"strings"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/models"
	"github.com/gin-gonic/gin"
)

func publicArticleJSON(a *models.Article) gin.H {
	return gin.H{
		"id":           a.ID,
		"title":        a.Title,
		"html_body":    a.HTMLBody,
		"excerpt":      a.Excerpt(2),
		"reading_time": a.ReadingTime(),
		"published_at": a.PublishedAt,
		"created_at":   a.CreatedAt.Format(displayDateLayout),
	}
}

// GetArticles lists published articles, ten per page, grouped by year.
func GetArticles(c *gin.Context) {
	page, err := global.Articles.ListPublished(c.Request.Context(), queryInt(c, "page"))
	if err != nil {
		respondError(c, err)
		return
	}

	years := make([]gin.H, 0, len(page.Years))
	for _, group := range page.Years {
		list := make([]gin.H, 0, len(group.Articles))
		for i := range group.Articles {
			list = append(list, publicArticleJSON(&group.Articles[i]))
		}
		years = append(years, gin.H{"year": group.Year, "articles": list})
	}

	c.JSON(http.StatusOK, gin.H{
		"years": years,
		"pagination": gin.H{
			"page":        page.Page,
			"per_page":    page.PerPage,
			"total":       page.Total,
			"total_pages": page.TotalPages,
		},
	})
}

func GetArticlesByID(c *gin.Context) {
	id, ok := articleIDParam(c)
	if !ok {
		return
	}
	article, err := global.Articles.GetPublished(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, publicArticleJSON(article))
}

func SearchArticles(c *gin.Context) {
	found, err := global.Articles.SearchPublished(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, searchResultJSON(found, false))
}
