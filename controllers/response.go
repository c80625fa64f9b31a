package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/JerryLinyx/pilotts/models"
	"github.com/JerryLinyx/pilotts/services"
	"github.com/gin-gonic/gin"
)

const displayDateLayout = "Jan 02, 2006"

func articleJSON(a *models.Article) gin.H {
	return gin.H{
		"id":         a.ID,
		"title":      a.Title,
		"html_body":  a.HTMLBody,
		"status":     a.Status,
		"archived":   a.IsArchived(),
		"created_at": a.CreatedAt.Format(displayDateLayout),
		"updated_at": a.UpdatedAt,
	}
}

func articleListJSON(list []models.Article) []gin.H {
	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, articleJSON(&list[i]))
	}
	return out
}

// searchResultJSON is the compact shape used by both search endpoints.
func searchResultJSON(list []models.Article, withStatus bool) []gin.H {
	out := make([]gin.H, 0, len(list))
	for i := range list {
		a := &list[i]
		item := gin.H{
			"id":         a.ID,
			"title":      a.Title,
			"excerpt":    a.Excerpt(100),
			"created_at": a.CreatedAt.Format(displayDateLayout),
		}
		if withStatus {
			item["status"] = a.Status
		}
		out = append(out, item)
	}
	return out
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

func articleIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found."})
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

// respondError maps service errors onto HTTP responses.
func respondError(c *gin.Context, err error) {
	var invalid *models.ValidationError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": "error", "errors": invalid.Messages})
	case errors.Is(err, services.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found."})
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrRegistrationClosed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		global.Logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
