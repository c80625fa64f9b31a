package router

import (
	"os"
	"strings"
	"time"

	"github.com/JerryLinyx/pilotts/controllers"
	"github.com/JerryLinyx/pilotts/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// resolveOrigins prefers FRONTEND_ORIGINS over the configured list.
func resolveOrigins(configured []string) []string {
	raw := os.Getenv("FRONTEND_ORIGINS")
	if raw == "" {
		if len(configured) == 0 {
			return []string{"http://localhost:5173", "http://localhost:8080"}
		}
		return configured
	}

	var allowedOrigins []string
	for _, v := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return allowedOrigins
}

func InitRouter(origins []string) *gin.Engine {
	r := gin.Default()

	allowedOrigins := resolveOrigins(origins)
	allowCreds := true
	if len(allowedOrigins) == 1 && allowedOrigins[0] == "*" {
		allowCreds = false
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCreds,
		MaxAge:           12 * time.Hour,
	}))

	// Public health endpoint for liveness/readiness checks
	r.GET("/api/health", controllers.Health)

	auth := r.Group("/api/auth")
	{
		auth.POST("/login", controllers.Login)
		auth.POST("/register", controllers.Register)
		auth.DELETE("/logout", middlewares.AuthMiddleware(), controllers.Logout)
	}

	api := r.Group("/api")
	{
		api.GET("/articles", controllers.GetArticles)
		api.GET("/articles/search", controllers.SearchArticles)
		api.GET("/articles/:id", controllers.GetArticlesByID)
		api.GET("/about", controllers.GetAbout)
		api.POST("/contact", controllers.Contact)
	}

	admin := r.Group("/api/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		articles := admin.Group("/articles")
		{
			articles.GET("", controllers.ListAdminArticles)
			articles.GET("/search", controllers.SearchAdminArticles)
			articles.GET("/stats", controllers.GetArticleStats)
			articles.POST("/new", controllers.NewArticle)
			articles.POST("", controllers.CreateArticle)
			articles.GET("/:id", controllers.GetAdminArticle)
			articles.PUT("/:id", controllers.UpdateArticle)
			articles.DELETE("/:id", controllers.DeleteArticle)
			articles.PATCH("/:id/toggle_status", controllers.ToggleArticleStatus)
			articles.PATCH("/:id/archive", controllers.ArchiveArticle)
			articles.PATCH("/:id/autosave", controllers.AutosaveArticle)
		}

		settings := admin.Group("/settings")
		{
			settings.GET("", controllers.GetSettings)
			settings.PUT("", controllers.UpdateSettings)
			settings.POST("/test_email", controllers.SendTestEmail)
		}
	}

	return r
}
