package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/JerryLinyx/pilotts/global"
	"github.com/gin-gonic/gin"
)

// Health provides an unauthenticated liveness endpoint for container orchestrators.
// It reports 503 when the database stops answering.
func Health(c *gin.Context) {
	status, code := "ok", http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if sqlDB, err := global.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
	})
}
