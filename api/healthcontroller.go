package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHealthRoutes registers the banner and health check endpoints.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/", handleBanner)
	r.GET("/api/health", handleHealth)
}

func handleBanner(c *gin.Context) {
	c.String(http.StatusOK, "EHOW YouTube Webhook Receiver")
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
