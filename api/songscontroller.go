package api

import (
	"fmt"
	"net/http"
	"os"

	"ehow/songs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SongsController serves the lyrics index straight from the songs directory.
type SongsController struct {
	dir    string
	logger *zap.Logger
}

// RegisterSongRoutes registers the song index endpoint.
func RegisterSongRoutes(r *gin.Engine, h *SongsController) {
	r.GET("/api/songs", h.handleList)
}

func (h *SongsController) handleList(c *gin.Context) {
	if info, err := os.Stat(h.dir); err != nil || !info.IsDir() {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Directory '%s' not found.", h.dir)})
		return
	}

	list, err := songs.Scan(h.dir, h.logger)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, list)
}
