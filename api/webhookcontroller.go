package api

import (
	"errors"
	"io"
	"net/http"

	"ehow/config"
	"ehow/errs"
	"ehow/relay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookController receives hub verifications and push notifications.
type WebhookController struct {
	dispatcher relay.Dispatcher
	logger     *zap.Logger
}

// RegisterWebhookRoutes registers the WebSub callback endpoints.
func RegisterWebhookRoutes(r *gin.Engine, h *WebhookController) {
	r.GET("/webhook", h.handleVerify)
	r.POST("/webhook", h.handleNotification)
}

// handleVerify answers the hub's intent verification by echoing hub.challenge.
func (h *WebhookController) handleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	challenge := c.Query("hub.challenge")
	if mode != "" && challenge != "" {
		h.logger.Info("hub verification",
			zap.String("mode", mode),
			zap.String("topic", c.Query("hub.topic")))
		c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(challenge))
		return
	}
	c.String(http.StatusOK, "OK")
}

// handleNotification logs the pushed entries and triggers a rebuild.
// The hub only cares about a 2xx, so dispatch failures answer 202 with the reason.
func (h *WebhookController) handleNotification(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, config.MaxNotificationBytes))
	if err != nil {
		h.logger.Error("failed to read notification body", zap.Error(err))
		c.String(http.StatusInternalServerError, "Server error")
		return
	}

	h.logEntries(body)

	if err := h.dispatcher.Dispatch(c.Request.Context()); err != nil {
		resp := gin.H{"ok": false, "reason": "dispatch_failed", "error": err.Error()}
		var up *errs.UpstreamError
		if errors.As(err, &up) {
			resp["status"] = up.StatusCode
		}
		c.JSON(http.StatusAccepted, resp)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WebhookController) logEntries(body []byte) {
	entries, err := relay.ParseNotification(body)
	if err != nil {
		h.logger.Warn("ignoring unparsable notification", zap.Error(err), zap.Int("bytes", len(body)))
		return
	}
	if len(entries) == 0 {
		h.logger.Info("notification carried no entries")
	}
	for _, e := range entries {
		h.logger.Info("notification entry",
			zap.String("video_id", e.VideoID),
			zap.String("channel_id", e.ChannelID),
			zap.String("title", e.Title),
			zap.String("link", e.Link))
	}
}
