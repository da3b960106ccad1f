package api

import (
	"net/http"
	"strings"

	"ehow/relay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionController exposes manual subscribe/unsubscribe helpers.
type SubscriptionController struct {
	hub             HubSender
	defaultTopic    string
	defaultCallback string
	logger          *zap.Logger
}

// RegisterSubscriptionRoutes registers the hub helper endpoints.
func RegisterSubscriptionRoutes(r *gin.Engine, h *SubscriptionController) {
	r.POST("/subscribe", h.handle(relay.ModeSubscribe))
	r.POST("/unsubscribe", h.handle(relay.ModeUnsubscribe))
}

func (h *SubscriptionController) handle(mode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		topic := strings.TrimSpace(c.PostForm("topic"))
		if topic == "" {
			topic = h.defaultTopic
		}
		callback := strings.TrimSpace(c.PostForm("callback"))
		if callback == "" {
			callback = h.defaultCallback
		}

		if topic == "" {
			c.String(http.StatusBadRequest, "Missing CHANNEL_ID or topic")
			return
		}
		if callback == "" {
			c.String(http.StatusBadRequest, "Missing callback URL")
			return
		}

		resp, err := h.hub.Send(c.Request.Context(), relay.HubRequest{
			Mode:        mode,
			Topic:       topic,
			Callback:    callback,
			VerifyToken: c.PostForm("verify_token"),
		})
		if err != nil {
			h.logger.Error("hub request failed", zap.String("mode", mode), zap.Error(err))
			c.String(http.StatusBadGateway, err.Error())
			return
		}

		h.logger.Info("hub answered", zap.String("mode", mode), zap.Int("status", resp.StatusCode))
		c.Data(resp.StatusCode, "text/plain; charset=utf-8", resp.Body)
	}
}
