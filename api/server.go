package api

import (
	"context"
	"time"

	"ehow/relay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HubSender forwards subscription changes to the WebSub hub.
type HubSender interface {
	Send(ctx context.Context, r relay.HubRequest) (*relay.HubResponse, error)
}

// Deps holds everything the routes need.
type Deps struct {
	Dispatcher relay.Dispatcher
	Hub        HubSender
	Logger     *zap.Logger

	// DefaultTopic and DefaultCallback fill in subscription requests that omit them.
	DefaultTopic    string
	DefaultCallback string

	// SongsDir enables GET /api/songs when set.
	SongsDir string
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(d.Logger))

	RegisterHealthRoutes(r)
	RegisterWebhookRoutes(r, &WebhookController{dispatcher: d.Dispatcher, logger: d.Logger.Named("webhook")})
	RegisterSubscriptionRoutes(r, &SubscriptionController{
		hub:             d.Hub,
		defaultTopic:    d.DefaultTopic,
		defaultCallback: d.DefaultCallback,
		logger:          d.Logger.Named("hub"),
	})
	if d.SongsDir != "" {
		RegisterSongRoutes(r, &SongsController{dir: d.SongsDir, logger: d.Logger.Named("songs")})
	}
	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
