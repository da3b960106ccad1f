package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ehow/api"
	"ehow/config"
	"ehow/logging"
	"ehow/relay"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger := logging.Must(cfg.LogLevel)
	defer logger.Sync()

	if err := cfg.ValidateRelay(); err != nil {
		logger.Fatal("invalid relay configuration", zap.Error(err))
	}
	if cfg.ChannelID == "" {
		logger.Warn("CHANNEL_ID not set; /subscribe needs an explicit topic")
	}

	owner, repo, _ := cfg.RepoParts()
	dispatcher, err := relay.NewGitHubDispatcher(context.Background(), cfg.GitHubToken, relay.WorkflowTarget{
		Owner:    owner,
		Repo:     repo,
		Workflow: cfg.WorkflowFile,
		Ref:      cfg.Ref,
	}, "", logger.Named("dispatch"))
	if err != nil {
		logger.Fatal("failed to create workflow dispatcher", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	r := api.NewRouter(api.Deps{
		Dispatcher:      dispatcher,
		Hub:             relay.NewHubClient(cfg.HubURL, logger.Named("hub")),
		Logger:          logger,
		DefaultTopic:    cfg.TopicURL(),
		DefaultCallback: cfg.CallbackURL,
		SongsDir:        cfg.SongsDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("webhook server listening",
			zap.String("address", srv.Addr),
			zap.String("repo", cfg.Repo),
			zap.String("workflow", cfg.WorkflowFile))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}
