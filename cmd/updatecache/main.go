// Command updatecache refreshes the upcoming, live and past-week stream caches.
//
// Usage:
//
//	updatecache [-dir DIR] [-window 168h] [-cron "*/15 * * * *"]
//
// Without -cron it runs a single pass and exits non-zero on failure.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ehow/cache"
	"ehow/config"
	"ehow/logging"
	"ehow/updater"
	"ehow/ytdata"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	dir := flag.String("dir", cfg.CacheDir, "directory the cache files are written to")
	window := flag.Duration("window", cfg.PastWindow, "how far back ended broadcasts stay in the past cache")
	schedule := flag.String("cron", "", "run on this cron schedule instead of once")
	flag.Parse()

	cfg.CacheDir = *dir
	cfg.PastWindow = *window

	logger := logging.Must(cfg.LogLevel)
	if err := run(cfg, *schedule, logger); err != nil {
		logger.Error("cache update failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg *config.Config, schedule string, logger *zap.Logger) error {
	if err := cfg.ValidateUpdater(); err != nil {
		return err
	}

	ctx := context.Background()

	client, err := ytdata.NewClient(ctx, cfg.APIKey, logger.Named("youtube"))
	if err != nil {
		return err
	}

	sink, closeSinks, err := buildSinks(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeSinks()

	u := updater.New(cfg, client, client, sink, logger)

	if schedule == "" {
		_, err := u.RunOnce(ctx)
		return err
	}

	s, err := updater.NewScheduler(u, schedule)
	if err != nil {
		return err
	}
	s.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("stopping scheduler")

	select {
	case <-s.Stop().Done():
	case <-time.After(config.UpstreamTimeout):
		logger.Warn("running update did not finish before shutdown")
	}
	return nil
}

// buildSinks always writes local files and mirrors to S3 and Redis when configured.
func buildSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger) (cache.Sink, func(), error) {
	file, err := cache.NewFileSink(cfg.CacheDir, logger.Named("file"))
	if err != nil {
		return nil, nil, err
	}
	sinks := cache.Multi{file}
	closers := []func(){}

	if cfg.S3.Bucket != "" {
		s3Sink, err := cache.NewS3Sink(ctx, cfg.S3, logger.Named("s3"))
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, s3Sink)
		logger.Info("mirroring caches to S3", zap.String("bucket", cfg.S3.Bucket), zap.String("prefix", cfg.S3.Prefix))
	} else {
		logger.Info("S3 not configured; skipping uploads")
	}

	if cfg.Redis.Addr != "" {
		redisSink, err := cache.NewRedisSink(ctx, cfg.Redis, logger.Named("redis"))
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, redisSink)
		closers = append(closers, func() { _ = redisSink.Close() })
		logger.Info("mirroring caches to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	return sinks, func() {
		for _, c := range closers {
			c()
		}
	}, nil
}
