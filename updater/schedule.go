package updater

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler repeats RunOnce on a cron schedule. A tick that fires while the previous
// pass is still running is skipped.
type Scheduler struct {
	updater *Updater
	cron    *cron.Cron
	spec    string
}

// NewScheduler registers u under the standard five-field cron spec.
func NewScheduler(u *Updater, spec string) (*Scheduler, error) {
	logger := cronLogger{u.logger()}
	c := cron.New(cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)))

	s := &Scheduler{updater: u, cron: c, spec: spec}
	if _, err := c.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	if _, err := s.updater.RunOnce(context.Background()); err != nil {
		s.updater.logger().Error("scheduled cache update failed", zap.Error(err))
	}
}

// Start begins firing in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.updater.logger().Info("cron job started", zap.String("schedule", s.spec))
}

// Stop prevents new runs and returns a context that is done once the running pass finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
