package updater

import (
	"context"
	"fmt"
	"time"

	"ehow/cache"
	"ehow/classify"
	"ehow/config"
	"ehow/types"
	"ehow/ytdata"

	"go.uber.org/zap"
)

// Report summarizes one cache update pass.
type Report struct {
	Resolved    int
	Fetched     int
	Result      classify.Result
	GeneratedAt time.Time
	// Written is false when the pass short-circuited and left the caches untouched.
	Written bool
}

// Updater runs the resolve, fetch, classify, persist pipeline.
type Updater struct {
	Activities ytdata.ActivitySource
	Details    ytdata.DetailSource
	Sink       cache.Sink
	Classifier *classify.Classifier

	ChannelID string
	PageSize  int64
	// CallTimeout bounds each upstream call; zero means no extra bound.
	CallTimeout time.Duration

	Now    func() time.Time
	Logger *zap.Logger
}

// New wires an Updater from configuration. Classification diagnostics go to logger.
func New(cfg *config.Config, activities ytdata.ActivitySource, details ytdata.DetailSource, sink cache.Sink, logger *zap.Logger) *Updater {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Updater{
		Activities:  activities,
		Details:     details,
		Sink:        sink,
		Classifier:  classify.New(cfg.PastWindow, NewLogObserver(logger)),
		ChannelID:   cfg.ChannelID,
		PageSize:    cfg.ActivityPageSize,
		CallTimeout: config.UpstreamTimeout,
		Now:         time.Now,
		Logger:      logger,
	}
}

// RunOnce executes a single pass. Any upstream or sink error aborts the pass;
// upstream failures happen before the first write, so caches are never half updated by them.
func (u *Updater) RunOnce(ctx context.Context) (*Report, error) {
	log := u.logger()
	log.Info("starting YouTube cache update", zap.String("channel_id", u.ChannelID))

	ids, err := u.resolve(ctx)
	if err != nil {
		return nil, err
	}
	report := &Report{Resolved: len(ids), Result: emptyResult()}
	log.Info("extracted video ids from the activity feed", zap.Int("count", len(ids)))

	if len(ids) == 0 {
		log.Info("no recent video activities found; nothing to do")
		return report, nil
	}

	records, err := u.fetch(ctx, ids)
	if err != nil {
		return nil, err
	}
	report.Fetched = len(records)

	now := u.now()
	report.GeneratedAt = now.UTC()
	report.Result = u.classifier().Partition(records, now)

	if err := cache.WriteAll(ctx, u.Sink, report.Result.ResultSet, report.GeneratedAt); err != nil {
		return nil, err
	}
	report.Written = true

	log.Info("YouTube cache update finished",
		zap.Int("upcoming", len(report.Result.Upcoming)),
		zap.Int("live", len(report.Result.Live)),
		zap.Int("past", len(report.Result.Past)),
		zap.Int("discarded", report.Result.Discarded))
	return report, nil
}

func (u *Updater) resolve(ctx context.Context) ([]string, error) {
	cctx, cancel := u.callContext(ctx)
	defer cancel()
	return ytdata.Resolve(cctx, u.Activities, u.ChannelID, u.pageSize())
}

func (u *Updater) fetch(ctx context.Context, ids []string) ([]types.ContentRecord, error) {
	cctx, cancel := u.callContext(ctx)
	defer cancel()
	records, err := u.Details.VideoDetails(cctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch video details: %w", err)
	}
	return records, nil
}

func (u *Updater) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.CallTimeout)
}

func (u *Updater) pageSize() int64 {
	if u.PageSize <= 0 {
		return config.DefaultActivityPageSize
	}
	return u.PageSize
}

func (u *Updater) classifier() *classify.Classifier {
	if u.Classifier == nil {
		u.Classifier = classify.New(0, NewLogObserver(u.logger()))
	}
	return u.Classifier
}

func (u *Updater) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u *Updater) logger() *zap.Logger {
	if u.Logger == nil {
		return zap.NewNop()
	}
	return u.Logger
}

func emptyResult() classify.Result {
	return classify.Result{ResultSet: types.ResultSet{
		Upcoming: []types.ContentRecord{},
		Live:     []types.ContentRecord{},
		Past:     []types.ContentRecord{},
	}}
}
