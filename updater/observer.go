package updater

import (
	"ehow/classify"
	"ehow/types"

	"go.uber.org/zap"
)

// LogObserver traces every classification at debug level and the bucket counts at info.
type LogObserver struct {
	logger *zap.Logger
}

func NewLogObserver(logger *zap.Logger) *LogObserver {
	return &LogObserver{logger: logger.Named("classify")}
}

func (o *LogObserver) Classified(rec types.ContentRecord, category types.Category) {
	o.logger.Debug("classified video",
		zap.String("video_id", rec.ID),
		zap.String("title", rec.Title),
		zap.Bool("has_live_details", rec.LiveDetails != nil),
		zap.String("category", string(category)))
}

func (o *LogObserver) Summary(r classify.Result) {
	o.logger.Info("classification summary",
		zap.Int("upcoming", len(r.Upcoming)),
		zap.Int("live", len(r.Live)),
		zap.Int("past", len(r.Past)),
		zap.Int("discarded", r.Discarded))
}
