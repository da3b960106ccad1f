package ytdata

import (
	"context"
	"fmt"

	"ehow/types"
)

// ActivitySource lists a channel's most recent activity entries, newest first.
type ActivitySource interface {
	RecentActivities(ctx context.Context, channelID string, pageSize int64) ([]types.Activity, error)
}

// DetailSource fetches full records for a set of video ids.
type DetailSource interface {
	VideoDetails(ctx context.Context, ids []string) ([]types.ContentRecord, error)
}

// Resolve returns the video ids of upload activities in upstream order.
// Only the most recent pageSize activities are ever visible; there is no pagination.
// An empty result with a nil error means there is nothing to fetch.
func Resolve(ctx context.Context, src ActivitySource, channelID string, pageSize int64) ([]string, error) {
	activities, err := src.RecentActivities(ctx, channelID, pageSize)
	if err != nil {
		return nil, fmt.Errorf("resolve activities: %w", err)
	}

	ids := make([]string, 0, len(activities))
	for _, a := range activities {
		if a.UploadVideoID == "" {
			continue
		}
		ids = append(ids, a.UploadVideoID)
	}
	return ids, nil
}
