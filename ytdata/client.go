package ytdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ehow/errs"
	"ehow/types"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client wraps the YouTube Data API v3 service with the two read calls the cache job needs.
type Client struct {
	service *youtube.Service
	logger  *zap.Logger
}

// NewClient authenticates with a static API key. Extra options (endpoint, HTTP client)
// are applied after the key and win over it.
func NewClient(ctx context.Context, apiKey string, logger *zap.Logger, opts ...option.ClientOption) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	all := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, all...)
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &Client{service: service, logger: logger}, nil
}

// RecentActivities issues a single activities.list call; only the first page is read.
func (c *Client) RecentActivities(ctx context.Context, channelID string, pageSize int64) ([]types.Activity, error) {
	resp, err := c.service.Activities.List([]string{"snippet", "contentDetails"}).
		ChannelId(channelID).
		MaxResults(pageSize).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream("activities.list", err)
	}

	var total int64
	if resp.PageInfo != nil {
		total = resp.PageInfo.TotalResults
	}
	c.logger.Debug("activities.list response",
		zap.String("channel_id", channelID),
		zap.Int("items", len(resp.Items)),
		zap.Int64("total_results", total))

	out := make([]types.Activity, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		var a types.Activity
		if item.Snippet != nil {
			a.Type = item.Snippet.Type
			a.PublishedAt = item.Snippet.PublishedAt
		}
		if item.ContentDetails != nil && item.ContentDetails.Upload != nil {
			a.UploadVideoID = item.ContentDetails.Upload.VideoId
		}
		out = append(out, a)
	}
	return out, nil
}

// VideoDetails fetches snippet and live streaming details for ids in one videos.list call.
// An empty id list returns without touching the network.
func (c *Client) VideoDetails(ctx context.Context, ids []string) ([]types.ContentRecord, error) {
	if len(ids) == 0 {
		return []types.ContentRecord{}, nil
	}

	resp, err := c.service.Videos.List([]string{"snippet", "liveStreamingDetails"}).
		Id(ids...).
		MaxResults(int64(len(ids))).
		Context(ctx).
		Do()
	if err != nil {
		return nil, upstream("videos.list", err)
	}

	records := make([]types.ContentRecord, 0, len(resp.Items))
	for _, v := range resp.Items {
		if v == nil {
			continue
		}
		records = append(records, c.toRecord(v))
	}
	c.logger.Debug("videos.list response", zap.Int("requested", len(ids)), zap.Int("returned", len(records)))
	return records, nil
}

func (c *Client) toRecord(v *youtube.Video) types.ContentRecord {
	rec := types.ContentRecord{ID: v.Id}

	if s := v.Snippet; s != nil {
		rec.Title = s.Title
		rec.Description = s.Description
		rec.ChannelTitle = s.ChannelTitle
		rec.PublishedAt = c.timestamp(v.Id, "publishedAt", s.PublishedAt)
		rec.ThumbnailURL = bestThumbnail(s.Thumbnails)
	}

	if d := v.LiveStreamingDetails; d != nil {
		rec.LiveDetails = &types.LiveDetails{
			ScheduledStart:    c.timestamp(v.Id, "scheduledStartTime", d.ScheduledStartTime),
			ActualStart:       c.timestamp(v.Id, "actualStartTime", d.ActualStartTime),
			ActualEnd:         c.timestamp(v.Id, "actualEndTime", d.ActualEndTime),
			ConcurrentViewers: d.ConcurrentViewers,
		}
	}
	return rec
}

// timestamp parses an RFC 3339 value. Unparsable values are treated as absent.
func (c *Client) timestamp(videoID, field, raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		c.logger.Warn("ignoring unparsable timestamp",
			zap.String("video_id", videoID),
			zap.String("field", field),
			zap.Error(&errs.MalformedResponseError{What: field, Err: err}))
		return nil
	}
	t = t.UTC()
	return &t
}

func bestThumbnail(td *youtube.ThumbnailDetails) string {
	if td == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{td.Maxres, td.Standard, td.High, td.Medium, td.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

// upstream converts an API failure into *errs.UpstreamError when a status is known.
func upstream(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		body := gerr.Body
		if body == "" {
			body = gerr.Message
		}
		return &errs.UpstreamError{Op: op, StatusCode: gerr.Code, Body: body}
	}
	return fmt.Errorf("%s request failed: %w", op, err)
}
