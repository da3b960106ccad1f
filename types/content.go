package types

import "time"

// Category is the bucket a content record lands in after classification.
type Category string

const (
	CategoryLive      Category = "live"
	CategoryUpcoming  Category = "upcoming"
	CategoryPast      Category = "past"
	CategoryDiscarded Category = "discarded"
)

// LiveDetails holds the broadcast timestamps YouTube reports for a video.
// Any of the three may be absent.
type LiveDetails struct {
	ScheduledStart    *time.Time `json:"scheduledStart,omitempty"`
	ActualStart       *time.Time `json:"actualStart,omitempty"`
	ActualEnd         *time.Time `json:"actualEnd,omitempty"`
	ConcurrentViewers uint64     `json:"concurrentViewers,omitempty"`
}

// ContentRecord is one video returned by the detail fetch
type ContentRecord struct {
	ID           string       `json:"id"`
	Title        string       `json:"title,omitempty"`
	Description  string       `json:"description,omitempty"`
	ChannelTitle string       `json:"channelTitle,omitempty"`
	ThumbnailURL string       `json:"thumbnailUrl,omitempty"`
	PublishedAt  *time.Time   `json:"publishedAt,omitempty"`
	LiveDetails  *LiveDetails `json:"liveDetails,omitempty"`
}

// Activity is one entry of a channel's recent activity feed.
// UploadVideoID is empty for anything other than an upload.
type Activity struct {
	Type          string `json:"type,omitempty"`
	UploadVideoID string `json:"uploadVideoId,omitempty"`
	PublishedAt   string `json:"publishedAt,omitempty"`
}

// ResultSet is the output of one classification pass
type ResultSet struct {
	Upcoming []ContentRecord `json:"upcoming"`
	Live     []ContentRecord `json:"live"`
	Past     []ContentRecord `json:"past"`
}

// Total counts the records kept across all buckets.
func (r ResultSet) Total() int {
	return len(r.Upcoming) + len(r.Live) + len(r.Past)
}

// CacheDocument is the JSON written for each cache artifact
type CacheDocument struct {
	Items       []ContentRecord `json:"items"`
	GeneratedAt time.Time       `json:"generatedAt"`
}

// NewCacheDocument never leaves Items nil so the file always holds an array.
func NewCacheDocument(items []ContentRecord, generatedAt time.Time) CacheDocument {
	if items == nil {
		items = []ContentRecord{}
	}
	return CacheDocument{Items: items, GeneratedAt: generatedAt.UTC()}
}
