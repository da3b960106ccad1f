package config

import "time"

// YouTube Data API Constants
const (
	// DefaultActivityPageSize is the maxResults sent to activities.list (API maximum is 50)
	DefaultActivityPageSize = 50

	// DefaultPastWindow is how long a finished broadcast stays in the past cache
	DefaultPastWindow = 7 * 24 * time.Hour

	// UpstreamTimeout bounds each call to the YouTube Data API
	UpstreamTimeout = 30 * time.Second
)

// Cache Output Constants
const (
	// UpcomingCacheFile holds scheduled broadcasts that have not started
	UpcomingCacheFile = "upcoming_cache.json"

	// LiveCacheFile holds broadcasts that are on air
	LiveCacheFile = "live_cache.json"

	// PastCacheFile holds broadcasts that ended inside the past window
	PastCacheFile = "past_week_cache.json"

	// CacheControl is set on objects mirrored to S3
	CacheControl = "public, max-age=300"
)

// Webhook Relay Constants
const (
	// DefaultPort is the relay listen port
	DefaultPort = "3000"

	// DefaultWorkflowFile is the GitHub Actions workflow rebuilt on every push
	DefaultWorkflowFile = "youtube-cache.yml"

	// DefaultRef is the git ref the workflow is dispatched on
	DefaultRef = "main"

	// DefaultHubURL is the WebSub hub YouTube publishes through
	DefaultHubURL = "https://pubsubhubbub.appspot.com/subscribe"

	// MaxNotificationBytes caps the body read from a push notification
	MaxNotificationBytes = 1 << 20

	// TopicURLFormat builds the channel feed topic from a channel id
	TopicURLFormat = "https://www.youtube.com/xml/feeds/videos.xml?channel_id=%s"
)

// Song Index Constants
const (
	// DefaultSongsDir holds one .txt file per song
	DefaultSongsDir = "songs"

	// DefaultSongsOutput is the generated index
	DefaultSongsOutput = "songs.json"

	// DefaultSongLanguage applies when a song has no [LANGUAGE] tag
	DefaultSongLanguage = "English"
)
