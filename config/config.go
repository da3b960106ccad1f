package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"ehow/errs"

	"github.com/joho/godotenv"
)

// S3Config selects an optional bucket the caches are mirrored to.
// Required: Bucket. Optional: Region, Profile, Prefix, UsePathStyle
type S3Config struct {
	Bucket       string
	Region       string
	Profile      string
	Prefix       string
	UsePathStyle bool
}

// RedisConfig selects an optional Redis the caches are mirrored to.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config is built once at startup and handed to each component.
type Config struct {
	// YouTube
	APIKey           string
	ChannelID        string
	ActivityPageSize int64
	PastWindow       time.Duration

	// Cache output
	CacheDir string
	S3       S3Config
	Redis    RedisConfig

	// Relay
	Port         string
	CallbackURL  string
	HubURL       string
	Repo         string
	GitHubToken  string
	WorkflowFile string
	Ref          string

	SongsDir string
	LogLevel string

	invalid map[string]string
}

// Load reads .env if present (non-fatal if missing) and then the process environment.
func Load() *Config {
	_ = godotenv.Load()
	return FromLookup(os.Getenv)
}

// FromLookup builds a Config from an environment lookup function.
// Malformed numeric or duration values are remembered and reported by the Validate methods.
func FromLookup(getenv func(string) string) *Config {
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	cfg := &Config{
		APIKey:           get("YOUTUBE_API_KEY"),
		ChannelID:        firstNonEmpty(get("YOUTUBE_CHANNEL_ID"), get("CHANNEL_ID")),
		ActivityPageSize: DefaultActivityPageSize,
		PastWindow:       DefaultPastWindow,
		CacheDir:         orDefault(get("CACHE_DIR"), "."),
		S3: S3Config{
			Bucket:       get("S3_BUCKET"),
			Region:       get("S3_REGION"),
			Profile:      get("S3_PROFILE"),
			Prefix:       normalizePrefix(get("S3_PREFIX")),
			UsePathStyle: strings.EqualFold(get("S3_USE_PATH_STYLE"), "true"),
		},
		Redis: RedisConfig{
			Addr:     get("REDIS_ADDR"),
			Password: get("REDIS_PASSWORD"),
			Prefix:   orDefault(get("REDIS_PREFIX"), "ehow:"),
		},
		Port:         orDefault(get("PORT"), DefaultPort),
		CallbackURL:  get("CALLBACK_URL"),
		HubURL:       orDefault(get("HUB_URL"), DefaultHubURL),
		Repo:         get("REPO"),
		GitHubToken:  get("GITHUB_TOKEN"),
		WorkflowFile: orDefault(get("WORKFLOW_FILE"), DefaultWorkflowFile),
		Ref:          orDefault(get("REF"), DefaultRef),
		SongsDir:     get("SONGS_DIR"),
		LogLevel:     orDefault(get("LOG_LEVEL"), "info"),
		invalid:      map[string]string{},
	}

	if v := get("ACTIVITY_PAGE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 || n > DefaultActivityPageSize {
			cfg.invalid["ACTIVITY_PAGE_SIZE"] = fmt.Sprintf("%q is not between 1 and %d", v, DefaultActivityPageSize)
		} else {
			cfg.ActivityPageSize = n
		}
	}
	if v := get("CACHE_WINDOW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			cfg.invalid["CACHE_WINDOW"] = fmt.Sprintf("%q is not a positive duration", v)
		} else {
			cfg.PastWindow = d
		}
	}
	if v := get("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			cfg.invalid["REDIS_DB"] = fmt.Sprintf("%q is not a database number", v)
		} else {
			cfg.Redis.DB = n
		}
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		cfg.invalid["PORT"] = fmt.Sprintf("%q is not a port number", cfg.Port)
	}

	return cfg
}

// ValidateUpdater checks the settings the cache update job needs before any network call.
func (c *Config) ValidateUpdater() error {
	e := &errs.ConfigError{Op: "update-cache", Invalid: c.pick("ACTIVITY_PAGE_SIZE", "CACHE_WINDOW", "REDIS_DB")}
	if c.APIKey == "" {
		e.Missing = append(e.Missing, "YOUTUBE_API_KEY")
	}
	if c.ChannelID == "" {
		e.Missing = append(e.Missing, "YOUTUBE_CHANNEL_ID")
	}
	if e.Empty() {
		return nil
	}
	return e
}

// ValidateRelay checks the settings the webhook relay needs before it starts listening.
func (c *Config) ValidateRelay() error {
	e := &errs.ConfigError{Op: "relay", Invalid: c.pick("PORT")}
	if c.Repo == "" {
		e.Missing = append(e.Missing, "REPO")
	} else if _, _, err := c.RepoParts(); err != nil {
		e.Invalid["REPO"] = err.Error()
	}
	if c.GitHubToken == "" {
		e.Missing = append(e.Missing, "GITHUB_TOKEN")
	}
	if e.Empty() {
		return nil
	}
	return e
}

// RepoParts splits REPO into owner and repository name.
func (c *Config) RepoParts() (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(c.Repo, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("%q, expected owner/repo", c.Repo)
	}
	return owner, repo, nil
}

// TopicURL is the channel feed the relay subscribes to by default.
func (c *Config) TopicURL() string {
	if c.ChannelID == "" {
		return ""
	}
	return fmt.Sprintf(TopicURLFormat, c.ChannelID)
}

func (c *Config) pick(keys ...string) map[string]string {
	out := map[string]string{}
	for _, k := range keys {
		if msg, ok := c.invalid[k]; ok {
			out[k] = msg
		}
	}
	return out
}

func normalizePrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return strings.Trim(prefix, "/") + "/"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
