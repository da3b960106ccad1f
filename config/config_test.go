package config

import (
	"errors"
	"testing"
	"time"

	"ehow/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromLookupDefaults(t *testing.T) {
	cfg := FromLookup(lookup(nil))

	assert.Equal(t, int64(DefaultActivityPageSize), cfg.ActivityPageSize)
	assert.Equal(t, 7*24*time.Hour, cfg.PastWindow)
	assert.Equal(t, ".", cfg.CacheDir)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultWorkflowFile, cfg.WorkflowFile)
	assert.Equal(t, DefaultRef, cfg.Ref)
	assert.Equal(t, DefaultHubURL, cfg.HubURL)
	assert.Equal(t, "ehow:", cfg.Redis.Prefix)
	assert.Empty(t, cfg.TopicURL())
}

func TestFromLookupOverrides(t *testing.T) {
	cfg := FromLookup(lookup(map[string]string{
		"YOUTUBE_API_KEY":    " key ",
		"CHANNEL_ID":         "UC123",
		"ACTIVITY_PAGE_SIZE": "20",
		"CACHE_WINDOW":       "72h",
		"S3_PREFIX":          "/site/cache/",
		"S3_USE_PATH_STYLE":  "TRUE",
		"REDIS_DB":           "2",
		"PORT":               "8080",
	}))

	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "UC123", cfg.ChannelID)
	assert.Equal(t, int64(20), cfg.ActivityPageSize)
	assert.Equal(t, 72*time.Hour, cfg.PastWindow)
	assert.Equal(t, "site/cache/", cfg.S3.Prefix)
	assert.True(t, cfg.S3.UsePathStyle)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, "https://www.youtube.com/xml/feeds/videos.xml?channel_id=UC123", cfg.TopicURL())
	require.NoError(t, cfg.ValidateUpdater())
}

func TestYouTubeChannelIDWinsOverAlias(t *testing.T) {
	cfg := FromLookup(lookup(map[string]string{"YOUTUBE_CHANNEL_ID": "UCa", "CHANNEL_ID": "UCb"}))
	assert.Equal(t, "UCa", cfg.ChannelID)
}

func TestValidateUpdaterReportsEverythingMissing(t *testing.T) {
	cfg := FromLookup(lookup(map[string]string{"CACHE_WINDOW": "-1h"}))

	err := cfg.ValidateUpdater()
	var cerr *errs.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []string{"YOUTUBE_API_KEY", "YOUTUBE_CHANNEL_ID"}, cerr.Missing)
	assert.Contains(t, cerr.Invalid, "CACHE_WINDOW")
	assert.Equal(t, DefaultPastWindow, cfg.PastWindow)
}

func TestValidateUpdaterRejectsOversizedPage(t *testing.T) {
	cfg := FromLookup(lookup(map[string]string{
		"YOUTUBE_API_KEY":    "k",
		"YOUTUBE_CHANNEL_ID": "c",
		"ACTIVITY_PAGE_SIZE": "500",
	}))

	var cerr *errs.ConfigError
	require.ErrorAs(t, cfg.ValidateUpdater(), &cerr)
	assert.Empty(t, cerr.Missing)
	assert.Contains(t, cerr.Invalid, "ACTIVITY_PAGE_SIZE")
}

func TestValidateRelay(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		wantMissing []string
		wantInvalid string
	}{
		{name: "ok", env: map[string]string{"REPO": "octo/site", "GITHUB_TOKEN": "t"}},
		{name: "missing both", env: nil, wantMissing: []string{"REPO", "GITHUB_TOKEN"}},
		{name: "bad repo", env: map[string]string{"REPO": "octo", "GITHUB_TOKEN": "t"}, wantInvalid: "REPO"},
		{name: "nested repo", env: map[string]string{"REPO": "octo/site/extra", "GITHUB_TOKEN": "t"}, wantInvalid: "REPO"},
		{name: "bad port", env: map[string]string{"REPO": "octo/site", "GITHUB_TOKEN": "t", "PORT": "http"}, wantInvalid: "PORT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FromLookup(lookup(tc.env)).ValidateRelay()
			if tc.wantMissing == nil && tc.wantInvalid == "" {
				require.NoError(t, err)
				return
			}
			var cerr *errs.ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tc.wantMissing, cerr.Missing)
			if tc.wantInvalid != "" {
				assert.Contains(t, cerr.Invalid, tc.wantInvalid)
			}
		})
	}
}

func TestRepoParts(t *testing.T) {
	owner, repo, err := (&Config{Repo: "octo/site"}).RepoParts()
	require.NoError(t, err)
	assert.Equal(t, "octo", owner)
	assert.Equal(t, "site", repo)

	_, _, err = (&Config{Repo: "/site"}).RepoParts()
	assert.Error(t, err)
}
