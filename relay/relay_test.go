package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"ehow/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pushFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:yt="http://www.youtube.com/xml/schemas/2015" xmlns="http://www.w3.org/2005/Atom">
  <link rel="hub" href="https://pubsubhubbub.appspot.com"/>
  <link rel="self" href="https://www.youtube.com/xml/feeds/videos.xml?channel_id=UC1"/>
  <title>YouTube video feed</title>
  <updated>2024-06-10T00:00:00+00:00</updated>
  <entry>
    <id>yt:video:VID1</id>
    <yt:videoId>VID1</yt:videoId>
    <yt:channelId>UC1</yt:channelId>
    <title>Sunday Service</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=VID1"/>
    <author><name>EHOW</name></author>
    <published>2024-06-09T10:00:00+00:00</published>
    <updated>2024-06-09T10:05:00+00:00</updated>
  </entry>
</feed>`

func TestParseNotification(t *testing.T) {
	entries, err := ParseNotification([]byte(pushFeed))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "VID1", e.VideoID)
	assert.Equal(t, "UC1", e.ChannelID)
	assert.Equal(t, "Sunday Service", e.Title)
	assert.Equal(t, "https://www.youtube.com/watch?v=VID1", e.Link)
	require.NotNil(t, e.Published)
	assert.Equal(t, 2024, e.Published.Year())
}

func TestParseNotificationMalformed(t *testing.T) {
	for _, body := range []string{"", "   ", "definitely not xml"} {
		_, err := ParseNotification([]byte(body))
		var malformed *errs.MalformedResponseError
		assert.ErrorAs(t, err, &malformed, "body %q", body)
	}
}

type dispatchCapture struct {
	path   string
	auth   string
	ref    string
	status int
	reply  string
}

func newGitHub(t *testing.T, c *dispatchCapture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.path = r.URL.Path
		c.auth = r.Header.Get("Authorization")
		var body struct {
			Ref string `json:"ref"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		c.ref = body.Ref

		if c.status == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(c.status)
		_, _ = io.WriteString(w, c.reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

var target = WorkflowTarget{Owner: "ehow", Repo: "site", Workflow: "youtube-cache.yml", Ref: "main"}

func TestGitHubDispatcherSendsDispatch(t *testing.T) {
	capture := &dispatchCapture{}
	srv := newGitHub(t, capture)

	d, err := NewGitHubDispatcher(context.Background(), "tok", target, srv.URL, nil)
	require.NoError(t, err)
	require.NoError(t, d.Dispatch(context.Background()))

	assert.Equal(t, "/repos/ehow/site/actions/workflows/youtube-cache.yml/dispatches", capture.path)
	assert.Equal(t, "Bearer tok", capture.auth)
	assert.Equal(t, "main", capture.ref)
}

func TestGitHubDispatcherMapsErrors(t *testing.T) {
	capture := &dispatchCapture{status: http.StatusUnprocessableEntity, reply: `{"message":"No ref found for: nope"}`}
	srv := newGitHub(t, capture)

	d, err := NewGitHubDispatcher(context.Background(), "tok", target, srv.URL, nil)
	require.NoError(t, err)

	err = d.Dispatch(context.Background())
	var up *errs.UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, http.StatusUnprocessableEntity, up.StatusCode)
	assert.Contains(t, up.Body, "No ref found")
}

func TestHubClientSend(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		form = r.PostForm
		w.WriteHeader(http.StatusAccepted)
		_, _ = io.WriteString(w, "queued")
	}))
	defer srv.Close()

	resp, err := NewHubClient(srv.URL, nil).Send(context.Background(), HubRequest{
		Mode:     ModeSubscribe,
		Topic:    "https://www.youtube.com/xml/feeds/videos.xml?channel_id=UC1",
		Callback: "https://relay.example/webhook",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "queued", string(resp.Body))
	assert.Equal(t, "subscribe", form.Get("hub.mode"))
	assert.Equal(t, "sync", form.Get("hub.verify"))
	assert.Equal(t, "https://relay.example/webhook", form.Get("hub.callback"))
	assert.Empty(t, form.Get("hub.verify_token"))
}

func TestHubClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	hubURL := srv.URL
	srv.Close()

	_, err := NewHubClient(hubURL, nil).Send(context.Background(), HubRequest{Mode: ModeUnsubscribe})
	assert.Error(t, err)
}
