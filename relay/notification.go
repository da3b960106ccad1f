package relay

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"ehow/errs"

	"github.com/mmcdole/gofeed"
)

var errEmptyBody = errors.New("empty body")

// Entry is the useful part of one <entry> in a YouTube push notification.
type Entry struct {
	VideoID   string
	ChannelID string
	Title     string
	Link      string
	Published *time.Time
}

// ParseNotification reads the Atom document YouTube pushes on channel changes.
// A document that is not a feed yields *errs.MalformedResponseError.
func ParseNotification(body []byte) ([]Entry, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &errs.MalformedResponseError{What: "push notification", Err: errEmptyBody}
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &errs.MalformedResponseError{What: "push notification", Err: err}
	}

	entries := make([]Entry, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		e := Entry{
			VideoID:   ytExtension(item, "videoId"),
			ChannelID: ytExtension(item, "channelId"),
			Title:     strings.TrimSpace(item.Title),
			Link:      item.Link,
			Published: item.PublishedParsed,
		}
		if e.VideoID == "" {
			e.VideoID = strings.TrimPrefix(item.GUID, "yt:video:")
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func ytExtension(item *gofeed.Item, name string) string {
	if item.Extensions == nil {
		return ""
	}
	values := item.Extensions["yt"][name]
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0].Value)
}
