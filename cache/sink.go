package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ehow/config"
	"ehow/types"
)

// Artifact names, one per non-discarded category.
const (
	Upcoming = "upcoming"
	Live     = "live"
	Past     = "past"
)

// Names lists the artifacts in the order they are written.
var Names = []string{Upcoming, Live, Past}

// Sink persists one named cache document, replacing any previous content.
type Sink interface {
	Write(ctx context.Context, name string, doc types.CacheDocument) error
}

// FileName maps an artifact to the file the site reads.
func FileName(name string) (string, error) {
	switch name {
	case Upcoming:
		return config.UpcomingCacheFile, nil
	case Live:
		return config.LiveCacheFile, nil
	case Past:
		return config.PastCacheFile, nil
	}
	return "", fmt.Errorf("unknown cache artifact %q", name)
}

// Documents builds the three artifacts of a result set with a shared timestamp.
func Documents(rs types.ResultSet, generatedAt time.Time) map[string]types.CacheDocument {
	return map[string]types.CacheDocument{
		Upcoming: types.NewCacheDocument(rs.Upcoming, generatedAt),
		Live:     types.NewCacheDocument(rs.Live, generatedAt),
		Past:     types.NewCacheDocument(rs.Past, generatedAt),
	}
}

// WriteAll writes every artifact of rs to sink, stopping at the first error.
func WriteAll(ctx context.Context, sink Sink, rs types.ResultSet, generatedAt time.Time) error {
	docs := Documents(rs, generatedAt)
	for _, name := range Names {
		if err := sink.Write(ctx, name, docs[name]); err != nil {
			return fmt.Errorf("write %s cache: %w", name, err)
		}
	}
	return nil
}

// Multi fans a write out to several sinks in order.
type Multi []Sink

func (m Multi) Write(ctx context.Context, name string, doc types.CacheDocument) error {
	for _, s := range m {
		if err := s.Write(ctx, name, doc); err != nil {
			return err
		}
	}
	return nil
}

func encode(doc types.CacheDocument) ([]byte, error) {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode cache document: %w", err)
	}
	return b, nil
}
