package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ehow/types"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

// FileSink writes artifacts into a local directory.
type FileSink struct {
	Dir    string
	Logger *zap.Logger
}

// NewFileSink creates dir if needed.
func NewFileSink(dir string, logger *zap.Logger) (*FileSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileSink{Dir: dir, Logger: logger}, nil
}

// Write replaces the artifact file atomically; readers see the old or the new file, never a partial one.
func (s *FileSink) Write(_ context.Context, name string, doc types.CacheDocument) error {
	file, err := FileName(name)
	if err != nil {
		return err
	}
	data, err := encode(doc)
	if err != nil {
		return err
	}

	path := filepath.Join(s.Dir, file)
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}

	s.logger().Info("wrote cache file", zap.String("path", path), zap.Int("items", len(doc.Items)))
	return nil
}

func (s *FileSink) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
