// Package songs builds the lyrics index served next to the site.
package songs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"ehow/config"
	"ehow/types"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"
)

var (
	numberTag   = regexp.MustCompile(`(?i)\[NUMBER\]\s*(\d+)`)
	titleTag    = regexp.MustCompile(`(?i)\[TITLE\]\s*(.+)`)
	languageTag = regexp.MustCompile(`(?i)\[LANGUAGE\]\s*(.+)`)
	tagLine     = regexp.MustCompile(`(?i)\[(NUMBER|TITLE|LANGUAGE)\][^\n]*\n?`)

	numberedName = regexp.MustCompile(`^(\d+)\s*-\s*(.*)$`)
)

// Scan reads every *.txt file in dir. Files that cannot be read are kept with empty lyrics.
func Scan(dir string, logger *zap.Logger) ([]types.Song, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read songs directory %s: %w", dir, err)
	}

	songs := make([]types.Song, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Warn("could not read song file", zap.String("file", e.Name()), zap.Error(err))
			content = nil
		}
		songs = append(songs, Parse(e.Name(), string(content)))
	}

	Sort(songs)
	return songs, nil
}

// Parse builds a Song from one file. Tags inside the text win over the file name.
func Parse(fileName, content string) types.Song {
	song := types.Song{File: fileName}

	if m := numberTag.FindStringSubmatch(content); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			song.ID = &n
		}
	}
	if m := titleTag.FindStringSubmatch(content); m != nil {
		song.Title = strings.TrimSpace(m[1])
	}
	if m := languageTag.FindStringSubmatch(content); m != nil {
		song.Language = strings.TrimSpace(m[1])
	}
	song.Lyrics = strings.TrimSpace(tagLine.ReplaceAllString(content, ""))

	if song.Title == "" {
		stem := strings.TrimSuffix(fileName, ".txt")
		if m := numberedName.FindStringSubmatch(stem); m != nil {
			if song.ID == nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					song.ID = &n
				}
			}
			song.Title = strings.TrimSpace(m[2])
		} else {
			song.Title = strings.TrimSpace(stem)
		}
	}
	if song.Language == "" {
		song.Language = config.DefaultSongLanguage
	}
	return song
}

// Sort orders numbered songs first by number, then the rest by title.
func Sort(songs []types.Song) {
	sort.SliceStable(songs, func(i, j int) bool {
		a, b := songs[i], songs[j]
		switch {
		case a.ID != nil && b.ID != nil:
			if *a.ID != *b.ID {
				return *a.ID < *b.ID
			}
			return a.Title < b.Title
		case a.ID != nil:
			return true
		case b.ID != nil:
			return false
		default:
			return a.Title < b.Title
		}
	})
}

// Write replaces path with the index as an indented JSON array.
func Write(path string, songs []types.Song) error {
	if songs == nil {
		songs = []types.Song{}
	}
	data, err := json.MarshalIndent(songs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode songs: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
