// Command songlist generates songs.json from the lyrics files in the songs directory.
package main

import (
	"flag"
	"os"

	"ehow/config"
	"ehow/logging"
	"ehow/songs"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	defaultDir := cfg.SongsDir
	if defaultDir == "" {
		defaultDir = config.DefaultSongsDir
	}
	dir := flag.String("dir", defaultDir, "directory containing the song .txt files")
	out := flag.String("out", config.DefaultSongsOutput, "output JSON file")
	flag.Parse()

	logger := logging.Must(cfg.LogLevel)
	defer logger.Sync()

	list, err := songs.Scan(*dir, logger)
	if err != nil {
		logger.Error("failed to generate songs.json", zap.Error(err))
		os.Exit(1)
	}
	if err := songs.Write(*out, list); err != nil {
		logger.Error("failed to generate songs.json", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("generated song index", zap.String("file", *out), zap.Int("songs", len(list)))
}
