// Package iologger initializes the global slog logger.
package iologger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/artsfest/festsync/pkg/config"
)

// LogFile is the name of the log file created in the log directory.
const LogFile = "festsync.log"

// Init sets the global slog logger from cfg. With the "file" destination
// the log is appended to LogFile in logDir, so runs of the CLI and the
// server share one history.
func Init(logDir string, cfg config.LogConfig) error {
	writer, err := destination(logDir, cfg.Destination)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch cfg.Format {
	case "text", "tint":
		handler = slog.NewTextHandler(writer, opts)
	default:
		handler = slog.NewJSONHandler(writer, opts)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func destination(logDir, dest string) (io.Writer, error) {
	switch dest {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "file":
		path := filepath.Join(logDir, LogFile)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, CreateLogFileError(path, err)
		}
		return f, nil
	default:
		return os.Stderr, nil
	}
}

// parseLevel converts string level to slog.Level.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
