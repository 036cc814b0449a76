// Package logging builds the zerolog logger used by the crawler and the CLI.
package logging

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects level, console styling and an optional rotating log file.
type Config struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	NoColor    bool
}

// New returns a logger writing human-readable lines to console and, when
// cfg.File is set, JSON lines to a rotating file. The returned closer
// releases the file and is never nil.
func New(console io.Writer, cfg Config) (zerolog.Logger, io.Closer) {
	writers := []io.Writer{}

	if console != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        console,
			TimeFormat: time.RFC3339,
			NoColor:    cfg.NoColor,
		})
	}

	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writers = append(writers, file)
		closer = file
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()

	return logger, closer
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}

	return parsed
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
