// Package logger builds the bot's structured logger: human readable text on stdout,
// JSON lines in a rotated file.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	multi "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

var level = new(slog.LevelVar)

// New returns a logger writing to stdout and, if file is not empty, to a rotated JSON log.
func New(lvl, file string) *slog.Logger {
	return newWith(os.Stdout, lvl, file)
}

func newWith(w io.Writer, lvl, file string) *slog.Logger {
	SetLevel(lvl)
	opts := &slog.HandlerOptions{Level: level}

	handlers := []slog.Handler{slog.NewTextHandler(w, opts)}
	if file != "" {
		handlers = append(handlers, slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   file,
			MaxSize:    64,
			MaxBackups: 8,
			MaxAge:     30,
			Compress:   true,
		}, opts))
	}

	return slog.New(multi.Fanout(handlers...))
}

// SetLevel changes the level of every logger created by New. Unknown values mean info.
func SetLevel(lvl string) {
	switch strings.ToLower(lvl) {
	case "debug":
		level.Set(slog.LevelDebug)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}
}

func Level() slog.Level {
	return level.Level()
}
