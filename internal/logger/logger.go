// Package logger configures structured logging.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config represents logger configuration.
type Config struct {
	Level     string // "debug", "info", "warn", "error"
	Format    string // "json", "text"
	Version   string
	AddSource bool
}

// DefaultConfig returns defaults used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Level:  "warn",
		Format: "text",
	}
}

// LogLevel converts the configured level to slog.Level.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.Level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning", "":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsJSON returns true if format is JSON.
func (c Config) IsJSON() bool {
	return strings.EqualFold(strings.TrimSpace(c.Format), "json")
}

// New builds a logger writing to w. Every record carries plugin=wikilinx
// and, when set, the build version.
func New(c Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     c.LogLevel(),
		AddSource: c.AddSource,
	}

	var handler slog.Handler
	if c.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	attrs := []slog.Attr{slog.String("plugin", "wikilinx")}
	if c.Version != "" {
		attrs = append(attrs, slog.String("version", c.Version))
	}
	return slog.New(handler.WithAttrs(attrs))
}

// Init builds a stderr logger and installs it as the slog default.
func Init(c Config) *slog.Logger {
	l := New(c, os.Stderr)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
