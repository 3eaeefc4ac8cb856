package xslog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level string

var _ fmt.Stringer = (*Level)(nil)

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

const (
	EnvKey       = "LOG_LEVEL"
	FormatEnvKey = "LOG_FORMAT"
)

const Default = LevelInfo

// Format selects the handler: JSON for the server, text for humans.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

var slogLevels = map[Level]slog.Level{
	LevelDebug: slog.LevelDebug,
	LevelInfo:  slog.LevelInfo,
	LevelWarn:  slog.LevelWarn,
	LevelError: slog.LevelError,
}

// Parse accepts the level names case-insensitively; "warning" is read as warn.
func Parse(s string) (Level, error) {
	l := Level(strings.ToLower(strings.TrimSpace(s)))
	if l == "warning" {
		l = LevelWarn
	}
	if _, ok := slogLevels[l]; !ok {
		return "", fmt.Errorf("invalid log level: %q (valid: debug, info, warn, error)", s)
	}
	return l, nil
}

// FromEnv reads LOG_LEVEL, falling back to Default when unset or invalid.
func FromEnv() Level {
	if level, err := Parse(os.Getenv(EnvKey)); err == nil {
		return level
	}
	return Default
}

func (l Level) ToSlog() slog.Level {
	if sl, ok := slogLevels[l]; ok {
		return sl
	}
	return slog.LevelInfo
}

func (l Level) String() string {
	return string(l)
}

// FormatFromEnv reads LOG_FORMAT, falling back to def when unset or unknown.
func FormatFromEnv(def Format) Format {
	switch f := Format(strings.ToLower(os.Getenv(FormatEnvKey))); f {
	case FormatJSON, FormatText:
		return f
	default:
		return def
	}
}

func NewLogger(w io.Writer, level Level, format Format) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level.ToSlog()}
	if format == FormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func NewLoggerFromEnv(w io.Writer) *slog.Logger {
	return NewLogger(w, FromEnv(), FormatFromEnv(FormatJSON))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
