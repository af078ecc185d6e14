package log

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// Supported handler formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned when a handler format is neither text nor json.
var ErrUnknownFormat = errors.New("unknown log format")

// New constructs a slog.Logger writing to w with the given level and format.
// A nil writer logs to stderr.
func New(level slog.Level, format string, wrt io.Writer) (*slog.Logger, error) {
	if wrt == nil {
		wrt = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(wrt, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(wrt, opts)), nil
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", format)
	}
}

// ParseLevel converts a level name such as "debug" or "warn" into a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var lvl slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}

	err := lvl.UnmarshalText([]byte(name))
	if err != nil {
		return slog.LevelInfo, errors.Wrapf(err, "unable to parse log level %q", name)
	}

	return lvl, nil
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
