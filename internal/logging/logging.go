// Package logging builds the process-wide slog logger.
//
// Two output formats are supported:
//   - "json":    slog's JSON handler, one object per line (production)
//   - "console": the same records rendered by zerolog's ConsoleWriter,
//     colored and aligned for a terminal (development)
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// ParseLevel maps a LOG_LEVEL value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// New returns a logger writing to w at the given level and format.
func New(level slog.Level, format string, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}

	switch format {
	case "", FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case FormatConsole:
		// ConsoleWriter parses one JSON event per Write, which is exactly
		// what the JSON handler emits. It expects zerolog's field names.
		opts.ReplaceAttr = zerologFields
		cw := zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
		return slog.New(slog.NewJSONHandler(cw, opts)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// zerologFields renames slog's built-in keys to the ones ConsoleWriter
// reads: "message" instead of "msg" and a lower-case level.
func zerologFields(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}
	switch a.Key {
	case slog.MessageKey:
		a.Key = zerolog.MessageFieldName
	case slog.LevelKey:
		a.Key = zerolog.LevelFieldName
		a.Value = slog.StringValue(strings.ToLower(a.Value.String()))
	case slog.TimeKey:
		a.Key = zerolog.TimestampFieldName
	}
	return a
}
