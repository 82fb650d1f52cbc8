package logging

import (
	"fmt"
	"io"
	"log/slog"
)

// Supported values for the log_format setting.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatZap  = "zap"
)

// New picks a Logger implementation by format name. Every implementation
// writes to w and keeps debug entries only when debug is true.
func New(format string, w io.Writer, debug bool) (Logger, error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	switch format {
	case "", FormatText:
		return NewTextLogger(w, level), nil
	case FormatJSON:
		return NewJSONLogger(w, level), nil
	case FormatZap:
		return NewZapWriter(w, debug), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}
