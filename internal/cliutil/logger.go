package cliutil

import (
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
)

// NewHumanLogger returns a slog logger writing human readable lines to w,
// colored when w is a terminal (see ColorEnabled).
func NewHumanLogger(w io.Writer, level slog.Level) *slog.Logger {
	colored := ColorEnabled(w)
	opts := &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !colored,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			return rewriteLogLevel(groups, a, colored)
		},
	}
	return slog.New(tint.NewHandler(w, opts))
}

func rewriteLogLevel(groups []string, a slog.Attr, colored bool) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) != 0 {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}

	var (
		levelText string
		attr      color.Attribute
	)
	switch level {
	case slog.LevelDebug:
		levelText = "DEBUG"
	case slog.LevelInfo:
		levelText, attr = "INFO", color.FgGreen
	case slog.LevelWarn:
		levelText, attr = "WARN", color.FgYellow
	case slog.LevelError:
		levelText, attr = "ERROR", color.FgRed
	default:
		levelText = level.String()
	}
	if colored && attr != 0 {
		levelText = color.New(attr).Sprint(levelText)
	}
	a.Value = slog.StringValue(levelText)
	return a
}
