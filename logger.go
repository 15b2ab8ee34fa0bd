package codewise

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
)

// ANSI colors used for request status attributes.
const (
	colorOK       = 10 // bright green
	colorRedirect = 14 // bright cyan
	colorClient   = 11 // bright yellow
	colorServer   = 9  // bright red
)

// NewLogger returns a slog logger writing human readable lines to w.
func NewLogger(w io.Writer, level slog.Leveler, colored bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !colored,
	}))
}

// statusAttr colors an HTTP status by class.
func statusAttr(status int) slog.Attr {
	attr := slog.Int("status", status)
	switch {
	case status >= 500:
		return tint.Attr(colorServer, attr)
	case status >= 400:
		return tint.Attr(colorClient, attr)
	case status >= 300:
		return tint.Attr(colorRedirect, attr)
	default:
		return tint.Attr(colorOK, attr)
	}
}
