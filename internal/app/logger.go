package app

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	charmlog "github.com/charmbracelet/log"
)

var level = new(slog.LevelVar)

// Logger returns the logger singleton.
// LOG_FORMAT=text switches from JSON on stdout to human readable output on stderr.
var Logger = sync.OnceValue(func() *slog.Logger {
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		level.Set(slog.LevelDebug)
	}

	var baseHandler slog.Handler

	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		baseHandler = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           charmlog.DebugLevel,
		})
	} else {
		baseHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return slog.New(&loggerHandler{handler: baseHandler})
})

// SetVerbose toggles debug logging at runtime.
func SetVerbose(verbose bool) {
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}
}

type loggerHandler struct {
	handler slog.Handler
}

func (h *loggerHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= level.Level() && h.handler.Enabled(ctx, l)
}

func (h *loggerHandler) Handle(ctx context.Context, r slog.Record) error {
	// Convert the time to UTC and truncate microseconds
	r.Time = r.Time.UTC().Truncate(time.Second)
	return h.handler.Handle(ctx, r)
}

func (h *loggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &loggerHandler{handler: h.handler.WithAttrs(attrs)}
}

func (h *loggerHandler) WithGroup(name string) slog.Handler {
	return &loggerHandler{handler: h.handler.WithGroup(name)}
}
