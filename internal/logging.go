package internal

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// NewLogger builds the run logger: a console handler on stdout (Info, or
// Debug when verbose) and, when logFile is set, an append-only text
// handler at Debug. The returned closer flushes and closes the file.
func NewLogger(logFile string, verbose bool) (*slog.Logger, func(), error) {
	consoleLevel := slog.LevelInfo
	if verbose {
		consoleLevel = slog.LevelDebug
	}
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: consoleLevel})

	if logFile == "" {
		return slog.New(console), func() {}, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	// Timestamped run header separating appended runs.
	fmt.Fprintf(f, "\n=== Run at %s ===\n", time.Now().Format("2006-01-02 15:04:05"))

	file := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(newFanoutHandler(console, file))
	closer := func() {
		_ = f.Close()
	}
	return logger, closer, nil
}

// fanoutHandler duplicates records to several handlers, each applying its
// own level filter.
type fanoutHandler struct {
	handlers []slog.Handler
}

func newFanoutHandler(handlers ...slog.Handler) slog.Handler {
	if len(handlers) == 1 {
		return handlers[0]
	}
	return &fanoutHandler{handlers: handlers}
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for idx, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		rec := record
		if idx < len(h.handlers)-1 {
			rec = record.Clone()
		}
		if err := handler.Handle(ctx, rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
