// Package cli implements the lightning command-line interface.
//
// The commands generate lightning infill for sliced prints, render exported
// forests, browse per-layer results and serve them over HTTP. The CLI is
// built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Grow the forests of a print and export them
//   - render: Draw layers of an exported forests file
//   - inspect: Browse per-layer statistics interactively
//   - serve: Serve a generated print over the query API
//   - config: Write or show the settings file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every finished layer through the observability hooks.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the elapsed time of an operation when it completes.
// It is safe for sequential use by a single goroutine.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Generated 3 objects (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context carrying l.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
