package vgfx

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/vgfx/internal/gpu"
	"github.com/gogpu/vgfx/render"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for vgfx and all its sub-packages.
// By default, vgfx produces no log output. Pass nil to restore the silent
// default.
//
// Log levels used by vgfx:
//   - [slog.LevelDebug]: resizes, pipeline and bucket creation, suboptimal frames
//   - [slog.LevelInfo]: adapter selection and context creation
//   - [slog.LevelWarn]: teardown and readback anomalies
//
// Example:
//
//	vgfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	render.SetLogger(l)
	gpu.SetLogger(l)
}

// Logger returns the current logger used by vgfx.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
