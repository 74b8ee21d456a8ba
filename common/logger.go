package common

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record and reports every level as disabled.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger shared by every engine package. Passing nil restores the silent default.
//
// Levels used by the engine:
//   - [slog.LevelDebug]: per-frame pass diagnostics
//   - [slog.LevelInfo]: lifecycle events (adapter selected, targets created, state saved)
//   - [slog.LevelWarn]: recoverable issues (shader reload rejected, missing state file)
//
// Parameters:
//   - l: the logger to install
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the engine-wide logger. Safe for concurrent use.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
