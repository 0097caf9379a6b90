// Copyright (c) 2025 The StakeHive developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides structured logging on top of log/slog with a
// process-wide root logger that packages derive contextual loggers from.
package log

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lmittmann/tint"
)

// Logger is the handle packages log through.
type Logger = *slog.Logger

// rootHandler is the active output handler. Loggers derived before SetRoot
// still resolve it at log time, so package-level loggers pick up the
// handler installed during process setup.
var rootHandler atomic.Pointer[slog.Handler]

var rootLogger = slog.New(&dynamicHandler{})

func init() {
	h := DiscardHandler()
	rootHandler.Store(&h)
}

// Root returns the process-wide root logger.
func Root() Logger {
	return rootLogger
}

// SetRoot installs l's handler as the process-wide output. Loggers already
// derived via WithContext follow along.
func SetRoot(l Logger) {
	h := l.Handler()
	rootHandler.Store(&h)
}

// WithContext derives a logger carrying the given key-value context.
//
//	var logger = log.WithContext("pkg", "staking")
func WithContext(keyvals ...any) Logger {
	return Root().With(keyvals...)
}

// dynamicHandler defers resolution of the output handler to log time, and
// replays any accumulated attrs/groups onto it.
type dynamicHandler struct {
	wrap func(slog.Handler) slog.Handler
}

func (h *dynamicHandler) resolve() slog.Handler {
	base := *rootHandler.Load()
	if h.wrap != nil {
		return h.wrap(base)
	}
	return base
}

func (h *dynamicHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.resolve().Enabled(ctx, level)
}

func (h *dynamicHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *dynamicHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prev := h.wrap
	return &dynamicHandler{wrap: func(base slog.Handler) slog.Handler {
		if prev != nil {
			base = prev(base)
		}
		return base.WithAttrs(attrs)
	}}
}

func (h *dynamicHandler) WithGroup(name string) slog.Handler {
	prev := h.wrap
	return &dynamicHandler{wrap: func(base slog.Handler) slog.Handler {
		if prev != nil {
			base = prev(base)
		}
		return base.WithGroup(name)
	}}
}

// NewTerminalHandler returns a handler producing human-readable, optionally
// colorized output at the given level.
func NewTerminalHandler(w io.Writer, level slog.Level, useColor bool) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		NoColor:    !useColor,
		TimeFormat: time.DateTime,
	})
}

// NewJSONHandler returns a machine-readable handler at the given level.
func NewJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// LevelFromVerbosity maps a 0..4 verbosity flag onto slog levels,
// where 0 is errors only and 4 and above is debug.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelError
	case v == 1:
		return slog.LevelWarn
	case v == 2:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
