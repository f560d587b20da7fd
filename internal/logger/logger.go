// Package logger provides slog helpers for the app.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/lepinkainen/humanlog"
)

// New builds the process logger. Production writes JSON with source locations to
// stderr; local development gets colored human readable lines on stdout.
func New(production bool, level slog.Level) *slog.Logger {
	if production {
		return slog.New(newJSONHandler(os.Stderr, level))
	}
	return slog.New(humanlog.NewHandler(os.Stdout, &humanlog.Options{Level: level}))
}

func newJSONHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     level,
	})
}

// ExitOnLevel writes records through the wrapped handler and exits the process
// after a record at exactly lvl. Records the wrapped handler filters out never
// reach it.
type ExitOnLevel struct {
	lvl  slog.Level
	exit func(code int)
	slog.Handler
}

// WithExitOnLevel wraps log so that logging at lvl terminates the process.
func WithExitOnLevel(log *slog.Logger, lvl slog.Level) *slog.Logger {
	return slog.New(&ExitOnLevel{lvl: lvl, exit: os.Exit, Handler: log.Handler()})
}

//nolint:gocritic // slog.Handler requires Record by value.
func (h *ExitOnLevel) Handle(ctx context.Context, r slog.Record) error {
	err := h.Handler.Handle(ctx, r)
	if r.Level == h.lvl {
		h.exit(1)
	}
	return err
}

func (h *ExitOnLevel) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ExitOnLevel{lvl: h.lvl, exit: h.exit, Handler: h.Handler.WithAttrs(attrs)}
}

func (h *ExitOnLevel) WithGroup(name string) slog.Handler {
	return &ExitOnLevel{lvl: h.lvl, exit: h.exit, Handler: h.Handler.WithGroup(name)}
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "nil")
	}
	return slog.String("err", err.Error())
}
