// Package logger builds the process logger on log/slog and carries a
// per-request logger, tagged with the request id, through context.Context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// New returns a JSON logger in production and a text logger otherwise.
func New(production bool) *slog.Logger {
	return NewTo(os.Stdout, production)
}

func NewTo(w io.Writer, production bool) *slog.Logger {
	if production {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

type ctxKey struct{}

// Inject stores log in ctx.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromCtx returns the logger stored by Inject, or slog.Default.
func FromCtx(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
