// Package logging defines the structured-logging interface used across the
// project, with slog and zerolog implementations.
package logging

import (
	"context"
	"io"
	"log/slog"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "shuffle stored", "users", n, "fallback", fallback)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds the logger selected by format. "console" gives human-readable
// zerolog output for local runs; anything else gives slog JSON lines.
func New(format string, w io.Writer) Logger {
	if format == FormatConsole {
		zl := zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
		return NewZerologLogger(zl)
	}
	return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
}

// RequestIDKey is the attribute under which the chi request ID is logged.
const RequestIDKey = "request_id"

// withRequestID prepends the request ID found in ctx to args.
func withRequestID(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	id := chimw.GetReqID(ctx)
	if id == "" {
		return args
	}
	return append([]any{RequestIDKey, id}, args...)
}
