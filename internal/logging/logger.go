// Package logging defines the structured-logging interface used across the
// bot. Components never import log/slog directly; they receive a Logger
// (usually narrowed with With("module", ...)) from the application wiring.
package logging

import "context"

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "record saved", "id", rec.ID, "target", outcome.Target)
type Logger interface {
	// Debug logs low-level tracing, e.g. ignored turns.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but recovered conditions
	// (for example a primary store failure that fell back to CSV).
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures that were not recovered.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}
