// Package logger configures the log/slog JSON logger and carries
// request-scoped loggers through context.Context.
package logger
