// Package logger provides structured logging for the application.
//
// It configures a log/slog JSON (or text) handler from configuration and
// carries request-scoped loggers through context.Context so that every log
// line written while serving a request shares its trace ID.
package logger
