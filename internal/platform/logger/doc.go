// Package logger provides structured JSON logging built on log/slog, plus
// helpers for carrying a request-scoped logger through a context.
package logger
