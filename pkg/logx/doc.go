// Package logx wraps zerolog behind a small Logger value with slog-like
// Field helpers and a Service that can hot-swap sinks and level on config
// reload without invalidating existing loggers.
package logx
