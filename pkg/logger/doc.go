// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package and writes to stderr so that
// check progress and reports on stdout stay machine-parsable.
package logger
