package log

import (
	"context"
	"log/slog"
)

// ContextKey type for context keys
type ContextKey string

const (
	LoggerContextKey ContextKey = "logger"
)

// IntoContext stores logger in ctx for request-scoped logging.
func IntoContext(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// FromContext extracts a logger from the request context
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return newLogger(slog.Default(), "unknown")
}

// StructuredLogger provides structured logging methods with context awareness
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{
		logger: logger,
	}
}

// HTTPRequest describes a finished request for LogHTTPEnd.
type HTTPRequest struct {
	Method, Path, Route, Query, UserAgent, ClientIP string
	StatusCode                                      int
	DurationMs                                      int64
}

// LogHTTPEnd logs the completion of an HTTP request, escalating the level for failures.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r HTTPRequest) {
	level := slog.LevelInfo
	if r.StatusCode >= 400 && r.StatusCode < 500 {
		level = slog.LevelWarn
	} else if r.StatusCode >= 500 {
		level = slog.LevelError
	}

	fields := NewFields().
		WithHTTPRequest(r.Method, r.Path, r.Route, r.Query, r.UserAgent).
		WithHTTPResponse(r.StatusCode, r.DurationMs, r.StatusCode < 400).
		WithClientIP(r.ClientIP)

	sl.logger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

// LogTransactionRecorded logs a successful ledger append
func (sl *StructuredLogger) LogTransactionRecorded(ctx context.Context, id, txType string, itemPrice, hours float64, category string) {
	fields := NewFields().
		WithTransaction(id, txType, itemPrice, hours, category).
		WithOperation(OpRecord)

	sl.logger.InfoContext(ctx, "Transaction recorded", fields.ToSlice()...)
}

// LogAlert logs an alert handed to the notifier
func (sl *StructuredLogger) LogAlert(ctx context.Context, kind, subjectID, dedupKey string, percentage float64) {
	fields := NewFields().
		WithAlert(kind, subjectID, dedupKey, percentage).
		WithOperation(OpNotify)

	sl.logger.InfoContext(ctx, "Alert raised", fields.ToSlice()...)
}

// LogGoalCredited logs a save credited to a goal
func (sl *StructuredLogger) LogGoalCredited(ctx context.Context, goalID string, amount, percentage float64, event string) {
	fields := NewFields().WithOperation(OpRecord)
	fields[FieldGoalID] = goalID
	fields[FieldItemPrice] = amount
	fields[FieldPercentage] = percentage
	fields["event"] = event

	sl.logger.InfoContext(ctx, "Goal credited", fields.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithOperation(operation)

	sl.logger.ErrorContext(ctx, msg, allFields.ToSlice()...)
}
