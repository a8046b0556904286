package shared

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// NewCorrelationID returns a fresh id for one handled chat message.
func NewCorrelationID() string {
	return uuid.NewString()
}

// WithCorrelationID adds a correlation ID to the context
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// CorrelationID returns the id stored in ctx, if any.
func CorrelationID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(correlationIDKey).(string)
	return id, ok && id != ""
}

func correlationFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if id, ok := CorrelationID(ctx); ok {
		return append(fields, zap.String("correlation_id", id))
	}
	return fields
}

// LogWithContext logs at info level, tagging the entry with the correlation ID
// carried by ctx.
func LogWithContext(ctx context.Context, logger *zap.Logger, msg string, fields ...zap.Field) {
	if logger == nil {
		return
	}
	logger.Info(msg, correlationFields(ctx, fields)...)
}

// LogErrorWithContext logs an error with correlation ID from context
func LogErrorWithContext(ctx context.Context, logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	if logger == nil {
		return
	}
	fields = append(fields, zap.Error(err))
	logger.Error(msg, correlationFields(ctx, fields)...)
}
