package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyOCRID     contextKey = "ocr_id"
)

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithOCRID tags the context with the OCR job being processed
func WithOCRID(ctx context.Context, ocrID string) context.Context {
	return context.WithValue(ctx, ContextKeyOCRID, ocrID)
}

func OCRIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyOCRID).(string); ok {
		return id
	}
	return ""
}

// LoggerFrom returns logger enriched with the request and OCR IDs carried by ctx.
func LoggerFrom(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logger = logger.With("request_id", id)
	}
	if id := OCRIDFromContext(ctx); id != "" {
		logger = logger.With("ocr_id", id)
	}
	return logger
}
