package license

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"licensekit/internal/infrastructure"
)

// logOperation logs operation completion with duration and records span
// attributes when a span is active on the context.
func (e *Engine) logOperation(ctx context.Context, operation string, start time.Time, err error) {
	logger := infrastructure.LoggerWithContext(ctx)
	duration := time.Since(start)

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("license.operation", operation),
			attribute.Float64("license.duration_ms", float64(duration.Milliseconds())),
			attribute.Bool("license.success", err == nil),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Duration("duration", duration),
		slog.String("component", "license_engine"),
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		logger.LogAttrs(ctx, slog.LevelError, "license operation failed", attrs...)
		return
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "license operation completed", attrs...)
}

func (e *Engine) logAction(ctx context.Context, level slog.Level, action, message string, attrs ...slog.Attr) {
	logger := infrastructure.LoggerWithContext(ctx)
	all := append([]slog.Attr{
		slog.String("action", action),
		slog.String("component", "license_engine"),
	}, attrs...)
	logger.LogAttrs(ctx, level, message, all...)
}

func (e *Engine) logDebug(ctx context.Context, action, message string, attrs ...slog.Attr) {
	e.logAction(ctx, slog.LevelDebug, action, message, attrs...)
}

func (e *Engine) logInfo(ctx context.Context, action, message string, attrs ...slog.Attr) {
	e.logAction(ctx, slog.LevelInfo, action, message, attrs...)
}

func (e *Engine) logWarn(ctx context.Context, action, message string, attrs ...slog.Attr) {
	e.logAction(ctx, slog.LevelWarn, action, message, attrs...)
}

func (e *Engine) logError(ctx context.Context, action, message string, attrs ...slog.Attr) {
	e.logAction(ctx, slog.LevelError, action, message, attrs...)
}
