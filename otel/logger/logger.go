package logger

import (
	"context"
	"fmt"
	"time"

	"github.com/octabyte/bm-health-portal/utils/logger"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const instrumentationName = "github.com/octabyte/bm-health-portal"

// InfoCtx logs an info message with trace context
func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logWithTrace(ctx, otellog.SeverityInfo, msg, fields...)
}

// ErrorCtx logs an error message with trace context
func ErrorCtx(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	logWithTrace(ctx, otellog.SeverityError, msg, fields...)
}

// WarnCtx logs a warning message with trace context
func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logWithTrace(ctx, otellog.SeverityWarn, msg, fields...)
}

// DebugCtx logs a debug message with trace context
func DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	logWithTrace(ctx, otellog.SeverityDebug, msg, fields...)
}

func InfofCtx(ctx context.Context, format string, args ...interface{}) {
	logWithTrace(ctx, otellog.SeverityInfo, fmt.Sprintf(format, args...))
}

func WarnfCtx(ctx context.Context, format string, args ...interface{}) {
	logWithTrace(ctx, otellog.SeverityWarn, fmt.Sprintf(format, args...))
}

// logWithTrace writes to the zap globals with trace_id and span_id attached
// and mirrors the record to the OpenTelemetry log provider.
func logWithTrace(ctx context.Context, severity otellog.Severity, msg string, fields ...zap.Field) {
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.IsValid() {
		fields = append(fields,
			zap.String("trace_id", spanContext.TraceID().String()),
			zap.String("span_id", spanContext.SpanID().String()),
		)
	}

	switch severity {
	case otellog.SeverityError:
		logger.LogError(msg, fields...)
	case otellog.SeverityWarn:
		logger.LogWarn(msg, fields...)
	case otellog.SeverityDebug:
		logger.LogDebug(msg, fields...)
	default:
		logger.LogInfo(msg, fields...)
	}

	emit(ctx, severity, msg)
}

func emit(ctx context.Context, severity otellog.Severity, msg string) {
	l := global.GetLoggerProvider().Logger(instrumentationName)
	if !l.Enabled(ctx, otellog.EnabledParameters{Severity: severity}) {
		return
	}

	var record otellog.Record
	record.SetTimestamp(time.Now())
	record.SetSeverity(severity)
	record.SetSeverityText(severity.String())
	record.SetBody(otellog.StringValue(msg))
	l.Emit(ctx, record)
}

// GetTraceID extracts the trace ID from context
func GetTraceID(ctx context.Context) string {
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.IsValid() {
		return spanContext.TraceID().String()
	}
	return ""
}

// GetSpanID extracts the span ID from context
func GetSpanID(ctx context.Context) string {
	spanContext := trace.SpanContextFromContext(ctx)
	if spanContext.IsValid() {
		return spanContext.SpanID().String()
	}
	return ""
}
