package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// write is the single sink of every logging method.
func (l *LoggerClient) write(ctx context.Context, lvl zapcore.Level, msg string, err error, fields []map[string]interface{}) {
	ce := l.Zap.Check(lvl, msg)
	if ce == nil {
		return
	}
	zapFields := l.convertToZapFields(err, fields...)
	zapFields = append(zapFields, l.extractTracingFields(ctx)...)
	ce.Write(zapFields...)
}

// extractTracingFields returns trace_id and span_id of the recording span in
// ctx, or nothing when tracing is disabled or no valid span is present.
func (l *LoggerClient) extractTracingFields(ctx context.Context) []zap.Field {
	if !l.tracingEnabled || ctx == nil {
		return nil
	}

	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return nil
	}
	sc := span.SpanContext()
	if !sc.IsValid() {
		return nil
	}

	return []zap.Field{
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	}
}

// convertToZapFields flattens err and the field maps into zap fields. Keys
// repeated across maps are all written.
func (l *LoggerClient) convertToZapFields(err error, fields ...map[string]interface{}) []zap.Field {
	var zapFields []zap.Field
	if err != nil {
		zapFields = append(zapFields, zap.Error(err))
	}
	for _, m := range fields {
		for k, v := range m {
			zapFields = append(zapFields, zap.Any(k, v))
		}
	}
	return zapFields
}

// Debug logs a debug-level message with an optional error and structured fields.
// Debug entries are dropped unless the logger level is "debug".
func (l *LoggerClient) Debug(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zap.DebugLevel, msg, err, fields)
}

// Info logs an informational message, along with an optional error and structured fields.
//
// Parameters:
//   - msg: The log message
//   - err: An error to include in the log entry, or nil if no error
//   - fields: Variable number of maps with additional structured data
//
// Example:
//
//	logger.Info("Bound pool metrics", nil, map[string]interface{}{
//	    "pool":       "master",
//	    "datasource": "master",
//	})
func (l *LoggerClient) Info(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zap.InfoLevel, msg, err, fields)
}

// Warn logs a warning for conditions the application recovers from, such as
// a pool that could not be bound.
func (l *LoggerClient) Warn(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zap.WarnLevel, msg, err, fields)
}

// Error logs an error-level message.
func (l *LoggerClient) Error(msg string, err error, fields ...map[string]interface{}) {
	l.write(context.Background(), zap.ErrorLevel, msg, err, fields)
}

// DebugWithContext is Debug with trace_id and span_id taken from ctx when
// tracing is enabled.
func (l *LoggerClient) DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zap.DebugLevel, msg, err, fields)
}

// InfoWithContext is Info with trace_id and span_id taken from ctx when
// tracing is enabled.
//
// Parameters:
//   - ctx: Context carrying the active span, may be nil
//   - msg: The log message
//   - err: An error to include in the log entry, or nil if no error
//   - fields: Variable number of maps with additional structured data
func (l *LoggerClient) InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zap.InfoLevel, msg, err, fields)
}

// WarnWithContext is Warn with tracing fields from ctx.
func (l *LoggerClient) WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zap.WarnLevel, msg, err, fields)
}

// ErrorWithContext is Error with tracing fields from ctx.
func (l *LoggerClient) ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{}) {
	l.write(ctx, zap.ErrorLevel, msg, err, fields)
}
