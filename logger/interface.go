package logger

import (
	"context"
)

// Logger is the structured logging API shared by every package of this module.
// Packages that only need to log depend on a narrower local interface holding
// the *WithContext methods, which *LoggerClient satisfies.
type Logger interface {
	Debug(msg string, err error, fields ...map[string]interface{})
	Info(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})

	// The context-aware variants attach trace/span IDs when tracing is enabled.
	DebugWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	InfoWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	WarnWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
	ErrorWithContext(ctx context.Context, msg string, err error, fields ...map[string]interface{})
}

var _ Logger = (*LoggerClient)(nil)
