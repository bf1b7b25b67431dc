package logger

import (
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// internalFrames is the number of frames this package adds between the caller
// and zap: the public method and write.
const internalFrames = 2

// LoggerClient wraps a *zap.Logger behind the Logger interface.
type LoggerClient struct {
	// Zap is exposed for callers that need zap-specific features.
	Zap *zap.Logger

	tracingEnabled bool
}

// NewLoggerClient builds a JSON logger writing to stderr.
//
// Entries carry ISO8601 timestamps, capitalized levels, the full caller path
// and the "pid" and "service" fields. A zap build failure is fatal since no
// part of the application can report anything without a logger.
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Info, ServiceName: "dsdemo"})
//	log.Info("router ready", nil, map[string]interface{}{"datasources": 3})
func NewLoggerClient(cfg Config) *LoggerClient {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderCfg.EncodeCaller = zapcore.FullCallerEncoder
	encoderCfg.EncodeDuration = zapcore.MillisDurationEncoder

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Encoding:         "json",
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields: map[string]interface{}{
			"pid":     os.Getpid(),
			"service": cfg.ServiceName,
		},
	}

	skip := cfg.CallerSkip
	if skip < 0 {
		skip = 0
	}

	zl, err := zcfg.Build(zap.AddCaller(), zap.AddCallerSkip(skip+internalFrames))
	if err != nil {
		log.Fatal(err)
	}

	return &LoggerClient{
		Zap:            zl,
		tracingEnabled: cfg.EnableTracing,
	}
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case Debug:
		return zap.DebugLevel
	case Warning:
		return zap.WarnLevel
	case Error:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}
