package sharedlogger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Init replaces the no-op logger. format "json" selects the production encoder,
// anything else the development console encoder.
func Init(levelStr, format string) {
	level := zapcore.InfoLevel
	if err := level.Set(levelStr); err != nil {
		level = zapcore.InfoLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)

	l, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	log = l
}

// Set installs l as the shared logger, e.g. a zaptest logger.
func Set(l *zap.Logger) {
	log = l
}

func L() *zap.Logger {
	return log
}

func WithTrace(ctx context.Context) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
