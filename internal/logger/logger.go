package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"txnsense/internal/config"
	"txnsense/pkg/logging"
)

type Logger interface {
	Debug(args ...interface{})
	Debugf(template string, args ...interface{})
	Debugw(msg string, keysAndValues ...interface{})
	Info(args ...interface{})
	Infof(template string, args ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Warnf(template string, args ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Error(args ...interface{})
	Errorf(template string, args ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatal(args ...interface{})
	Fatalf(template string, args ...interface{})
	Sync() error

	DebugwCtx(ctx context.Context, msg string, keysAndValues ...interface{})
	InfowCtx(ctx context.Context, msg string, keysAndValues ...interface{})
	WarnwCtx(ctx context.Context, msg string, keysAndValues ...interface{})
	ErrorwCtx(ctx context.Context, msg string, keysAndValues ...interface{})

	// Named returns a child logger that tags every entry with the component name.
	Named(component string) Logger
}

type SugaredLogger struct {
	*zap.SugaredLogger
}

// New builds the process logger. Entries carry service as a field; format is "json"
// (default) or "console" for local runs.
func New(cfg config.LoggingConfig, service string) (Logger, error) {
	zapLogger, err := buildConfig(cfg).Build()
	if err != nil {
		return nil, err
	}
	if service != "" {
		zapLogger = zapLogger.With(zap.String("service", service))
	}
	return &SugaredLogger{SugaredLogger: zapLogger.Sugar()}, nil
}

// FromCore wraps an existing zap core, e.g. an observer in tests.
func FromCore(core zapcore.Core) Logger {
	return &SugaredLogger{SugaredLogger: zap.New(core).Sugar()}
}

func buildConfig(cfg config.LoggingConfig) zap.Config {
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zc.Encoding = "json"
		zc.EncoderConfig.MessageKey = "message"
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	}
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.NameKey = "component"

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc
}

func (l *SugaredLogger) Named(component string) Logger {
	return &SugaredLogger{SugaredLogger: l.SugaredLogger.Named(component)}
}

func (l *SugaredLogger) DebugwCtx(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.Debugw(msg, withContext(ctx, keysAndValues)...)
}

func (l *SugaredLogger) InfowCtx(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.Infow(msg, withContext(ctx, keysAndValues)...)
}

func (l *SugaredLogger) WarnwCtx(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.Warnw(msg, withContext(ctx, keysAndValues)...)
}

func (l *SugaredLogger) ErrorwCtx(ctx context.Context, msg string, keysAndValues ...interface{}) {
	l.Errorw(msg, withContext(ctx, keysAndValues)...)
}

// withContext puts the request and message IDs ahead of the caller's fields.
func withContext(ctx context.Context, keysAndValues []interface{}) []interface{} {
	return append(logging.GetLogFields(ctx), keysAndValues...)
}

func NopLogger() Logger {
	return FromCore(zapcore.NewNopCore())
}
