package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger interface using uber-go/zap
type ZapLogger struct {
	logger *zap.Logger
	fields []Field
}

// ZapOption defines a function that can configure a zap logger
type ZapOption func(*zapOptions)

type zapOptions struct {
	development bool
	level       *zapcore.Level
	outputPaths []string
}

func defaultZapOptions() *zapOptions {
	return &zapOptions{
		outputPaths: []string{"stdout"},
	}
}

// WithDevelopmentMode enables development mode with more verbose,
// human-readable output.
func WithDevelopmentMode() ZapOption {
	return func(opts *zapOptions) {
		opts.development = true
	}
}

// WithDebugLevel sets the log level to debug
func WithDebugLevel() ZapOption {
	return func(opts *zapOptions) {
		level := zapcore.DebugLevel
		opts.level = &level
	}
}

// WithLogLevel sets a specific log level
func WithLogLevel(level Level) ZapOption {
	return func(opts *zapOptions) {
		var zapLevel zapcore.Level
		switch level {
		case DEBUG:
			zapLevel = zapcore.DebugLevel
		case WARN:
			zapLevel = zapcore.WarnLevel
		case ERROR:
			zapLevel = zapcore.ErrorLevel
		default:
			zapLevel = zapcore.InfoLevel
		}
		opts.level = &zapLevel
	}
}

// WithOutputPaths sets output paths for the logger
func WithOutputPaths(paths ...string) ZapOption {
	return func(opts *zapOptions) {
		opts.outputPaths = paths
	}
}

// NewZapLogger creates a new Logger implementation backed by zap.
//
// Example:
//
//	logger := logging.NewZapLogger(
//		logging.WithDebugLevel(),
//		logging.WithDevelopmentMode(),
//	)
//	logger.Info("client ready", logging.String("env", "testnet"))
func NewZapLogger(options ...ZapOption) Logger {
	opts := defaultZapOptions()
	for _, opt := range options {
		opt(opts)
	}

	config := zap.NewProductionConfig()
	if opts.development {
		config = zap.NewDevelopmentConfig()
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = opts.outputPaths
	if opts.level != nil {
		config.Level = zap.NewAtomicLevelAt(*opts.level)
	}

	logger, err := config.Build(
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
	if err != nil {
		return NewNopLogger()
	}

	return &ZapLogger{logger: logger}
}

// Debug implements Logger interface
func (l *ZapLogger) Debug(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.DebugLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// Info implements Logger interface
func (l *ZapLogger) Info(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.InfoLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// Warn implements Logger interface
func (l *ZapLogger) Warn(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.WarnLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// Error implements Logger interface
func (l *ZapLogger) Error(msg string, fields ...Field) {
	if ce := l.logger.Check(zapcore.ErrorLevel, msg); ce != nil {
		ce.Write(l.convertFields(fields...)...)
	}
}

// WithFields implements Logger interface
func (l *ZapLogger) WithFields(fields ...Field) Logger {
	newLogger := *l
	newLogger.fields = make([]Field, len(l.fields)+len(fields))
	copy(newLogger.fields, l.fields)
	copy(newLogger.fields[len(l.fields):], fields)
	return &newLogger
}

// GetZapLogger returns the underlying zap.Logger
func (l *ZapLogger) GetZapLogger() *zap.Logger {
	return l.logger
}

// Close flushes any buffered log entries
func (l *ZapLogger) Close() error {
	return l.logger.Sync()
}

func (l *ZapLogger) convertFields(fields ...Field) []zap.Field {
	allFields := make([]Field, 0, len(l.fields)+len(fields))
	allFields = append(allFields, l.fields...)
	allFields = append(allFields, fields...)

	zapFields := make([]zap.Field, 0, len(allFields))
	for _, f := range allFields {
		zapFields = append(zapFields, zap.Any(f.Key, f.Value))
	}
	return zapFields
}
