// Package logger builds the zap logger shared by every gurtdns component.
//
// The logger is constructed exactly once by the bootstrap and handed to the
// components that need it; nothing in this package holds global state.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger filtered at level.
// Set development=true for console-friendly output, false for JSON.
func New(level Level, development bool) (*zap.Logger, error) {
	zapLevel, enabled := level.zapLevel()
	if !enabled {
		return zap.NewNop(), nil
	}

	var config zap.Config
	if development {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = withTrace(zapcore.CapitalColorLevelEncoder, "\x1b[35mTRACE\x1b[0m")
		config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "timestamp"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.EncoderConfig.EncodeLevel = withTrace(zapcore.LowercaseLevelEncoder, "trace")
	}

	config.Level = zap.NewAtomicLevelAt(zapLevel)

	return config.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// withTrace names ZapTraceLevel, which the stock encoders render as "Level(-2)".
func withTrace(base zapcore.LevelEncoder, name string) zapcore.LevelEncoder {
	return func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if l == ZapTraceLevel {
			enc.AppendString(name)
			return
		}
		base(l, enc)
	}
}

// Trace logs msg at trace level. The entry's caller is the caller of Trace.
func Trace(log *zap.Logger, msg string, fields ...zap.Field) {
	if ce := log.WithOptions(zap.AddCallerSkip(1)).Check(ZapTraceLevel, msg); ce != nil {
		ce.Write(fields...)
	}
}

// IsDevelopment returns true if running in a terminal (interactive mode)
// or if GURTDNS_LOG_FORMAT=console is set (useful for systemd)
func IsDevelopment() bool {
	switch os.Getenv("GURTDNS_LOG_FORMAT") {
	case "console":
		return true
	case "json":
		return false
	}
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
