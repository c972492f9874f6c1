package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process-wide sugared logger. LOG_LEVEL=debug turns on debug
// output; anything else logs at info.
func New() *zap.SugaredLogger {
	cfg := zap.NewProductionConfig()
	if os.Getenv("LOG_LEVEL") == "debug" {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, _ := cfg.Build()
	return l.Sugar()
}
