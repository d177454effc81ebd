package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// thin wrapper around zap's sugared logger
type Logger struct {
	*zap.SugaredLogger
}

// creates a console logger; verbose enables debug level
func NewLogger(verbose bool) *Logger {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		// fall back to a no-op logger rather than failing startup
		return &Logger{zap.NewNop().Sugar()}
	}

	return &Logger{logger.Sugar()}
}

func (l *Logger) Sync() {
	_ = l.SugaredLogger.Sync()
}
