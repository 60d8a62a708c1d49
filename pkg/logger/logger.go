// Package logger constructs the shared zap logger used across all ember
// subsystems. Every component receives a *zap.SugaredLogger through its
// Config so that log output stays structured and consistently keyed.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a production-configured sugared logger tagged with the
// service name. If the logger cannot be constructed (for example when
// the output path is unwritable) a no-op logger is returned so callers
// never need to branch on logging availability.
func New(service string) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	log, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return log.Sugar().With("service", service)
}
