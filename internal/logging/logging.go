// Package logging builds the zap logger shared by the server and CLI commands.
package logging

import (
	"go.uber.org/zap"
)

// New returns a sugared zap logger. Debug mode switches to the
// development config with human-readable output and debug level.
func New(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return zapLogger.Sugar(), nil
}

// Nop returns a logger that discards everything. Used in tests and
// wherever a component requires a logger but output is unwanted.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
