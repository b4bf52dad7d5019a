// utils/logger.go
package utils

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// InitLogger builds the process logger. "production" gets the JSON encoder,
// anything else the development console encoder.
func InitLogger(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if env == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
	return l, nil
}

// Log returns the process logger, or a no-op logger before InitLogger ran.
func Log() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
