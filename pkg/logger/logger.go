package logger

import (
	"sync"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log *zap.Logger

	// level is shared by every core InitializeWithFallback builds, so the
	// --log-level flag can adjust it after startup.
	level = zap.NewAtomicLevel()
)

// SetLevel changes the minimum level of the process logger.
func SetLevel(l zapcore.Level) {
	level.SetLevel(l)
}

// SetLogger installs l as the process logger and mirrors it into the zap and
// otelzap globals, so otelzap.Ctx(ctx) in library code reaches the same sink.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
	zap.ReplaceGlobals(l)
	otelzap.ReplaceGlobals(otelzap.New(l))
}

// L returns the process logger, or nil before initialization.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// GetLogger returns the global logger instance, initializing it on first use.
func GetLogger() *zap.Logger {
	if l := L(); l != nil {
		return l
	}
	InitializeWithFallback()
	return L()
}

// Sync flushes any buffered log entries. Should be called before the application exits.
func Sync() error {
	l := L()
	if l == nil {
		return nil
	}
	return l.Sync()
}
