package logger

import (
	"log"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// InitializeLogger builds the global logger. ENV=production selects the JSON
// production encoder, anything else the development console encoder.
func InitializeLogger() {
	var (
		l   *zap.Logger
		err error
	)
	if os.Getenv("ENV") == "production" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	SetLogger(l)
}

// SetLogger replaces the global logger, mostly for tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Close flushes buffered entries.
func Close() {
	if err := L().Sync(); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to flush log entries: %v", err)
	}
}

func Info(msg string, fields ...zapcore.Field) {
	L().Info(msg, fields...)
}

func Warn(msg string, fields ...zapcore.Field) {
	L().Warn(msg, fields...)
}

func Error(msg string, fields ...zapcore.Field) {
	L().Error(msg, fields...)
}

func Debug(msg string, fields ...zapcore.Field) {
	L().Debug(msg, fields...)
}

func Fatal(msg string, fields ...zapcore.Field) {
	L().Fatal(msg, fields...)
}
