package util

import (
	"context"
	"sync"
)

var (
	globalLogger LoggerInterface
	loggerOnce   sync.Once
)

// InitLogger initializes the global logger instance with debug mode support
func InitLogger(logLevel, logFile string, debugToConsole bool, format LogFormat) error {
	var err error
	loggerOnce.Do(func() {
		var logger *Logger
		if logger, err = NewLogger(logLevel, logFile, debugToConsole, format); err == nil {
			globalLogger = logger
		}
	})
	return err
}

// LoggerFromContext returns the global logger carrying the query id of ctx.
// Before InitLogger it returns a logger that discards everything.
func LoggerFromContext(ctx context.Context) LoggerInterface {
	if globalLogger == nil {
		return nopLogger{}
	}
	return globalLogger.WithContext(ctx)
}

// LogInfo convenience functions for logging
func LogInfo(msg string) {
	if globalLogger != nil {
		globalLogger.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infof(format, args...)
	}
}

func LogDebug(msg string) {
	if globalLogger != nil {
		globalLogger.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debugf(format, args...)
	}
}

func LogWarn(msg string) {
	if globalLogger != nil {
		globalLogger.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if globalLogger != nil {
		globalLogger.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)                        {}
func (nopLogger) Debugf(string, ...interface{})                 {}
func (nopLogger) Info(string, ...Field)                         {}
func (nopLogger) Infof(string, ...interface{})                  {}
func (nopLogger) Warn(string, ...Field)                         {}
func (nopLogger) Warnf(string, ...interface{})                  {}
func (nopLogger) Error(string, ...Field)                        {}
func (nopLogger) Errorf(string, ...interface{})                 {}
func (n nopLogger) WithContext(context.Context) LoggerInterface { return n }
