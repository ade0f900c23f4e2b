package util

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[LogLevel]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// Field is one structured key-value pair attached to an entry.
type Field struct {
	Key   string
	Value interface{}
}

// LogFormat selects how entries are rendered.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Output represents a log output destination
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LoggerInterface is what the analysis pipeline logs through.
type LoggerInterface interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(format string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(format string, args ...interface{})
	WithContext(ctx context.Context) LoggerInterface
}

// Logger writes leveled entries to every attached output. Loggers derived
// with WithContext share the outputs of their parent.
type Logger struct {
	level   LogLevel
	outputs *outputSet
	fields  []Field
}

type outputSet struct {
	mu   sync.RWMutex
	list []Output
}

// NewLogger builds a logger writing to logFile, and to stderr as well when
// debugToConsole is set. At least one of the two is required.
func NewLogger(levelStr string, logFile string, debugToConsole bool, format LogFormat) (*Logger, error) {
	if format != FormatJSON {
		format = FormatText
	}

	logger := &Logger{
		level:   parseLogLevel(levelStr),
		outputs: &outputSet{},
	}

	if debugToConsole {
		logger.AddOutput(NewConsoleOutput(os.Stderr, format))
	}

	if logFile != "" {
		fileOutput, err := NewFileOutput(logFile, format)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		logger.AddOutput(fileOutput)
	} else if !debugToConsole {
		return nil, fmt.Errorf("log file must be specified when not in debug mode")
	}

	return logger, nil
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	if l.level > level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     levelNames[level],
		Message:   msg,
	}
	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]interface{}, n)
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	l.outputs.mu.RLock()
	defer l.outputs.mu.RUnlock()
	for _, output := range l.outputs.list {
		if err := output.Write(entry); err != nil {
			log.Printf("Failed to write log entry: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

type contextKey string

const queryIDKey contextKey = "query_id"

// ContextWithQueryID tags ctx with the id of the query being served.
func ContextWithQueryID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, queryIDKey, id)
}

// QueryIDFromContext returns the query id stored by ContextWithQueryID.
func QueryIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(queryIDKey).(string)
	return id, ok && id != ""
}

// WithContext returns a logger that tags every entry with the query id of ctx.
func (l *Logger) WithContext(ctx context.Context) LoggerInterface {
	id, ok := QueryIDFromContext(ctx)
	if !ok {
		return l
	}

	fields := make([]Field, 0, len(l.fields)+1)
	fields = append(fields, l.fields...)
	fields = append(fields, Field{Key: string(queryIDKey), Value: id})
	return &Logger{level: l.level, outputs: l.outputs, fields: fields}
}

// AddOutput adds a new output destination
func (l *Logger) AddOutput(output Output) {
	l.outputs.mu.Lock()
	defer l.outputs.mu.Unlock()
	l.outputs.list = append(l.outputs.list, output)
}
