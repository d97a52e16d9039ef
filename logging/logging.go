package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// TraceLevel indicates a log message's level of criticality
	TraceLevel = iota
	// DebugLevel indicates a log message's level of criticality
	DebugLevel
	// InfoLevel indicates a log message's level of criticality
	InfoLevel
	// WarnLevel indicates a log message's level of criticality
	WarnLevel
	// ErrorLevel indicates a log message's level of criticality
	ErrorLevel
	// FatalLevel indicates a log message's level of criticality
	FatalLevel
)

// LogLevelToString translates a log level enum to a string representation
func LogLevelToString(level int) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "TRACE"
	}
}

func toLogrusLevel(level int) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.TraceLevel
	}
}

// Config describes where and how much to log
type Config struct {
	Level      int    `toml:"level"`
	Verbose    bool   `toml:"verbose"`     // emit Print messages
	File       string `toml:"file"`        // rotate logs into this file instead of stderr
	MaxSizeMB  int    `toml:"max_size_mb"` // size at which File is rotated
	MaxBackups int    `toml:"max_backups"`
	JSON       bool   `toml:"json"`
}

var (
	mu      sync.RWMutex
	logger  = defaultLogger()
	verbose = false
)

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	return l
}

func ensureDefaultConfigValues(conf *Config) {
	if len(conf.File) > 0 && conf.MaxSizeMB == 0 {
		conf.MaxSizeMB = 100
	}
	if conf.Level == TraceLevel && !conf.Verbose {
		conf.Level = InfoLevel
	}
}

// Configure replaces the process logger
func Configure(conf Config) {
	ensureDefaultConfigValues(&conf)
	l := logrus.New()
	var out io.Writer = os.Stderr
	if len(conf.File) > 0 {
		out = &lumberjack.Logger{
			Filename:   conf.File,
			MaxSize:    conf.MaxSizeMB,
			MaxBackups: conf.MaxBackups,
		}
	}
	l.SetOutput(out)
	l.SetLevel(toLogrusLevel(conf.Level))
	if conf.JSON {
		l.SetFormatter(&logrus.JSONFormatter{})
	}
	mu.Lock()
	defer mu.Unlock()
	logger = l
	verbose = conf.Verbose
}

// SetVerbose toggles whether Print messages are emitted
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// Logger returns the process logger
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// UseLogger replaces the process logger, useful for capturing output in tests
func UseLogger(l *logrus.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Print emits an informational message when verbose output is on. It never panics.
func Print(format string, args ...interface{}) {
	mu.RLock()
	l, v := logger, verbose
	mu.RUnlock()
	if !v {
		return
	}
	defer func() {
		recover()
	}()
	l.Info(fmt.Sprintf(format, args...))
}

// Warn emits a warning regardless of verbosity. It never panics.
func Warn(format string, args ...interface{}) {
	defer func() {
		recover()
	}()
	Logger().Warn(fmt.Sprintf(format, args...))
}

// Error emits an error message regardless of verbosity. It never panics.
func Error(err error, format string, args ...interface{}) {
	defer func() {
		recover()
	}()
	Logger().WithError(err).Error(fmt.Sprintf(format, args...))
}
