package logging

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

var (
	levelMu      sync.RWMutex
	currentLevel LogLevel
	levelSet     bool
)

// parseLevel maps a LOG_LEVEL string to a LogLevel, defaulting to info.
func parseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// GetLevel returns the current log level, initializing it from the
// environment on first use. DEBUG=1/true takes precedence over LOG_LEVEL.
func GetLevel() LogLevel {
	levelMu.RLock()
	if levelSet {
		defer levelMu.RUnlock()
		return currentLevel
	}
	levelMu.RUnlock()

	levelMu.Lock()
	defer levelMu.Unlock()
	if !levelSet {
		switch strings.ToLower(os.Getenv("DEBUG")) {
		case "1", "true", "yes", "on":
			currentLevel = LevelDebug
		default:
			currentLevel = parseLevel(os.Getenv("LOG_LEVEL"))
		}
		levelSet = true
	}
	return currentLevel
}

// SetLevel overrides the log level. Intended for tests.
func SetLevel(level LogLevel) {
	levelMu.Lock()
	defer levelMu.Unlock()
	currentLevel = level
	levelSet = true
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	if GetLevel() <= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	if GetLevel() <= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	if GetLevel() <= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	if GetLevel() <= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	log.Fatalf("[FATAL] "+format, args...)
}

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
