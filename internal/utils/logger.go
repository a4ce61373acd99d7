package utils

import (
	"log"
	"os"
	"strings"
)

// Log levels, in increasing order of severity.
const (
	LevelDebug = iota
	LevelInfo
	LevelError
)

// Logger is a simple leveled logger for the application
type Logger struct {
	level    int
	debugLog *log.Logger
	infoLog  *log.Logger
	errorLog *log.Logger
}

// NewLogger creates a new logger. Messages below the given level are dropped.
// Recognized levels are "debug", "info" and "error"; anything else means info.
func NewLogger(level string) *Logger {
	return &Logger{
		level:    parseLevel(level),
		debugLog: log.New(os.Stdout, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
		infoLog:  log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile),
		errorLog: log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	if l.level <= LevelDebug {
		l.debugLog.Printf(format, v...)
	}
}

// Info logs an informational message
func (l *Logger) Info(format string, v ...interface{}) {
	if l.level <= LevelInfo {
		l.infoLog.Printf(format, v...)
	}
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.errorLog.Printf(format, v...)
}
