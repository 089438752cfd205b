// Package logging provides the leveled logger shared by the monitor,
// notifier, and CLI. Logs go to a file when one is configured, otherwise
// to stdout.
package logging

import (
	"io"
	"log"
	"os"
)

// Logger provides leveled logging
type Logger struct {
	logger   *log.Logger
	logLevel string
	file     *os.File
}

// New creates a new logger. An empty logFile logs to stdout.
func New(logFile, logLevel string) (*Logger, error) {
	var file *os.File
	var err error

	if logFile != "" {
		file, err = os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
	}

	var logger *log.Logger
	if file != nil {
		logger = log.New(file, "", log.LstdFlags)
	} else {
		logger = log.New(os.Stdout, "", log.LstdFlags)
	}

	return &Logger{
		logger:   logger,
		logLevel: logLevel,
		file:     file,
	}, nil
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Printf("[INFO] "+format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Printf("[ERROR] "+format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logger.Printf("[WARN] "+format, args...)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logLevel == "debug" {
		l.logger.Printf("[DEBUG] "+format, args...)
	}
}

// Close closes the logger
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
