// Copyright 2025 The go-rtps Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtps

import (
	"io"
	"log"
	"os"
)

// LogLevel represents different logging levels.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelError:
		return "ERROR"
	case LogLevelWarn:
		return "WARN"
	case LogLevelInfo:
		return "INFO"
	case LogLevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// Logger provides leveled logging against a named channel, matching
// spec.md §6's "log channel: RTPS_PARTICIPANT" convention. There is
// one Logger per subsystem channel (RTPS_PARTICIPANT, RTPS_REGISTRY,
// RTPS_LOCATOR_BINDER, RTPS_LISTENER, RTPS_SEND, RTPS_DISCOVERY).
type Logger struct {
	logger  *log.Logger
	level   LogLevel
	channel string
}

// NewLogger creates a Logger for the given channel name at level.
func NewLogger(channel string, level LogLevel) *Logger {
	return NewLoggerWithWriter(os.Stderr, channel, level)
}

// NewLoggerWithWriter creates a Logger writing to w.
func NewLoggerWithWriter(w io.Writer, channel string, level LogLevel) *Logger {
	return &Logger{
		logger:  log.New(w, channel+": ", log.LstdFlags),
		level:   level,
		channel: channel,
	}
}

// SetLevel sets the minimum logging level.
func (l *Logger) SetLevel(level LogLevel) { l.level = level }

// IsEnabled checks if a log level is enabled.
func (l *Logger) IsEnabled(level LogLevel) bool { return level <= l.level }

// Error logs at error level.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.IsEnabled(LogLevelError) {
		l.logger.Printf("[ERROR] "+format, args...)
	}
}

// Warn logs at warning level.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.IsEnabled(LogLevelWarn) {
		l.logger.Printf("[WARN] "+format, args...)
	}
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.IsEnabled(LogLevelInfo) {
		l.logger.Printf("[INFO] "+format, args...)
	}
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.IsEnabled(LogLevelDebug) {
		l.logger.Printf("[DEBUG] "+format, args...)
	}
}

// DevNullLogger discards all output; useful in tests that want a
// non-nil Logger without log noise.
var DevNullLogger = NewLoggerWithWriter(io.Discard, "RTPS_NULL", LogLevelError)
