package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2/log"
)

// Logger writes leveled, printf-style entries to stdout and, when configured, to a file.
type Logger struct {
	file *os.File
}

// New configures the process-wide log output. An empty filePath logs to stdout only.
func New(filePath, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	l := &Logger{}
	var out io.Writer = os.Stdout

	if filePath != "" {
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return nil, fmt.Errorf("could not create log directory: %w", err)
		}
		f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("could not open log file: %w", err)
		}
		l.file = f
		out = io.MultiWriter(os.Stdout, f)
	}

	log.SetOutput(out)
	log.SetLevel(lvl)
	return l, nil
}

// ParseLevel maps a config level name to a fiber log level.
func ParseLevel(level string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.LevelDebug, nil
	case "", "info":
		return log.LevelInfo, nil
	case "warn", "warning":
		return log.LevelWarn, nil
	case "error":
		return log.LevelError, nil
	default:
		return log.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func (l *Logger) Debug(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// Fatal logs and exits the process.
func (l *Logger) Fatal(format string, args ...interface{}) {
	log.Fatalf(format, args...)
}

func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
