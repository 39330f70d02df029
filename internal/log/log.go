// Package log configures the process-wide logrus logger.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pfwatch/pfwatch/internal/config"
)

// Init initializes the global logger based on configuration. Logs go to
// stderr; a rotated file output is added when configured.
func Init(cfg config.LogConfig) error {
	level, err := logrus.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	writers := []io.Writer{os.Stderr}
	if cfg.File.Path != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
			Compress:   cfg.File.Compress,
		})
	}

	var formatter logrus.Formatter
	switch strings.ToLower(cfg.Format) {
	case "json":
		formatter = &logrus.JSONFormatter{}
	case "text":
		formatter = &logrus.TextFormatter{FullTimestamp: true}
	default:
		return fmt.Errorf("unsupported log format: %s (must be json or text)", cfg.Format)
	}

	logger := logrus.StandardLogger()
	logger.SetLevel(level)
	logger.SetFormatter(formatter)
	logger.SetOutput(io.MultiWriter(writers...))
	return nil
}

// L returns the configured global logger.
func L() *logrus.Logger {
	return logrus.StandardLogger()
}
