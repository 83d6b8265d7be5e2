// Package logging builds the logrus logger used by the p2gan CLI.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = logrus.WarnLevel

// Options configures New.
type Options struct {
	// Level is a logrus level name such as "info"; empty means DefaultLevel.
	Level string

	// File sends output to a rotating log file instead of Stderr.
	File string

	// Stderr receives output when File is empty. Nil means os.Stderr.
	Stderr io.Writer
}

// New returns a logger configured by opts. The returned closer releases the
// log file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := DefaultLevel
	if name := strings.TrimSpace(opts.Level); name != "" {
		parsed, err := logrus.ParseLevel(name)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetLevel(level)

	if opts.File == "" {
		out := opts.Stderr
		if out == nil {
			out = os.Stderr
		}
		logger.SetOutput(out)
		logger.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
			DisableColors:    true,
		})
		return logger, nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	logger.SetOutput(file)
	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Discard returns a logger that drops every entry.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
