package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger represents a logger instance
type Logger = *logrus.Logger

// Fields represents structured logging fields
type Fields = logrus.Fields

const DefaultLevel = logrus.WarnLevel

type Options struct {
	// Level is a logrus level name; empty means DefaultLevel.
	Level string
	JSON  bool
}

// New creates a logger writing to w. Credentials must never be passed as
// field values.
func New(w io.Writer, opts Options) (*logrus.Logger, error) {
	level := DefaultLevel
	if raw := strings.TrimSpace(opts.Level); raw != "" {
		parsed, err := logrus.ParseLevel(raw)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}

	return logger, nil
}
