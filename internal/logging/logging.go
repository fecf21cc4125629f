// Package logging builds the session logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultFile is the log file used while the terminal UI owns the screen.
const DefaultFile = "vocoder-debug.log"

// Options selects where and how much to log.
type Options struct {
	// File receives log output when non-empty. Otherwise Output is used.
	File string
	// Output is the fallback writer, os.Stderr when nil.
	Output io.Writer
	// Level is a logrus level name; empty means "info".
	Level string
	// JSON switches from text to JSON lines.
	JSON bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a configured logger and a closer for its output file. The
// closer is a no-op when logging to Output.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level := logrus.InfoLevel

	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("logging: %w", err)
		}

		level = parsed
	}

	log := logrus.New()
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			DisableColors:   opts.File != "",
			TimestampFormat: "15:04:05.000",
		})
	}

	if opts.File == "" {
		out := opts.Output
		if out == nil {
			out = os.Stderr
		}

		log.SetOutput(out)

		return log, nopCloser{}, nil
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("logging: open %s: %w", opts.File, err)
	}

	log.SetOutput(f)

	return log, f, nil
}
