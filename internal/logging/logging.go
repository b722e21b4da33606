// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json, logfmt
	File   string // optional rotating log file, in addition to stderr
	Prefix string
}

// New returns a logger writing to stderr and, when opts.File is set, to a
// rotating file.
func New(opts Options) *log.Logger {
	var w io.Writer = os.Stderr
	if opts.File != "" {
		w = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}
	return NewWithWriter(w, opts)
}

func NewWithWriter(w io.Writer, opts Options) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          opts.Prefix,
	})

	switch strings.ToLower(opts.Format) {
	case "json":
		l.SetFormatter(log.JSONFormatter)
	case "logfmt":
		l.SetFormatter(log.LogfmtFormatter)
	default:
		l.SetFormatter(log.TextFormatter)
	}

	lvl, err := log.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		lvl = log.InfoLevel
	}
	l.SetLevel(lvl)
	return l
}

// Discard is a logger for tests and optional collaborators.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}
