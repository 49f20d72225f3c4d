// Package logging builds the slog logger used across the tool, rendered by
// charmbracelet/log and optionally written to a rotating file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level string
	// File, when set, receives the log instead of Stderr.
	File   string
	Stderr io.Writer
}

// New returns a logger and a func releasing its file, if any.
func New(opts Options) (*slog.Logger, func() error, error) {
	level := log.WarnLevel
	if opts.Level != "" {
		var err error
		if level, err = log.ParseLevel(opts.Level); err != nil {
			return nil, nil, fmt.Errorf("parsing log level: %w", err)
		}
	}

	var w io.Writer = os.Stderr
	if opts.Stderr != nil {
		w = opts.Stderr
	}
	formatter := log.TextFormatter
	closeFn := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = rotating
		formatter = log.LogfmtFormatter
		closeFn = rotating.Close
	}

	handler := log.NewWithOptions(w, log.Options{
		ReportTimestamp: opts.File != "",
		ReportCaller:    level == log.DebugLevel,
		Level:           level,
		Prefix:          "xerkit",
		Formatter:       formatter,
	})
	return slog.New(handler), closeFn, nil
}
