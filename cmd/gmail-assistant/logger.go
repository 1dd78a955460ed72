package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/hal9000y/gmail-assistant/internal/config"
)

// newLogger writes to the log file when one is set. Without a file it
// writes to stdout, except in stdio mode where stdout carries MCP traffic
// and logs are dropped.
func newLogger(cfg config.Config, stdout io.Writer) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("zerolog.ParseLevel failed: %w", err)
	}

	out := stdout
	closeFn := func() {}

	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
		}
		out = f
		closeFn = func() {
			if err := f.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "f.Close failed: %v\n", err)
			}
		}
	case cfg.Stdio:
		return zerolog.Nop(), closeFn, nil
	}

	if !cfg.LogJSON {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: cfg.LogFile != ""}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), closeFn, nil
}
