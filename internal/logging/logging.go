// Package logging builds the root hclog logger from configuration.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/ytget/clipshr/internal/config"
)

// AppName is the root logger name
const AppName = "clipshr"

// New creates the root logger writing to stderr
func New(cfg config.Logging) hclog.Logger {
	return NewWithOutput(cfg, os.Stderr)
}

// NewWithOutput creates the root logger writing to w
func NewWithOutput(cfg config.Logging, w io.Writer) hclog.Logger {
	level := hclog.LevelFromString(cfg.Level)
	if level == hclog.NoLevel {
		level = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       AppName,
		Level:      level,
		Output:     w,
		JSONFormat: cfg.Format == "json",
		Color:      hclog.ColorOff,
	})
}
