package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	validPresets = []string{
		"ultrafast", "superfast", "veryfast", "faster", "fast",
		"medium", "slow", "slower", "veryslow",
	}
	validLogLevels  = []string{"trace", "debug", "info", "warn", "error"}
	validLogFormats = []string{"console", "json"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Progress.RetentionMinutes < 0 {
		return errors.New("progress.retention_minutes must be zero or positive")
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateFetch() error {
	if c.Fetch.SocketTimeout <= 0 {
		return errors.New("fetch.socket_timeout must be positive")
	}
	if c.Fetch.Retries < 0 {
		return errors.New("fetch.retries must be zero or positive")
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 51 {
		return fmt.Errorf("encoder.crf must be between 0 and 51, got %d", c.Encoder.CRF)
	}
	if !slices.Contains(validPresets, c.Encoder.Preset) {
		return fmt.Errorf("encoder.preset %q is not an x264 preset", c.Encoder.Preset)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of %v", validLogLevels)
	}
	if !slices.Contains(validLogFormats, c.Logging.Format) {
		return fmt.Errorf("logging.format must be one of %v", validLogFormats)
	}
	return nil
}
