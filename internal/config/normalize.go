package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) applyEnv() error {
	if value, ok := lookupEnv(EnvBind); ok {
		c.Server.Bind = value
	}
	if value, ok := lookupEnv(EnvPort); ok {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: invalid port %q", EnvPort, value)
		}
		c.Server.Port = port
	}
	if value, ok := lookupEnv(EnvMediaDir); ok {
		c.Paths.MediaDir = value
	}
	if value, ok := lookupEnv(EnvHistoryFile); ok {
		c.Paths.HistoryFile = value
	}
	if value, ok := lookupEnv(EnvFFmpegPath); ok {
		c.Encoder.FFmpegPath = value
	}
	if value, ok := lookupEnv(EnvLogLevel); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupEnv(EnvLogFormat); ok {
		c.Logging.Format = value
	}
	return nil
}

func lookupEnv(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizeEncoder()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.MediaDir) == "" {
		c.Paths.MediaDir = defaultMediaDir
	}
	if strings.TrimSpace(c.Paths.HistoryFile) == "" {
		c.Paths.HistoryFile = defaultHistoryFile
	}

	var err error
	if c.Paths.MediaDir, err = expandPath(c.Paths.MediaDir); err != nil {
		return fmt.Errorf("paths.media_dir: %w", err)
	}
	if c.Paths.HistoryFile, err = expandPath(c.Paths.HistoryFile); err != nil {
		return fmt.Errorf("paths.history_file: %w", err)
	}
	return nil
}

func (c *Config) normalizeFetch() {
	c.Fetch.MergeFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Fetch.MergeFormat), "."))
	if c.Fetch.MergeFormat == "" {
		c.Fetch.MergeFormat = defaultMergeFormat
	}
	c.Fetch.AudioFormat = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.Fetch.AudioFormat), "."))
	if c.Fetch.AudioFormat == "" {
		c.Fetch.AudioFormat = defaultAudioFormat
	}
	if strings.TrimSpace(c.Fetch.AudioQuality) == "" {
		c.Fetch.AudioQuality = defaultAudioQuality
	}
}

func (c *Config) normalizeEncoder() {
	c.Encoder.FFmpegPath = strings.TrimSpace(c.Encoder.FFmpegPath)
	if c.Encoder.FFmpegPath == "" {
		c.Encoder.FFmpegPath = defaultFFmpegPath
	}
	c.Encoder.Preset = strings.ToLower(strings.TrimSpace(c.Encoder.Preset))
	if c.Encoder.Preset == "" {
		c.Encoder.Preset = defaultPreset
	}
	if strings.TrimSpace(c.Encoder.AudioBitrate) == "" {
		c.Encoder.AudioBitrate = defaultAudioBitrate
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
}
