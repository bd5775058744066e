package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Server contains the HTTP listener configuration.
type Server struct {
	Bind string `toml:"bind"`
	Port int    `toml:"port"`
}

// Paths contains the media directory and the history file location.
type Paths struct {
	MediaDir    string `toml:"media_dir"`
	HistoryFile string `toml:"history_file"`
}

// Fetch contains yt-dlp settings.
type Fetch struct {
	SocketTimeout int    `toml:"socket_timeout"` // seconds
	Retries       int    `toml:"retries"`
	MergeFormat   string `toml:"merge_format"`
	AudioFormat   string `toml:"audio_format"`
	AudioQuality  string `toml:"audio_quality"`
	InstallYTDLP  bool   `toml:"install_ytdlp"`
}

// Encoder contains ffmpeg settings for the compress stage.
type Encoder struct {
	FFmpegPath   string `toml:"ffmpeg_path"`
	CRF          int    `toml:"crf"`
	Preset       string `toml:"preset"`
	AudioBitrate string `toml:"audio_bitrate"`
}

// Progress controls how long finished job records stay pollable.
type Progress struct {
	RetentionMinutes int `toml:"retention_minutes"`
}

// Logging contains configuration for log output.
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Config encapsulates all configuration values for clipshr.
type Config struct {
	Server   Server   `toml:"server"`
	Paths    Paths    `toml:"paths"`
	Fetch    Fetch    `toml:"fetch"`
	Encoder  Encoder  `toml:"encoder"`
	Progress Progress `toml:"progress"`
	Logging  Logging  `toml:"logging"`
}

// Environment overrides
const (
	EnvBind        = "CLIPSHR_BIND"
	EnvPort        = "CLIPSHR_PORT"
	EnvMediaDir    = "CLIPSHR_MEDIA_DIR"
	EnvHistoryFile = "CLIPSHR_HISTORY_FILE"
	EnvFFmpegPath  = "CLIPSHR_FFMPEG_PATH"
	EnvLogLevel    = "CLIPSHR_LOG_LEVEL"
	EnvLogFormat   = "CLIPSHR_LOG_FORMAT"
)

const (
	projectConfigName = "clipshr.toml"
	userConfigPath    = "~/.config/clipshr/config.toml"
	dotEnvFile        = ".env"
)

// DefaultConfigPath returns the absolute path to the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath(userConfigPath)
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error: defaults and environment overrides still apply. It returns the
// config, the resolved path and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// LoadDotEnv reads KEY=VALUE pairs from .env in the working directory into the
// process environment. Variables that are already set win. A missing file is ignored.
func LoadDotEnv() error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}
	return nil
}

// Sample renders the default configuration as TOML.
func Sample() (string, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(Default()); err != nil {
		return "", fmt.Errorf("encode sample config: %w", err)
	}
	return buf.String(), nil
}

// Addr returns the preferred listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Bind, strconv.Itoa(c.Server.Port))
}

// SocketTimeout returns the fetch socket timeout.
func (c *Config) SocketTimeout() time.Duration {
	return time.Duration(c.Fetch.SocketTimeout) * time.Second
}

// Retention returns how long finished progress records are kept.
func (c *Config) Retention() time.Duration {
	return time.Duration(c.Progress.RetentionMinutes) * time.Minute
}

// EnsureDirectories creates the media directory and the history file's parent.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.MediaDir, filepath.Dir(c.Paths.HistoryFile)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
