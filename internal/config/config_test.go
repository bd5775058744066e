package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/clipshr/internal/config"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(dir)
	for _, key := range []string{
		config.EnvBind, config.EnvPort, config.EnvMediaDir, config.EnvHistoryFile,
		config.EnvFFmpegPath, config.EnvLogLevel, config.EnvLogFormat,
	} {
		t.Setenv(key, "")
	}
	return dir
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := isolate(t)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NotEmpty(t, resolved)

	assert.Equal(t, "127.0.0.1:5000", cfg.Addr())
	assert.Equal(t, filepath.Join(dir, "media"), cfg.Paths.MediaDir)
	assert.Equal(t, filepath.Join(dir, "db.json"), cfg.Paths.HistoryFile)
	assert.Equal(t, 30*time.Second, cfg.SocketTimeout())
	assert.Equal(t, 3, cfg.Fetch.Retries)
	assert.Equal(t, "mp4", cfg.Fetch.MergeFormat)
	assert.Equal(t, "mp3", cfg.Fetch.AudioFormat)
	assert.Equal(t, "192", cfg.Fetch.AudioQuality)
	assert.Equal(t, 23, cfg.Encoder.CRF)
	assert.Equal(t, "medium", cfg.Encoder.Preset)
	assert.Equal(t, "192k", cfg.Encoder.AudioBitrate)
	assert.Equal(t, time.Hour, cfg.Retention())
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadProjectFile(t *testing.T) {
	dir := isolate(t)
	content := `
[server]
port = 8080

[paths]
media_dir = "downloads"

[encoder]
crf = 28
preset = " Fast "

[logging]
format = "JSON"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clipshr.toml"), []byte(content), 0o644))

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(dir, "clipshr.toml"), resolved)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "downloads"), cfg.Paths.MediaDir)
	assert.Equal(t, 28, cfg.Encoder.CRF)
	assert.Equal(t, "fast", cfg.Encoder.Preset)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "mp4", cfg.Fetch.MergeFormat, "unset keys keep defaults")
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := isolate(t)
	t.Setenv(config.EnvPort, "6001")
	t.Setenv(config.EnvMediaDir, "clips")
	t.Setenv(config.EnvLogLevel, "DEBUG")

	cfg, _, _, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 6001, cfg.Server.Port)
	assert.Equal(t, filepath.Join(dir, "clips"), cfg.Paths.MediaDir)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsBadPort(t *testing.T) {
	isolate(t)
	t.Setenv(config.EnvPort, "http")

	_, _, _, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvPort)
}

func TestLoadExplicitMissingPath(t *testing.T) {
	dir := isolate(t)

	_, resolved, exists, err := config.Load(filepath.Join(dir, "nope.toml"))
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, filepath.Join(dir, "nope.toml"), resolved)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		errMsg string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"port out of range", func(c *config.Config) { c.Server.Port = 70000 }, "server.port"},
		{"crf out of range", func(c *config.Config) { c.Encoder.CRF = 60 }, "encoder.crf"},
		{"unknown preset", func(c *config.Config) { c.Encoder.Preset = "turbo" }, "encoder.preset"},
		{"zero socket timeout", func(c *config.Config) { c.Fetch.SocketTimeout = 0 }, "fetch.socket_timeout"},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative retention", func(c *config.Config) { c.Progress.RetentionMinutes = -1 }, "progress.retention_minutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSampleParsesBackToDefaults(t *testing.T) {
	sample, err := config.Sample()
	require.NoError(t, err)
	assert.True(t, strings.Contains(sample, "[encoder]"))

	var cfg config.Config
	require.NoError(t, toml.Unmarshal([]byte(sample), &cfg))
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, config.LoadDotEnv(), "missing .env is ignored")

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CLIPSHR_TEST_DOTENV=yes\n"), 0o644))
	t.Setenv("CLIPSHR_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("CLIPSHR_TEST_DOTENV"))

	require.NoError(t, config.LoadDotEnv())
	assert.Equal(t, "yes", os.Getenv("CLIPSHR_TEST_DOTENV"))
}
