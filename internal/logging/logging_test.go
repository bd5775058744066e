package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/clipshr/internal/config"
)

func TestNewWithOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.Logging{Level: "info", Format: "json"}, &buf)

	logger.Named("jobs").Info("job finished", "job_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "job finished", entry["@message"])
	assert.Equal(t, "clipshr.jobs", entry["@module"])
	assert.Equal(t, "abc", entry["job_id"])
}

func TestNewWithOutput_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.Logging{Level: "warn", Format: "console"}, &buf)

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWithOutput_UnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(config.Logging{Level: "chatty"}, &buf)

	assert.True(t, logger.IsInfo())
	assert.False(t, logger.IsDebug())
}
