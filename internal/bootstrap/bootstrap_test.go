package bootstrap

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/cdma-ap/cmsnr-directory/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{App: config.AppConfig{Env: "production", LogLevel: "warn"}}
	logger := NewLogger(&buf, cfg)

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, AppName, line["app"])
	assert.Equal(t, "production", line["env"])
}

func TestOpenStores_UnknownDriver(t *testing.T) {
	_, err := OpenStores(&config.Config{Database: config.DatabaseConfig{Driver: "sqlite"}})
	assert.Error(t, err)
}
