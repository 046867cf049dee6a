package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileMissingUsesDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 450*time.Millisecond, cfg.LongPress())
	assert.Equal(t, time.Local, cfg.Location())
}

func TestLoadFileNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
theme: " Dusk "
start_hour: -2
long_press_ms: 0
fine_hold_ms: 600
history_depth: -1
timezone: UTC
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dusk", cfg.Theme)
	assert.Equal(t, 22, cfg.StartHour)
	assert.Equal(t, 450, cfg.LongPressMS)
	assert.Equal(t, 600*time.Millisecond, cfg.FineHold())
	assert.Equal(t, 100, cfg.HistoryDepth)
	assert.Equal(t, "UTC", cfg.Location().String())
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("start_hour: 4\n"), 0o644))
	t.Setenv("DAYLINE_START_HOUR", "30")
	t.Setenv("DAYLINE_LOG_LEVEL", "DEBUG")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.StartHour)
	assert.Equal(t, "debug", cfg.LogLevel)
}
