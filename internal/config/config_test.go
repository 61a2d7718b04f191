package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(envMap(map[string]string{"PHODIT_DATA_DIR": dir}))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Watch)
	assert.Equal(t, "git", cfg.GitBinary)
	assert.Equal(t, float32(DefaultWindowWidth), cfg.WindowWidth)
	assert.Equal(t, float32(DefaultWindowHeight), cfg.WindowHeight)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	content := "log_level = \"warn\"\nwatch = false\nwindow_width = 1400\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644))

	cfg, err := Load(envMap(map[string]string{
		"PHODIT_DATA_DIR":  dir,
		"PHODIT_JSON_LOGS": "true",
	}))
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Watch)
	assert.True(t, cfg.JSONLogs)
	assert.Equal(t, float32(1400), cfg.WindowWidth)

	cfg, err = Load(envMap(map[string]string{
		"PHODIT_DATA_DIR":  dir,
		"PHODIT_LOG_LEVEL": "error",
		"PHODIT_WATCH":     "1",
	}))
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.True(t, cfg.Watch)
}

func TestDebugEnvRaisesLevel(t *testing.T) {
	cfg, err := Load(envMap(map[string]string{"PHODIT_DATA_DIR": t.TempDir(), "DEBUG": "1"}))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestInvalidValues(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(envMap(map[string]string{"PHODIT_DATA_DIR": dir, "PHODIT_WATCH": "sometimes"}))
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("log_level = ["), 0644))
	_, err = Load(envMap(map[string]string{"PHODIT_DATA_DIR": dir}))
	assert.Error(t, err)

	cfg := Default()
	cfg.WindowWidth = 0
	assert.Error(t, cfg.Validate())
}
