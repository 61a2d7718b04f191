package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phodit/internal/settings"
)

func TestResolvePaths(t *testing.T) {
	paths, err := resolvePaths([]string{"notes.md"})
	require.NoError(t, err)
	require.Len(t, paths, 1)
	assert.True(t, filepath.IsAbs(paths[0]))
	assert.Equal(t, "notes.md", filepath.Base(paths[0]))

	paths, err = resolvePaths(nil)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestLoadConfigFlagsOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	env := map[string]string{"PHODIT_LOG_LEVEL": "warn"}
	getenv := func(key string) string { return env[key] }

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "")
	cmd.Flags().StringVar(&flags.dataDir, "data-dir", "", "")
	cmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "")
	t.Cleanup(func() { flags = rootFlags{} })

	require.NoError(t, cmd.Flags().Parse([]string{"--data-dir", dir, "--no-watch"}))

	cfg, err := loadConfig(cmd, getenv)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.False(t, cfg.Watch)

	require.NoError(t, cmd.Flags().Parse([]string{"--log-level", "debug"}))
	cfg, err = loadConfig(cmd, getenv)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestPrintAndClearPrefs(t *testing.T) {
	color.NoColor = true

	store, err := settings.NewFileStore(t.TempDir())
	require.NoError(t, err)

	saved := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	require.NoError(t, store.Set(settings.KeyLastFile, settings.Record{File: "/notes/todo.md", SavedAt: saved}))

	var out bytes.Buffer
	require.NoError(t, printPrefs(&out, store))
	assert.Contains(t, out.String(), "/notes/todo.md")
	assert.Contains(t, out.String(), "2024-03-01 09:30")
	assert.Contains(t, out.String(), "(none)")

	require.NoError(t, clearPrefs(store))
	_, err = store.Get(settings.KeyLastFile)
	assert.ErrorIs(t, err, settings.ErrNotFound)

	out.Reset()
	require.NoError(t, printPrefs(&out, store))
	assert.NotContains(t, out.String(), "todo.md")
}
