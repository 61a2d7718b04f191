// Package config resolves the shell's settings from defaults, an optional
// TOML file in the data directory and PHODIT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

const (
	AppName  = "phodit"
	FileName = "phodit.toml"

	DefaultWindowWidth  = 1000
	DefaultWindowHeight = 800
)

type Config struct {
	DataDir      string  `toml:"data_dir"`
	LogLevel     string  `toml:"log_level"`
	JSONLogs     bool    `toml:"json_logs"`
	Watch        bool    `toml:"watch"`
	GitBinary    string  `toml:"git_binary"`
	WindowWidth  float32 `toml:"window_width"`
	WindowHeight float32 `toml:"window_height"`
}

func Default() Config {
	return Config{
		DataDir:      defaultDataDir(),
		LogLevel:     "info",
		Watch:        true,
		GitBinary:    "git",
		WindowWidth:  DefaultWindowWidth,
		WindowHeight: DefaultWindowHeight,
	}
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, AppName, "storage")
}

// Load builds the configuration for a run. getenv is os.Getenv outside tests.
func Load(getenv func(string) string) (Config, error) {
	cfg := Default()
	if dir := getenv("PHODIT_DATA_DIR"); dir != "" {
		cfg.DataDir = dir
	}

	if err := cfg.LoadFile(filepath.Join(cfg.DataDir, FileName)); err != nil {
		return cfg, err
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFile overlays values from a TOML file. A missing file is not an error.
func (c *Config) LoadFile(path string) error {
	_, err := toml.DecodeFile(path, c)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return nil
}

func (c *Config) ApplyEnv(getenv func(string) string) error {
	if dir := getenv("PHODIT_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}

	if level := getenv("PHODIT_LOG_LEVEL"); level != "" {
		c.LogLevel = level
	} else if getenv("DEBUG") == "1" {
		c.LogLevel = "debug"
	}

	if v := getenv("PHODIT_JSON_LOGS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PHODIT_JSON_LOGS %q: %w", v, err)
		}
		c.JSONLogs = b
	}

	if v := getenv("PHODIT_WATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid PHODIT_WATCH %q: %w", v, err)
		}
		c.Watch = b
	}

	if git := getenv("PHODIT_GIT"); git != "" {
		c.GitBinary = git
	}
	return nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory must not be empty")
	}
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("invalid default window size %.0fx%.0f", c.WindowWidth, c.WindowHeight)
	}
	return nil
}
