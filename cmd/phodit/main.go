package main

import (
	"fmt"
	"os"
	"path/filepath"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"phodit/internal/app"
	"phodit/internal/config"
	"phodit/internal/logger"
)

type rootFlags struct {
	logLevel string
	dataDir  string
	jsonLogs bool
	noWatch  bool
}

var flags rootFlags

var rootCmd = &cobra.Command{
	Use:   "phodit [path]",
	Short: "Markdown editor",
	Long: `phodit opens a markdown file or a directory of notes in an editor window.

Without a path the last opened file or directory is restored.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runEditor,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", config.AppName, app.AppVersion)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&flags.dataDir, "data-dir", "", "directory holding preferences and phodit.toml")
	rootCmd.Flags().BoolVar(&flags.jsonLogs, "json-logs", false, "write logs as JSON")
	rootCmd.Flags().BoolVar(&flags.noWatch, "no-watch", false, "do not watch opened directories")

	rootCmd.AddCommand(versionCmd)
}

// loadConfig layers command-line flags over the file and environment.
func loadConfig(cmd *cobra.Command, getenv func(string) string) (config.Config, error) {
	env := getenv
	if flags.dataDir != "" {
		env = func(key string) string {
			if key == "PHODIT_DATA_DIR" {
				return flags.dataDir
			}
			return getenv(key)
		}
	}

	cfg, err := config.Load(env)
	if err != nil {
		return cfg, fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if cmd.Flags().Changed("json-logs") {
		cfg.JSONLogs = flags.jsonLogs
	}
	if cmd.Flags().Changed("no-watch") {
		cfg.Watch = !flags.noWatch
	}
	return cfg, cfg.Validate()
}

// resolvePaths turns command-line arguments into absolute paths.
func resolvePaths(args []string) ([]string, error) {
	paths := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", arg, err)
		}
		paths = append(paths, abs)
	}
	return paths, nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return err
	}

	paths, err := resolvePaths(args)
	if err != nil {
		return err
	}

	log := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.JSONLogs)
	log.Info("Main", "logger configured", map[string]interface{}{
		"level": log.Level().String(),
		"json":  cfg.JSONLogs,
		"paths": len(paths),
	})

	application, err := app.NewApplication(fyneapp.NewWithID(app.AppID), cfg, log, paths)
	if err != nil {
		return fmt.Errorf("application initialization failed: %w", err)
	}
	return application.Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
