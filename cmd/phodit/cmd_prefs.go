package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"phodit/internal/settings"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show the remembered file and directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		return printPrefs(cmd.OutOrStdout(), store)
	},
}

var prefsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget the remembered file and directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd)
		if err != nil {
			return err
		}
		if err := clearPrefs(store); err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "Preferences cleared")
		return nil
	},
}

func init() {
	prefsCmd.AddCommand(prefsClearCmd)
	rootCmd.AddCommand(prefsCmd)
}

func openStore(cmd *cobra.Command) (*settings.FileStore, error) {
	cfg, err := loadConfig(cmd, os.Getenv)
	if err != nil {
		return nil, err
	}
	return settings.NewFileStore(cfg.DataDir)
}

var rememberedKeys = []struct {
	label string
	key   string
}{
	{"Last file", settings.KeyLastFile},
	{"Last directory", settings.KeyLastPath},
}

func printPrefs(w io.Writer, store settings.Store) error {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	for _, entry := range rememberedKeys {
		record, err := store.Get(entry.key)
		switch {
		case errors.Is(err, settings.ErrNotFound):
			bold.Fprintf(w, "%-15s", entry.label)
			faint.Fprintln(w, "(none)")
			continue
		case err != nil:
			return fmt.Errorf("failed to read %s: %w", entry.key, err)
		}

		bold.Fprintf(w, "%-15s", entry.label)
		fmt.Fprint(w, record.File)
		if !record.SavedAt.IsZero() {
			faint.Fprintf(w, "  (%s)", record.SavedAt.Format("2006-01-02 15:04"))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func clearPrefs(store settings.Store) error {
	for _, entry := range rememberedKeys {
		if err := store.Remove(entry.key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", entry.key, err)
		}
	}
	return nil
}
