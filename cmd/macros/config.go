// ABOUTME: CLI command for app configuration.
// ABOUTME: Shows or changes where the local database lives.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/macros/internal/config"
	"github.com/spf13/cobra"
)

var configDataDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change app settings",
	Long: `Show app settings, or change the data directory with --data-dir.
Settings are stored in ~/.config/macros/config.json.

EXAMPLES:

  macros config
  macros config --data-dir ~/Dropbox/macros`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir = configDataDir
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			color.Green("✓ Config saved to %s", config.GetConfigPath())
		}

		fmt.Printf("  Config:   %s\n", config.GetConfigPath())
		fmt.Printf("  Data dir: %s\n", cfg.GetDataDir())
		fmt.Printf("  Database: %s\n", cfg.DBPath())
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configDataDir, "data-dir", "", "directory for the local database")
	rootCmd.AddCommand(configCmd)
}
