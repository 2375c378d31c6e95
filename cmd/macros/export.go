// ABOUTME: CLI commands for exporting and importing macros data.
// ABOUTME: Supports JSON, YAML, and Markdown export formats.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/macros/internal/models"
	"github.com/harperreed/macros/internal/storage"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportSince  string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export macros data",
	Long: `Export macros data in various formats.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable, also importable)
  markdown   Daily food log tables with totals

OPTIONS:

  --output, -o   Write to file instead of stdout
  --since        Only include days on or after this date (markdown only)

EXAMPLES:

  macros export json                        # Export all data as JSON
  macros export json -o backup.json         # Save to file
  macros export yaml                        # Export as YAML
  macros export markdown --since 2024-01-01 # Food log from 2024 onward`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml", "markdown"},
	RunE: func(cmd *cobra.Command, args []string) error {
		format := args[0]

		var data []byte
		var err error

		switch format {
		case "json":
			data, err = db.ExportJSON(cmd.Context())
		case "yaml":
			data, err = db.ExportYAML(cmd.Context())
		case "markdown", "md":
			since := ""
			if exportSince != "" {
				if since, err = models.ParseDate(exportSince); err != nil {
					return fmt.Errorf("invalid date format: %s (use YYYY-MM-DD)", exportSince)
				}
			}
			var md string
			md, err = db.ExportMarkdown(cmd.Context(), since)
			data = []byte(md)
		default:
			return fmt.Errorf("unknown format: %s (use json, yaml, or markdown)", format)
		}

		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}

		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import macros data from a JSON or YAML export",
	Long: `Import macros data from a previously exported JSON or YAML file.

Imported records keep their uids and are queued for sync. Records whose
uid already exists locally are skipped, so importing the same file twice
is harmless. The profile in the file replaces the current one.

The format is taken from the file extension unless --format is given.

EXAMPLES:

  macros import backup.json
  macros import backup.yml
  macros import dump.txt --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		format := importFormat
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
		}

		var summary *storage.ImportSummary
		switch format {
		case "json":
			summary, err = db.ImportJSON(cmd.Context(), data)
		case "yaml", "yml":
			summary, err = db.ImportYAML(cmd.Context(), data)
		default:
			return fmt.Errorf("unknown import format %q (use --format json or yaml)", format)
		}
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		color.Green("✓ Imported from %s", filename)
		if summary.Profile {
			fmt.Println("  Profile:    1")
		}
		fmt.Printf("  Food logs:  %d\n", summary.FoodLogs)
		fmt.Printf("  Body stats: %d\n", summary.BodyStats)
		fmt.Printf("  Templates:  %d\n", summary.Templates)
		if summary.Skipped > 0 {
			fmt.Printf("  %s\n", color.New(color.Faint).Sprintf("Skipped %d existing records", summary.Skipped))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	exportCmd.Flags().StringVar(&exportSince, "since", "", "only include data since date (YYYY-MM-DD)")

	importCmd.Flags().StringVar(&importFormat, "format", "", "input format: json or yaml (default: from extension)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
