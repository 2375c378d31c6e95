// ABOUTME: CLI commands for meal templates.
// ABOUTME: Saves a logged entry as a template and logs templates again later.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/macros/internal/models"
	"github.com/spf13/cobra"
)

var templateDate string

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"t", "tmpl"},
	Short:   "Manage meal templates",
}

var templateSaveCmd = &cobra.Command{
	Use:   "save <log-id> <name>",
	Short: "Save a logged entry as a template",
	Long: `Snapshot the nutrients of a logged entry under a name.

Example:
  macros template save 12 breakfast`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		e, err := db.GetLog(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("entry not found: %s", args[0])
		}

		tmpl, err := models.NewTemplateFromLog(args[1], e)
		if err != nil {
			return err
		}
		if err := db.SaveTemplate(cmd.Context(), tmpl); err != nil {
			return fmt.Errorf("failed to save template: %w", err)
		}

		color.Green("✓ Saved template %s", tmpl.Name)
		fmt.Printf("  %s %.0f kcal  P %.0fg\n", faintID(tmpl.ID), tmpl.Calories, tmpl.Protein)
		return nil
	},
}

var templateListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List meal templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		templates, err := db.ReadTemplates(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		if len(templates) == 0 {
			fmt.Println("No templates found.")
			return nil
		}

		for _, t := range templates {
			fmt.Printf("%s %s %6.0f kcal %5.0fg protein\n",
				faintID(t.ID), padRight(truncate(t.Name, 24), 24), t.Calories, t.Protein)
		}
		return nil
	},
}

var templateUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Log a meal from a template",
	Long: `Log a new food entry from the newest template with the given name.

Examples:
  macros template use breakfast
  macros template use breakfast --date 2024-03-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(templateDate)
		if err != nil {
			return err
		}

		tmpl, err := db.FindTemplate(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		e, err := tmpl.NewLogEntry(date)
		if err != nil {
			return err
		}
		if err := db.AddLog(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to add log: %w", err)
		}

		color.Green("✓ Logged %s from template %s", e.Name, tmpl.Name)
		fmt.Printf("  %s %s %.0f kcal\n", faintID(e.ID), e.Date, e.Calories)
		return nil
	},
}

var templateDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a meal template",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		tmpl, err := db.GetTemplate(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("template not found: %s", args[0])
		}
		if err := db.DeleteTemplate(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete template: %w", err)
		}

		color.Yellow("✗ Deleted template %s", tmpl.Name)
		return nil
	},
}

func init() {
	templateUseCmd.Flags().StringVar(&templateDate, "date", "", dateFlagUsage)

	templateCmd.AddCommand(templateSaveCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateUseCmd)
	templateCmd.AddCommand(templateDeleteCmd)
	rootCmd.AddCommand(templateCmd)
}
