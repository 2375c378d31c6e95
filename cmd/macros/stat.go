// ABOUTME: CLI commands for body stats.
// ABOUTME: Records, lists, and deletes weight and body fat measurements.
package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/harperreed/macros/internal/models"
	"github.com/spf13/cobra"
)

var (
	statDate    string
	statBodyFat float64
)

var statCmd = &cobra.Command{
	Use:     "stat",
	Aliases: []string{"stats"},
	Short:   "Manage body stats",
}

var statAddCmd = &cobra.Command{
	Use:   "add <weight-kg>",
	Short: "Record a weight measurement",
	Long: `Record a weight measurement, optionally with body fat percentage.

Examples:
  macros stat add 82.5
  macros stat add 82.1 --bf 17.8 --date 2024-03-01`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weight, err := strconv.ParseFloat(args[0], 64)
		if err != nil || weight <= 0 {
			return fmt.Errorf("invalid weight: %s", args[0])
		}
		date, err := resolveDate(statDate)
		if err != nil {
			return err
		}

		stat := models.NewBodyStatEntry(date, weight, statBodyFat)
		if err := db.AddBodyStat(cmd.Context(), stat); err != nil {
			return fmt.Errorf("failed to add body stat: %w", err)
		}

		color.Green("✓ Recorded %.1f kg", stat.WeightKg)
		fmt.Printf("  %s %s\n", faintID(stat.ID), stat.Date)
		return nil
	},
}

var statListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List body stats, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := db.ReadBodyStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list body stats: %w", err)
		}
		if len(stats) == 0 {
			fmt.Println("No body stats found.")
			return nil
		}

		for _, st := range stats {
			bf := ""
			if st.BodyFatPct > 0 {
				bf = fmt.Sprintf("  %.1f%%", st.BodyFatPct)
			}
			fmt.Printf("%s %s %6.1f kg%s\n", faintID(st.ID), st.Date, st.WeightKg, bf)
		}
		return nil
	},
}

var statDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a body stat",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		st, err := db.GetBodyStat(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("body stat not found: %s", args[0])
		}
		if err := db.DeleteBodyStat(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete body stat: %w", err)
		}

		color.Yellow("✗ Deleted %.1f kg from %s", st.WeightKg, st.Date)
		return nil
	},
}

func init() {
	statAddCmd.Flags().StringVar(&statDate, "date", "", dateFlagUsage)
	statAddCmd.Flags().Float64Var(&statBodyFat, "bf", 0, "body fat percentage")

	statCmd.AddCommand(statAddCmd)
	statCmd.AddCommand(statListCmd)
	statCmd.AddCommand(statDeleteCmd)
	rootCmd.AddCommand(statCmd)
}
