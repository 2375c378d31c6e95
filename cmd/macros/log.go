// ABOUTME: CLI commands for the food log.
// ABOUTME: Adds, lists, deletes, and clears food entries for a day.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/macros/internal/models"
	"github.com/harperreed/macros/internal/storage"
	"github.com/spf13/cobra"
)

var (
	logDate     string
	logAmount   string
	logCalories float64
	logProtein  float64
	logCarbs    float64
	logFats     float64
	logFiber    float64
	logSugar    float64
	logSodium   float64
	logMicros   string
	logNotes    string
	logClearYes bool
)

const dateFlagUsage = "day as YYYY-MM-DD or a phrase like \"yesterday\" (default: today)"

var logCmd = &cobra.Command{
	Use:     "log",
	Aliases: []string{"l"},
	Short:   "Manage food log entries",
}

var logAddCmd = &cobra.Command{
	Use:     "add <food>",
	Aliases: []string{"a"},
	Short:   "Log a food entry",
	Long: `Log a food entry for a day (today by default).

Examples:
  macros log add "oatmeal" --cal 150 --protein 5 --carbs 27 --fats 3
  macros log add "chicken breast" --amount "200g" --cal 330 --protein 62
  macros log add "banana" --date 2024-03-01 --cal 105`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(logDate)
		if err != nil {
			return err
		}

		e := models.NewFoodLogEntry(date, strings.Join(args, " "))
		e.Source = logAmount
		e.Calories = logCalories
		e.Protein = logProtein
		e.Carbs = logCarbs
		e.Fats = logFats
		e.Fiber = logFiber
		e.Sugar = logSugar
		e.Sodium = logSodium
		e.Micronutrients = logMicros
		e.Notes = logNotes

		if err := db.AddLog(cmd.Context(), e); err != nil {
			return fmt.Errorf("failed to add log: %w", err)
		}

		color.Green("✓ Logged %s", e.Name)
		fmt.Printf("  %s %s %.0f kcal  P %.0fg  C %.0fg  F %.0fg\n",
			faintID(e.ID), e.Date, e.Calories, e.Protein, e.Carbs, e.Fats)
		return nil
	},
}

var logListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List a day's entries with totals",
	Long: `List the food entries of a day (today by default).

OUTPUT FORMAT:

  Each line shows: ID  FOOD  KCAL  PROTEIN  CARBS  FATS

  A totals line follows, compared against your profile targets when set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(logDate)
		if err != nil {
			return err
		}

		entries, err := db.ReadLogs(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("failed to list logs: %w", err)
		}

		if len(entries) == 0 {
			fmt.Printf("No entries for %s.\n", date)
			return nil
		}

		faint := color.New(color.Faint)
		fmt.Println(color.New(color.Bold).Sprint(date))
		var cal, protein, carbs, fats float64
		for _, e := range entries {
			notes := ""
			if e.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(e.Notes, 30))
			}
			fmt.Printf("%s %s %6.0f %5.0fg %5.0fg %5.0fg%s\n",
				faintID(e.ID), padRight(truncate(e.Name, 24), 24),
				e.Calories, e.Protein, e.Carbs, e.Fats, notes)
			cal += e.Calories
			protein += e.Protein
			carbs += e.Carbs
			fats += e.Fats
		}
		fmt.Printf("%s %s %6.0f %5.0fg %5.0fg %5.0fg\n",
			padRight("", 6), padRight("Total", 24), cal, protein, carbs, fats)

		profile, err := db.ReadProfile(cmd.Context())
		switch {
		case err == nil:
			fmt.Printf("%s %s %6.0f %5.0fg %5.0fg %5.0fg\n",
				padRight("", 6), faint.Sprint(padRight("Target", 24)),
				profile.TargetCalories, profile.TargetProtein, profile.TargetCarbs, profile.TargetFats)
		case !errors.Is(err, storage.ErrNotFound):
			return fmt.Errorf("failed to read profile: %w", err)
		}
		return nil
	},
}

var logDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a food entry",
	Long: `Delete a food entry by the ID shown in 'macros log list'.

The deletion is queued for sync like any other change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		e, err := db.GetLog(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("entry not found: %s", args[0])
		}
		if err := db.DeleteLog(cmd.Context(), id); err != nil {
			return fmt.Errorf("failed to delete log: %w", err)
		}

		color.Yellow("✗ Deleted %s", e.Name)
		fmt.Printf("  %s %s %.0f kcal\n", faintID(e.ID), e.Date, e.Calories)
		return nil
	},
}

var logClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every entry of a day",
	Long: `Delete every food entry of a day (today by default).

Each removed entry is queued as its own deletion for sync.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := resolveDate(logDate)
		if err != nil {
			return err
		}

		if !logClearYes && !confirm(fmt.Sprintf("Delete all entries for %s? [y/N]: ", date)) {
			fmt.Println("Canceled.")
			return nil
		}

		n, err := db.DeleteLogsForDate(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("failed to clear day: %w", err)
		}
		color.Yellow("✗ Deleted %d entries from %s", n, date)
		return nil
	},
}

// resolveDate defaults an empty date to today and accepts casual phrases.
func resolveDate(date string) (string, error) {
	return models.ResolveDate(date, time.Now())
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

func faintID(id int64) string {
	return color.New(color.Faint).Sprint(padRight(strconv.FormatInt(id, 10), 6))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

func init() {
	logAddCmd.Flags().StringVar(&logDate, "date", "", dateFlagUsage)
	logAddCmd.Flags().StringVar(&logAmount, "amount", "", "free-text amount, e.g. \"1 cup\"")
	logAddCmd.Flags().Float64Var(&logCalories, "cal", 0, "calories (kcal)")
	logAddCmd.Flags().Float64Var(&logProtein, "protein", 0, "protein (g)")
	logAddCmd.Flags().Float64Var(&logCarbs, "carbs", 0, "carbohydrates (g)")
	logAddCmd.Flags().Float64Var(&logFats, "fats", 0, "fat (g)")
	logAddCmd.Flags().Float64Var(&logFiber, "fiber", 0, "fiber (g)")
	logAddCmd.Flags().Float64Var(&logSugar, "sugar", 0, "sugar (g)")
	logAddCmd.Flags().Float64Var(&logSodium, "sodium", 0, "sodium (mg)")
	logAddCmd.Flags().StringVar(&logMicros, "micros", "", "free-text micronutrient notes")
	logAddCmd.Flags().StringVar(&logNotes, "notes", "", "notes for the entry")

	logListCmd.Flags().StringVar(&logDate, "date", "", dateFlagUsage)

	logClearCmd.Flags().StringVar(&logDate, "date", "", dateFlagUsage)
	logClearCmd.Flags().BoolVarP(&logClearYes, "yes", "y", false, "skip confirmation prompt")

	logCmd.AddCommand(logAddCmd)
	logCmd.AddCommand(logListCmd)
	logCmd.AddCommand(logDeleteCmd)
	logCmd.AddCommand(logClearCmd)
	rootCmd.AddCommand(logCmd)
}
