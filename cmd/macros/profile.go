// ABOUTME: CLI commands for the user profile and macro targets.
// ABOUTME: set merges changed flags into the current profile and stores it whole.
package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/macros/internal/models"
	"github.com/harperreed/macros/internal/storage"
	"github.com/spf13/cobra"
)

var profileFlags struct {
	height, weight, bodyFat                           float64
	activity, goal, diet                              string
	targetCal, targetProtein, targetCarbs, targetFats float64
}

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"p"},
	Short:   "Manage your profile and macro targets",
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Long: `Update profile fields. Only the flags you pass change; the rest keep
their current values.

ACTIVITY LEVELS:

  Sedentary, Lightly Active, Moderately Active, Very Active

EXAMPLES:

  macros profile set --height 180 --weight 82 --activity "Lightly Active"
  macros profile set --target-cal 2200 --target-protein 160`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.ReadProfile(cmd.Context())
		if errors.Is(err, storage.ErrNotFound) {
			p = &models.UserProfile{}
		} else if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}

		flags := cmd.Flags()
		if flags.Changed("activity") {
			if !models.IsValidActivityLevel(profileFlags.activity) {
				return fmt.Errorf("unknown activity level: %s\nValid levels: %s",
					profileFlags.activity, strings.Join(models.ActivityLevels, ", "))
			}
			p.ActivityLevel = profileFlags.activity
		}
		if flags.Changed("height") {
			p.HeightCm = profileFlags.height
		}
		if flags.Changed("weight") {
			p.WeightKg = profileFlags.weight
		}
		if flags.Changed("bf") {
			p.BodyFatPct = profileFlags.bodyFat
		}
		if flags.Changed("goal") {
			p.Goal = profileFlags.goal
		}
		if flags.Changed("diet") {
			p.DietPreference = profileFlags.diet
		}
		if flags.Changed("target-cal") {
			p.TargetCalories = profileFlags.targetCal
		}
		if flags.Changed("target-protein") {
			p.TargetProtein = profileFlags.targetProtein
		}
		if flags.Changed("target-carbs") {
			p.TargetCarbs = profileFlags.targetCarbs
		}
		if flags.Changed("target-fats") {
			p.TargetFats = profileFlags.targetFats
		}

		if err := db.UpdateProfile(cmd.Context(), p); err != nil {
			return fmt.Errorf("failed to update profile: %w", err)
		}

		color.Green("✓ Profile updated")
		printProfile(p)
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := db.ReadProfile(cmd.Context())
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Println("No profile set. Run 'macros profile set' to create one.")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read profile: %w", err)
		}
		printProfile(p)
		return nil
	},
}

func printProfile(p *models.UserProfile) {
	faint := color.New(color.Faint)
	fmt.Printf("  Height:   %.1f cm\n", p.HeightCm)
	fmt.Printf("  Weight:   %.1f kg\n", p.WeightKg)
	if p.BodyFatPct > 0 {
		fmt.Printf("  Body fat: %.1f%%\n", p.BodyFatPct)
	}
	if p.ActivityLevel != "" {
		fmt.Printf("  Activity: %s\n", p.ActivityLevel)
	}
	if p.Goal != "" {
		fmt.Printf("  Goal:     %s\n", p.Goal)
	}
	if p.DietPreference != "" {
		fmt.Printf("  Diet:     %s\n", p.DietPreference)
	}
	fmt.Printf("  Targets:  %.0f kcal  P %.0fg  C %.0fg  F %.0fg\n",
		p.TargetCalories, p.TargetProtein, p.TargetCarbs, p.TargetFats)
	fmt.Printf("  %s\n", faint.Sprintf("updated %s", p.UpdatedAt.Local().Format("2006-01-02 15:04")))
}

func init() {
	f := profileSetCmd.Flags()
	f.Float64Var(&profileFlags.height, "height", 0, "height (cm)")
	f.Float64Var(&profileFlags.weight, "weight", 0, "weight (kg)")
	f.Float64Var(&profileFlags.bodyFat, "bf", 0, "body fat percentage")
	f.StringVar(&profileFlags.activity, "activity", "", "activity level")
	f.StringVar(&profileFlags.goal, "goal", "", "goal, e.g. \"lose fat\"")
	f.StringVar(&profileFlags.diet, "diet", "", "diet preference")
	f.Float64Var(&profileFlags.targetCal, "target-cal", 0, "daily calorie target")
	f.Float64Var(&profileFlags.targetProtein, "target-protein", 0, "daily protein target (g)")
	f.Float64Var(&profileFlags.targetCarbs, "target-carbs", 0, "daily carb target (g)")
	f.Float64Var(&profileFlags.targetFats, "target-fats", 0, "daily fat target (g)")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}
