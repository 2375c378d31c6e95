// ABOUTME: UserProfile singleton model.
// ABOUTME: Body metrics, preferences, and the daily macro targets computed upstream.
package models

import "time"

// ProfileUID addresses the single profile, locally and remotely.
const ProfileUID = "profile"

// Activity levels accepted for a profile.
const (
	ActivitySedentary        = "Sedentary"
	ActivityLightlyActive    = "Lightly Active"
	ActivityModeratelyActive = "Moderately Active"
	ActivityVeryActive       = "Very Active"
)

// ActivityLevels lists the accepted activity levels in display order.
var ActivityLevels = []string{
	ActivitySedentary,
	ActivityLightlyActive,
	ActivityModeratelyActive,
	ActivityVeryActive,
}

// UserProfile is replaced wholesale on every update. The targets are
// computed by the caller; this layer only stores them.
type UserProfile struct {
	UID            string    `json:"uid" yaml:"uid"`
	HeightCm       float64   `json:"height_cm" yaml:"height_cm"`
	WeightKg       float64   `json:"weight_kg" yaml:"weight_kg"`
	BodyFatPct     float64   `json:"bf_percent" yaml:"bf_percent"`
	ActivityLevel  string    `json:"activity_level" yaml:"activity_level"`
	Goal           string    `json:"goal" yaml:"goal"`
	DietPreference string    `json:"diet_preference" yaml:"diet_preference"`
	TargetCalories float64   `json:"target_calories" yaml:"target_calories"`
	TargetProtein  float64   `json:"target_protein" yaml:"target_protein"`
	TargetCarbs    float64   `json:"target_carbs" yaml:"target_carbs"`
	TargetFats     float64   `json:"target_fats" yaml:"target_fats"`
	UpdatedAt      time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsValidActivityLevel reports whether s is one of ActivityLevels.
func IsValidActivityLevel(s string) bool {
	for _, lvl := range ActivityLevels {
		if lvl == s {
			return true
		}
	}
	return false
}
