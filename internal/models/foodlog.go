// ABOUTME: FoodLogEntry model for logged meals.
// ABOUTME: Carries macro and micronutrient fields plus the client-generated uid.
package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar-day format used for entry dates.
const DateLayout = "2006-01-02"

// FoodLogEntry is one logged meal. All nutrient fields default to zero.
type FoodLogEntry struct {
	ID             int64     `json:"-" yaml:"-"`
	UID            string    `json:"uid" yaml:"uid"`
	Date           string    `json:"date" yaml:"date"`
	Name           string    `json:"food_name" yaml:"food_name"`
	Source         string    `json:"amount_desc" yaml:"amount_desc"`
	Calories       float64   `json:"calories" yaml:"calories"`
	Protein        float64   `json:"protein" yaml:"protein"`
	Carbs          float64   `json:"carbs" yaml:"carbs"`
	Fats           float64   `json:"fats" yaml:"fats"`
	Fiber          float64   `json:"fiber" yaml:"fiber"`
	Sugar          float64   `json:"sugar" yaml:"sugar"`
	Sodium         float64   `json:"sodium" yaml:"sodium"`
	Micronutrients string    `json:"micronutrients" yaml:"micronutrients"`
	Notes          string    `json:"notes" yaml:"notes"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// NewFoodLogEntry creates an entry for the given day with a fresh uid.
func NewFoodLogEntry(date, name string) *FoodLogEntry {
	return &FoodLogEntry{
		UID:       uuid.NewString(),
		Date:      date,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
}

// Today returns the current local calendar day in DateLayout.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ParseDate validates a calendar day string and returns it normalized.
func ParseDate(s string) (string, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t.Format(DateLayout), nil
}
