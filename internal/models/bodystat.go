// ABOUTME: BodyStatEntry model for weigh-ins.
// ABOUTME: Append-only record of weight and body-fat percentage per day.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BodyStatEntry is a single weigh-in.
type BodyStatEntry struct {
	ID         int64     `json:"-" yaml:"-"`
	UID        string    `json:"uid" yaml:"uid"`
	Date       string    `json:"date" yaml:"date"`
	WeightKg   float64   `json:"weight" yaml:"weight"`
	BodyFatPct float64   `json:"bf_percent" yaml:"bf_percent"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
}

// NewBodyStatEntry creates a weigh-in with a fresh uid.
func NewBodyStatEntry(date string, weightKg, bodyFatPct float64) *BodyStatEntry {
	return &BodyStatEntry{
		UID:        uuid.NewString(),
		Date:       date,
		WeightKg:   weightKg,
		BodyFatPct: bodyFatPct,
		CreatedAt:  time.Now().UTC(),
	}
}
