// ABOUTME: MealTemplate model for reusable meals.
// ABOUTME: Stores an opaque nutrient snapshot plus denormalized calories and protein.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MealTemplate is a named snapshot of a logged meal's nutrient payload.
// Payload is an opaque JSON document.
type MealTemplate struct {
	ID        int64     `json:"-" yaml:"-"`
	UID       string    `json:"uid" yaml:"uid"`
	Name      string    `json:"name" yaml:"name"`
	Payload   string    `json:"payload" yaml:"payload"`
	Calories  float64   `json:"calories" yaml:"calories"`
	Protein   float64   `json:"protein" yaml:"protein"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// templateSnapshot is the shape serialized into MealTemplate.Payload.
type templateSnapshot struct {
	Name           string  `json:"food_name"`
	Source         string  `json:"amount_desc,omitempty"`
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein"`
	Carbs          float64 `json:"carbs"`
	Fats           float64 `json:"fats"`
	Fiber          float64 `json:"fiber,omitempty"`
	Sugar          float64 `json:"sugar,omitempty"`
	Sodium         float64 `json:"sodium,omitempty"`
	Micronutrients string  `json:"micronutrients,omitempty"`
}

// NewTemplateFromLog snapshots the nutrient payload of e under name.
func NewTemplateFromLog(name string, e *FoodLogEntry) (*MealTemplate, error) {
	payload, err := json.Marshal(templateSnapshot{
		Name:           e.Name,
		Source:         e.Source,
		Calories:       e.Calories,
		Protein:        e.Protein,
		Carbs:          e.Carbs,
		Fats:           e.Fats,
		Fiber:          e.Fiber,
		Sugar:          e.Sugar,
		Sodium:         e.Sodium,
		Micronutrients: e.Micronutrients,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal template payload: %w", err)
	}

	return &MealTemplate{
		UID:       uuid.NewString(),
		Name:      name,
		Payload:   string(payload),
		Calories:  e.Calories,
		Protein:   e.Protein,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewLogEntry builds a fresh FoodLogEntry for date from the template payload.
// Fields missing from the payload stay at zero.
func (t *MealTemplate) NewLogEntry(date string) (*FoodLogEntry, error) {
	var snap templateSnapshot
	if len(t.Payload) > 0 {
		if err := json.Unmarshal([]byte(t.Payload), &snap); err != nil {
			return nil, fmt.Errorf("decode template %s: %w", t.Name, err)
		}
	}
	if snap.Name == "" {
		snap.Name = t.Name
	}

	e := NewFoodLogEntry(date, snap.Name)
	e.Source = snap.Source
	e.Calories = snap.Calories
	e.Protein = snap.Protein
	e.Carbs = snap.Carbs
	e.Fats = snap.Fats
	e.Fiber = snap.Fiber
	e.Sugar = snap.Sugar
	e.Sodium = snap.Sodium
	e.Micronutrients = snap.Micronutrients
	e.Notes = "from template: " + t.Name
	return e, nil
}
