package goals

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthtrack/internal/apperr"
	"healthtrack/internal/exam"
)

type Category string

const (
	CategoryCholesterol   Category = "cholesterol"
	CategoryBloodPressure Category = "blood_pressure"
	CategoryWeight        Category = "weight"
	CategoryGlucose       Category = "glucose"
	CategoryExercise      Category = "exercise"
	CategoryOther         Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCholesterol, CategoryBloodPressure, CategoryWeight,
		CategoryGlucose, CategoryExercise, CategoryOther:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// Goal is a personal health target, e.g. total cholesterol under 200 mg/dL.
type Goal struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Category     Category   `json:"category"`
	TargetValue  float64    `json:"target_value"`
	CurrentValue float64    `json:"current_value"`
	Unit         string     `json:"unit,omitempty"`
	Deadline     *exam.Date `json:"deadline,omitempty"`
	Status       Status     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	Progress     float64    `json:"progress"`
}

// NewGoal validates g, fills defaults and computes its progress.
func NewGoal(g Goal, now time.Time) (Goal, error) {
	details := map[string]string{}
	if strings.TrimSpace(g.Title) == "" {
		details["title"] = "title is required"
	}
	if g.TargetValue <= 0 {
		details["target_value"] = "target value must be positive"
	}
	if g.CurrentValue < 0 {
		details["current_value"] = "current value must not be negative"
	}
	if g.Category == "" {
		g.Category = CategoryOther
	}
	if !g.Category.Valid() {
		details["category"] = "unknown category " + string(g.Category)
	}
	if len(details) > 0 {
		return Goal{}, apperr.Validation("invalid goal", details)
	}

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	g.Status = StatusActive
	g.CreatedAt = now
	g.Progress = Progress(g.CurrentValue, g.TargetValue)
	return g, nil
}

// WithProgress records a new current value. Reaching the target completes
// the goal; a completed goal stays completed if the value later drops.
func (g Goal) WithProgress(value float64) (Goal, error) {
	if value < 0 {
		return Goal{}, apperr.Validation("invalid progress", map[string]string{
			"value": "value must not be negative",
		})
	}
	g.CurrentValue = value
	g.Progress = Progress(value, g.TargetValue)
	if g.Progress >= 100 {
		g.Status = StatusCompleted
	}
	return g, nil
}

// Progress is current/target as a percentage, capped at 100.
func Progress(current, target float64) float64 {
	if target == 0 {
		return 0
	}
	return math.Min(current/target*100, 100)
}
