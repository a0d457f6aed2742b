package model

import "time"

// Trend classifies the degradation trajectory of a piece of equipment.
type Trend string

const (
	TrendStable       Trend = "stable"
	TrendSlowDecline  Trend = "slow_decline"
	TrendRapidDecline Trend = "rapid_decline"
	// TrendCritical is reserved for engines with richer signal sources; the
	// built-in heuristic never emits it.
	TrendCritical Trend = "critical"
)

// FailurePrediction estimates failure risk for one piece of equipment. It is
// recomputed on demand and is not a source of truth.
type FailurePrediction struct {
	EquipmentID    string    `json:"equipment_id"`
	Probability    float64   `json:"probability_of_failure"`
	RULDays        float64   `json:"remaining_useful_life_days"`
	Trend          Trend     `json:"degradation_trend"`
	WarningSignals []string  `json:"warning_signals,omitempty"`
	Confidence     float64   `json:"confidence"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// Priority ranks a maintenance schedule by urgency.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// PriorityThresholds maps failure probability bands to priorities. The values
// are injected configuration so the bands stay tunable.
type PriorityThresholds struct {
	Critical float64 `json:"critical"`
	High     float64 `json:"high"`
	Medium   float64 `json:"medium"`
}

// DefaultPriorityThresholds returns the standard probability bands.
func DefaultPriorityThresholds() PriorityThresholds {
	return PriorityThresholds{Critical: 0.8, High: 0.6, Medium: 0.3}
}

// Classify derives the priority for a failure probability. Priority is a pure
// function of probability and must never be set independently.
func (t PriorityThresholds) Classify(probability float64) Priority {
	switch {
	case probability > t.Critical:
		return PriorityCritical
	case probability > t.High:
		return PriorityHigh
	case probability > t.Medium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}
