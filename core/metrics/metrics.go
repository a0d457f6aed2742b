// Package metrics defines the observability sink contracts for the engine.
// Implementations live in infra/metrics.
package metrics

import (
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

// PredictionEvent records one failure prediction.
type PredictionEvent struct {
	EquipmentID string
	Probability float64
	RULDays     float64
	Trend       model.Trend
	Time        time.Time
}

// ScheduleEvent records one created maintenance schedule.
type ScheduleEvent struct {
	ScheduleID    string
	EquipmentID   string
	Priority      model.Priority
	TotalCost     float64
	DurationHours float64
	PipelineTime  time.Duration
	Time          time.Time
}

// OptimizationEvent records one fleet optimization run.
type OptimizationEvent struct {
	RunID           string
	Recommendations int
	NetCostDelta    float64
	Publishable     bool
	Applied         bool
	Time            time.Time
}

// Sink records engine events for observability purposes.
type Sink interface {
	RecordPrediction(ev PredictionEvent) error
	RecordSchedule(ev ScheduleEvent) error
	RecordOptimization(ev OptimizationEvent) error
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RecordPrediction(PredictionEvent) error     { return nil }
func (NopSink) RecordSchedule(ScheduleEvent) error         { return nil }
func (NopSink) RecordOptimization(OptimizationEvent) error { return nil }
