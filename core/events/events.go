// Package events defines the engine lifecycle events published on the
// internal bus.
package events

import (
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

// Kind names an engine event type.
type Kind string

const (
	ScheduleCreated      Kind = "schedule_created"
	ScheduleStatusMoved  Kind = "schedule_status_moved"
	OptimizationProposed Kind = "optimization_proposed"
	OptimizationApplied  Kind = "optimization_applied"
	ReportGenerated      Kind = "report_generated"
)

// Event is one engine lifecycle event.
type Event struct {
	Kind    Kind
	Subject string // id of the schedule, run or report
	Time    time.Time

	// Optional payloads, populated per kind.
	Schedule *model.MaintenanceSchedule
	Run      *model.OptimizationRun
	Detail   map[string]any
}
