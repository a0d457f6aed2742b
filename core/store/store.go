// Package store persists maintenance schedules, optimization runs and
// analytics reports. Every schedule mutation bumps a monotonically
// increasing version used for the optimizer's optimistic concurrency check.
package store

import (
	"context"
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

// ScheduleQuery filters schedule listings. Zero fields match everything.
type ScheduleQuery struct {
	EquipmentIDs []string
	From, To     time.Time
	Statuses     []model.Status
}

func (q ScheduleQuery) matches(s model.MaintenanceSchedule) bool {
	if len(q.EquipmentIDs) > 0 {
		found := false
		for _, id := range q.EquipmentIDs {
			if id == s.EquipmentID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !q.From.IsZero() && s.ScheduledDate.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !s.ScheduledDate.Before(q.To) {
		return false
	}
	if len(q.Statuses) > 0 {
		found := false
		for _, st := range q.Statuses {
			if st == s.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Store is the persistence contract consumed by the engine. Schedules are
// mutable until terminal; runs and reports are append-only.
type Store interface {
	SaveSchedule(ctx context.Context, s model.MaintenanceSchedule) error
	Schedule(ctx context.Context, id string) (model.MaintenanceSchedule, error)
	Schedules(ctx context.Context, q ScheduleQuery) ([]model.MaintenanceSchedule, error)
	UpdateScheduleStatus(ctx context.Context, id string, next model.Status) error

	// Version returns the current schedule-set version. It increases with
	// every schedule write.
	Version(ctx context.Context) (uint64, error)

	SaveRun(ctx context.Context, run model.OptimizationRun) error
	Run(ctx context.Context, id string) (model.OptimizationRun, error)

	SaveReport(ctx context.Context, rep model.MaintenanceAnalyticsReport) error
	Reports(ctx context.Context, window model.TimeWindow) ([]model.MaintenanceAnalyticsReport, error)

	Close() error
}
