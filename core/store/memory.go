package store

import (
	"context"
	"sort"
	"sync"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

// MemoryStore keeps everything in process. Used in tests and single-node
// deployments without durability requirements.
type MemoryStore struct {
	mu        sync.RWMutex
	schedules map[string]model.MaintenanceSchedule
	runs      map[string]model.OptimizationRun
	reports   []model.MaintenanceAnalyticsReport
	version   uint64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		schedules: map[string]model.MaintenanceSchedule{},
		runs:      map[string]model.OptimizationRun{},
	}
}

// SaveSchedule inserts or replaces a schedule and bumps the version.
func (s *MemoryStore) SaveSchedule(ctx context.Context, sched model.MaintenanceSchedule) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	if err := sched.Validate(); err != nil {
		return errs.Wrap(errs.Validation, err, "invalid schedule")
	}
	s.mu.Lock()
	s.schedules[sched.ID] = sched
	s.version++
	s.mu.Unlock()
	return nil
}

// Schedule returns the schedule by id.
func (s *MemoryStore) Schedule(ctx context.Context, id string) (model.MaintenanceSchedule, error) {
	if err := ctx.Err(); err != nil {
		return model.MaintenanceSchedule{}, errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.RLock()
	sched, ok := s.schedules[id]
	s.mu.RUnlock()
	if !ok {
		return model.MaintenanceSchedule{}, errs.E(errs.NotFound, "schedule %s not found", id)
	}
	return sched, nil
}

// Schedules lists schedules matching the query ordered by id.
func (s *MemoryStore) Schedules(ctx context.Context, q ScheduleQuery) ([]model.MaintenanceSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.RLock()
	out := make([]model.MaintenanceSchedule, 0, len(s.schedules))
	for _, sched := range s.schedules {
		if q.matches(sched) {
			out = append(out, sched)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateScheduleStatus applies a lifecycle transition.
func (s *MemoryStore) UpdateScheduleStatus(ctx context.Context, id string, next model.Status) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sched, ok := s.schedules[id]
	if !ok {
		return errs.E(errs.NotFound, "schedule %s not found", id)
	}
	if !sched.Status.CanTransition(next) {
		return errs.E(errs.Validation, "schedule %s cannot move from %s to %s", id, sched.Status, next)
	}
	sched.Status = next
	s.schedules[id] = sched
	s.version++
	return nil
}

// Version returns the schedule-set version.
func (s *MemoryStore) Version(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version, nil
}

// SaveRun appends an optimization run. Existing runs are immutable except
// for the applied/rejected status flip written by the approval workflow.
func (s *MemoryStore) SaveRun(ctx context.Context, run model.OptimizationRun) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.runs[run.ID]; ok && existing.Status != model.RunProposed {
		return errs.E(errs.Conflict, "optimization run %s is final", run.ID)
	}
	s.runs[run.ID] = run
	return nil
}

// Run returns the optimization run by id.
func (s *MemoryStore) Run(ctx context.Context, id string) (model.OptimizationRun, error) {
	if err := ctx.Err(); err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()
	if !ok {
		return model.OptimizationRun{}, errs.E(errs.NotFound, "optimization run %s not found", id)
	}
	return run, nil
}

// SaveReport appends an analytics report.
func (s *MemoryStore) SaveReport(ctx context.Context, rep model.MaintenanceAnalyticsReport) error {
	if err := ctx.Err(); err != nil {
		return errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.Lock()
	s.reports = append(s.reports, rep)
	s.mu.Unlock()
	return nil
}

// Reports lists reports whose period overlaps the window, oldest first.
func (s *MemoryStore) Reports(ctx context.Context, window model.TimeWindow) ([]model.MaintenanceAnalyticsReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	s.mu.RLock()
	var out []model.MaintenanceAnalyticsReport
	for _, r := range s.reports {
		if r.Period.Start.Before(window.End) && window.Start.Before(r.Period.End) {
			out = append(out, r)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Period.Start.Before(out[j].Period.Start) })
	return out, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error { return nil }
