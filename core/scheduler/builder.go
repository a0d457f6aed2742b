package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uptimeworks/predmaint/core/assign"
	"github.com/uptimeworks/predmaint/core/catalog"
	"github.com/uptimeworks/predmaint/core/cost"
	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/logger"
	"github.com/uptimeworks/predmaint/core/metrics"
	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/core/prediction"
	"github.com/uptimeworks/predmaint/core/registry"
	"github.com/uptimeworks/predmaint/core/sop"
	"github.com/uptimeworks/predmaint/core/store"
	"github.com/uptimeworks/predmaint/core/timing"
)

// Options selects the strategy for one build.
type Options struct {
	Strategy    model.Strategy `json:"strategy"`
	HorizonDays int            `json:"horizon_days"`
}

// Builder runs the scheduling pipeline for single ids and batches.
type Builder struct {
	Equipment   registry.EquipmentRegistry
	Technicians registry.TechnicianDirectory
	SOPs        registry.SOPRegistry
	Predictor   prediction.Engine
	Timing      timing.Optimizer
	Catalog     *catalog.Generator
	Resolver    assign.Resolver
	Analyzer    sop.Analyzer
	Estimator   cost.Estimator
	Priorities  model.PriorityThresholds
	Store       store.Store
	Log         logger.Logger
	Metrics     metrics.Sink
	Config      Config

	// Clock and NewID are injectable for deterministic tests.
	Clock func() time.Time
	NewID func() string
}

func (b *Builder) now() time.Time {
	if b.Clock != nil {
		return b.Clock()
	}
	return time.Now()
}

func (b *Builder) newID() string {
	if b.NewID != nil {
		return b.NewID()
	}
	return uuid.NewString()
}

func (b *Builder) sink() metrics.Sink {
	if b.Metrics != nil {
		return b.Metrics
	}
	return metrics.NopSink{}
}

// withRetry invokes fn and retries exactly once, after a backoff, when the
// failure is a transient dependency error. Every other kind surfaces
// immediately.
func (b *Builder) withRetry(ctx context.Context, fn func() error) error {
	err := fn()
	if err == nil || !errs.IsKind(err, errs.Dependency) {
		return err
	}
	b.Log.Warnf("dependency error, retrying once: %v", err)
	select {
	case <-time.After(time.Duration(b.Config.RetryBackoffMS) * time.Millisecond):
	case <-ctx.Done():
		return errs.Wrap(errs.Dependency, ctx.Err(), "retry cancelled")
	}
	return fn()
}

// BuildOne runs the full pipeline for one equipment id and persists the
// resulting schedule with status scheduled.
func (b *Builder) BuildOne(ctx context.Context, equipmentID string, opts Options) (model.MaintenanceSchedule, error) {
	started := b.now()
	if equipmentID == "" {
		return model.MaintenanceSchedule{}, errs.E(errs.Validation, "equipment id is required")
	}
	if opts.Strategy == "" {
		opts.Strategy = model.Strategy(b.Config.Strategy)
	}
	if opts.HorizonDays == 0 {
		opts.HorizonDays = b.Config.HorizonDays
	}

	var eq model.Equipment
	err := b.withRetry(ctx, func() error {
		var err error
		eq, err = b.Equipment.Equipment(ctx, equipmentID)
		return err
	})
	if err != nil {
		return model.MaintenanceSchedule{}, err
	}

	pred, err := b.Predictor.Predict(ctx, eq)
	if err != nil {
		if errs.IsKind(err, errs.Computation) {
			b.Log.Debugw("prediction failed", map[string]any{
				"equipment_id": eq.ID,
				"category":     eq.Category,
				"usage_hours":  eq.UsageHours,
				"history_len":  len(eq.History),
			})
		}
		return model.MaintenanceSchedule{}, err
	}
	if pred.Probability < 0 || pred.Probability > 1 {
		return model.MaintenanceSchedule{}, errs.E(errs.Computation,
			"prediction for %s out of range: probability %.4f", eq.ID, pred.Probability)
	}
	if pred.RULDays < 30 {
		return model.MaintenanceSchedule{}, errs.E(errs.Computation,
			"prediction for %s violates RUL floor: %.1f days", eq.ID, pred.RULDays)
	}

	plan, err := b.Timing.Optimize(eq, pred, opts.Strategy, opts.HorizonDays)
	if err != nil {
		return model.MaintenanceSchedule{}, err
	}

	tasks := b.Catalog.Generate(eq, pred)

	var technicians []model.Technician
	err = b.withRetry(ctx, func() error {
		var err error
		technicians, err = b.Technicians.ActiveTechnicians(ctx)
		return err
	})
	if err != nil {
		return model.MaintenanceSchedule{}, err
	}
	assignments := b.Resolver.Resolve(technicians, tasks)

	var procedures []model.StandardProcedure
	err = b.withRetry(ctx, func() error {
		var err error
		procedures, err = b.SOPs.ActiveProcedures(ctx)
		return err
	})
	if err != nil {
		return model.MaintenanceSchedule{}, err
	}
	impact := b.Analyzer.Analyze(procedures, eq.ID, plan.ScheduledDate, plan.EstimatedDurationHours)

	analysis := b.Estimator.Estimate(tasks, assignments, technicians, impact)
	if !analysis.Reconciled() {
		return model.MaintenanceSchedule{}, errs.E(errs.Computation,
			"cost components for %s do not reconcile to total %.4f", eq.ID, analysis.TotalEstimate)
	}

	now := b.now()
	sched := model.MaintenanceSchedule{
		ID:                     b.newID(),
		EquipmentID:            eq.ID,
		Status:                 model.StatusScheduled,
		Priority:               b.Priorities.Classify(pred.Probability),
		Strategy:               opts.Strategy,
		ScheduledDate:          plan.ScheduledDate,
		EstimatedDurationHours: plan.EstimatedDurationHours,
		Prediction:             pred,
		Tasks:                  tasks,
		Assignments:            assignments,
		SOPImpact:              impact,
		Cost:                   analysis,
		CreatedAt:              now,
		UpdatedAt:              now,
	}

	if err := b.Store.SaveSchedule(ctx, sched); err != nil {
		return model.MaintenanceSchedule{}, err
	}

	if err := b.sink().RecordSchedule(metrics.ScheduleEvent{
		ScheduleID:    sched.ID,
		EquipmentID:   sched.EquipmentID,
		Priority:      sched.Priority,
		TotalCost:     sched.Cost.TotalEstimate,
		DurationHours: sched.EstimatedDurationHours,
		PipelineTime:  b.now().Sub(started),
		Time:          now,
	}); err != nil {
		b.Log.Warnf("metrics sink: %v", err)
	}
	b.Log.Infof("schedule %s created for %s (priority %s)", sched.ID, sched.EquipmentID, sched.Priority)
	return sched, nil
}
