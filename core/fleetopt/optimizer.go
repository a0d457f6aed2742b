package fleetopt

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/logger"
	"github.com/uptimeworks/predmaint/core/metrics"
	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/core/store"
)

// Request describes one fleet optimization.
type Request struct {
	Period      model.TimeWindow
	Objectives  model.ObjectiveWeights
	Constraints model.OptimizationConstraints
}

// Optimizer computes fleet-level optimization proposals from the schedule
// store.
type Optimizer struct {
	Store   store.Store
	Log     logger.Logger
	Metrics metrics.Sink

	Clock func() time.Time
	NewID func() string
}

// NewOptimizer wires an optimizer with default clock and id generation.
func NewOptimizer(st store.Store, log logger.Logger, sink metrics.Sink) *Optimizer {
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Optimizer{
		Store:   st,
		Log:     log,
		Metrics: sink,
		Clock:   time.Now,
		NewID:   uuid.NewString,
	}
}

// Optimize snapshots the active schedules in the period, analyzes the set,
// ranks recommendations, builds and validates a proposal, and persists the
// whole run for the approval workflow. The live schedules are not touched.
func (o *Optimizer) Optimize(ctx context.Context, req Request) (model.OptimizationRun, error) {
	if req.Period.End.Before(req.Period.Start) || req.Period.End.Equal(req.Period.Start) {
		return model.OptimizationRun{}, errs.E(errs.Validation, "optimization period end must be after start")
	}
	if len(req.Objectives) == 0 {
		req.Objectives = model.ObjectiveWeights{
			model.ObjectiveMinimizeCost:     1,
			model.ObjectiveMinimizeDowntime: 1,
		}
	}

	version, err := o.Store.Version(ctx)
	if err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "read schedule set version")
	}
	snapshot, err := o.Store.Schedules(ctx, store.ScheduleQuery{
		From:     req.Period.Start,
		To:       req.Period.End,
		Statuses: []model.Status{model.StatusScheduled},
	})
	if err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "snapshot schedules")
	}
	if len(snapshot) == 0 {
		return model.OptimizationRun{}, errs.E(errs.NotFound, "no scheduled maintenance in the optimization period")
	}

	analysis := analyze(snapshot, req.Period, req.Constraints)
	recs := recommend(snapshot, analysis, req.Objectives, req.Constraints)
	proposal := buildProposal(snapshot, recs, req.Constraints)
	validation := validate(snapshot, proposal, req.Constraints)
	plan := rolloutPlan(proposal, validation)

	run := model.OptimizationRun{
		ID:              o.NewID(),
		Period:          req.Period,
		Objectives:      req.Objectives,
		Constraints:     req.Constraints,
		SnapshotVersion: version,
		Analysis:        analysis,
		Recommendations: recs,
		Proposal:        proposal,
		Validation:      validation,
		Rollout:         plan,
		Status:          model.RunProposed,
		CreatedAt:       o.Clock(),
	}
	if err := o.Store.SaveRun(ctx, run); err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "persist optimization run")
	}

	if err := o.Metrics.RecordOptimization(metrics.OptimizationEvent{
		RunID:           run.ID,
		Recommendations: len(recs),
		NetCostDelta:    proposal.Summary.NetCostDelta,
		Publishable:     validation.Passed(),
		Time:            run.CreatedAt,
	}); err != nil {
		o.Log.Warnf("record optimization metric: %v", err)
	}
	o.Log.Infof("optimization run %s: %d schedules, %d recommendations, publishable=%t",
		run.ID, len(snapshot), len(recs), validation.Passed())
	return run, nil
}
