package fleetopt

import (
	"context"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/metrics"
	"github.com/uptimeworks/predmaint/core/model"
)

// Apply publishes a proposed run to the live schedule store. The run must
// still be in the proposed state, must have passed validation, and the
// store's schedule-set version must match the run snapshot; any schedule
// change since the run was computed yields a conflict and the caller has to
// re-run Optimize.
func (o *Optimizer) Apply(ctx context.Context, runID string) (model.OptimizationRun, error) {
	run, err := o.Store.Run(ctx, runID)
	if err != nil {
		return model.OptimizationRun{}, err
	}
	if run.Status != model.RunProposed {
		return model.OptimizationRun{}, errs.E(errs.Conflict,
			"optimization run %s is %s, only proposed runs can be applied", runID, run.Status)
	}
	if !run.Validation.Passed() {
		return model.OptimizationRun{}, errs.E(errs.Validation,
			"optimization run %s failed validation gates and cannot be applied", runID)
	}

	version, err := o.Store.Version(ctx)
	if err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "read schedule set version")
	}
	if version != run.SnapshotVersion {
		return model.OptimizationRun{}, errs.E(errs.Conflict,
			"schedule set changed since the optimization snapshot, re-run the optimization")
	}

	modified := map[string]bool{}
	for _, id := range run.Proposal.ModifiedIDs {
		modified[id] = true
	}
	for _, s := range run.Proposal.Schedules {
		if !modified[s.ID] {
			continue
		}
		if err := o.Store.SaveSchedule(ctx, s); err != nil {
			return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "publish schedule %s", s.ID)
		}
	}

	run.Status = model.RunApplied
	if err := o.Store.SaveRun(ctx, run); err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "mark run applied")
	}

	if err := o.Metrics.RecordOptimization(metrics.OptimizationEvent{
		RunID:           run.ID,
		Recommendations: len(run.Recommendations),
		NetCostDelta:    run.Proposal.Summary.NetCostDelta,
		Publishable:     true,
		Applied:         true,
		Time:            o.Clock(),
	}); err != nil {
		o.Log.Warnf("record optimization metric: %v", err)
	}
	o.Log.Infof("optimization run %s applied, %d schedule(s) updated", run.ID, len(run.Proposal.ModifiedIDs))
	return run, nil
}

// Reject marks a proposed run as rejected so it can never be applied.
func (o *Optimizer) Reject(ctx context.Context, runID string) (model.OptimizationRun, error) {
	run, err := o.Store.Run(ctx, runID)
	if err != nil {
		return model.OptimizationRun{}, err
	}
	if run.Status != model.RunProposed {
		return model.OptimizationRun{}, errs.E(errs.Conflict,
			"optimization run %s is %s, only proposed runs can be rejected", runID, run.Status)
	}
	run.Status = model.RunRejected
	if err := o.Store.SaveRun(ctx, run); err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "mark run rejected")
	}
	return run, nil
}
