package app

import (
	"context"
	"time"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/events"
	"github.com/uptimeworks/predmaint/core/fleetopt"
	coremetrics "github.com/uptimeworks/predmaint/core/metrics"
	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/core/scheduler"
	"github.com/uptimeworks/predmaint/core/store"
)

// ScheduleQuery filters GetSchedules.
type ScheduleQuery struct {
	EquipmentIDs       []string  `json:"equipment_ids,omitempty"`
	From               time.Time `json:"from,omitempty"`
	To                 time.Time `json:"to,omitempty"`
	IncludePredictions bool      `json:"include_predictions,omitempty"`
}

// ListSummary totals a schedule listing.
type ListSummary struct {
	Count      int                    `json:"count"`
	TotalCost  float64                `json:"total_cost"`
	ByStatus   map[model.Status]int   `json:"by_status"`
	ByPriority map[model.Priority]int `json:"by_priority"`
}

// ScheduleListResult is the GetSchedules payload.
type ScheduleListResult struct {
	Schedules   []model.MaintenanceSchedule        `json:"schedules"`
	Predictions map[string]model.FailurePrediction `json:"predictions,omitempty"`
	Summary     ListSummary                        `json:"summary"`
}

// PredictFailures recomputes a failure prediction for every requested
// equipment id.
func (s *Service) PredictFailures(ctx context.Context, equipmentIDs []string) ([]model.FailurePrediction, error) {
	if len(equipmentIDs) == 0 {
		return nil, errs.E(errs.Validation, "at least one equipment id is required")
	}
	preds := make([]model.FailurePrediction, 0, len(equipmentIDs))
	for _, id := range equipmentIDs {
		eq, err := s.Builder.Equipment.Equipment(ctx, id)
		if err != nil {
			return nil, err
		}
		pred, err := s.Builder.Predictor.Predict(ctx, eq)
		if err != nil {
			return nil, err
		}
		if err := s.Builder.Metrics.RecordPrediction(coremetrics.PredictionEvent{
			EquipmentID: id,
			Probability: pred.Probability,
			RULDays:     pred.RULDays,
			Trend:       pred.Trend,
			Time:        pred.GeneratedAt,
		}); err != nil {
			s.log.Warnf("record prediction metric: %v", err)
		}
		preds = append(preds, pred)
	}
	return preds, nil
}

// CreateSchedules runs the scheduling pipeline over the ids and returns the
// batch result. Per-id failures never abort the batch.
func (s *Service) CreateSchedules(ctx context.Context, equipmentIDs []string, opts scheduler.Options) (*scheduler.BatchResult, error) {
	if len(equipmentIDs) == 0 {
		return nil, errs.E(errs.Validation, "at least one equipment id is required")
	}
	res, err := s.Builder.BuildBatch(ctx, equipmentIDs, opts)
	if err != nil {
		return nil, err
	}
	for i := range res.Schedules {
		sched := res.Schedules[i]
		s.publish(ctx, events.Event{
			Kind:     events.ScheduleCreated,
			Subject:  sched.ID,
			Time:     sched.CreatedAt,
			Schedule: &sched,
			Detail:   map[string]any{"equipment_id": sched.EquipmentID, "priority": sched.Priority},
		})
	}
	return &res, nil
}

// GetSchedules lists schedules matching the query, optionally with a fresh
// prediction per distinct equipment id.
func (s *Service) GetSchedules(ctx context.Context, q ScheduleQuery) (*ScheduleListResult, error) {
	schedules, err := s.store.Schedules(ctx, store.ScheduleQuery{
		EquipmentIDs: q.EquipmentIDs,
		From:         q.From,
		To:           q.To,
	})
	if err != nil {
		return nil, err
	}
	res := &ScheduleListResult{
		Schedules: schedules,
		Summary: ListSummary{
			Count:      len(schedules),
			ByStatus:   map[model.Status]int{},
			ByPriority: map[model.Priority]int{},
		},
	}
	for _, sched := range schedules {
		res.Summary.TotalCost += sched.Cost.TotalEstimate
		res.Summary.ByStatus[sched.Status]++
		res.Summary.ByPriority[sched.Priority]++
	}
	if q.IncludePredictions {
		res.Predictions = map[string]model.FailurePrediction{}
		for _, sched := range schedules {
			if _, done := res.Predictions[sched.EquipmentID]; done {
				continue
			}
			eq, err := s.Builder.Equipment.Equipment(ctx, sched.EquipmentID)
			if err != nil {
				return nil, err
			}
			pred, err := s.Builder.Predictor.Predict(ctx, eq)
			if err != nil {
				return nil, err
			}
			res.Predictions[sched.EquipmentID] = pred
		}
	}
	return res, nil
}

// MoveScheduleStatus advances a schedule through its lifecycle. Invalid
// transitions are rejected by the store.
func (s *Service) MoveScheduleStatus(ctx context.Context, id string, next model.Status) error {
	if err := s.store.UpdateScheduleStatus(ctx, id, next); err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Kind:    events.ScheduleStatusMoved,
		Subject: id,
		Time:    time.Now(),
		Detail:  map[string]any{"status": next},
	})
	return nil
}

// Optimize computes a fleet optimization proposal over the period.
func (s *Service) Optimize(ctx context.Context, period model.TimeWindow, objectives model.ObjectiveWeights, constraints model.OptimizationConstraints) (*model.OptimizationRun, error) {
	run, err := s.Optimizer.Optimize(ctx, fleetopt.Request{
		Period:      period,
		Objectives:  objectives,
		Constraints: constraints,
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Kind:    events.OptimizationProposed,
		Subject: run.ID,
		Time:    run.CreatedAt,
		Run:     &run,
		Detail:  map[string]any{"publishable": run.Validation.Passed()},
	})
	return &run, nil
}

// ApplyOptimization publishes a proposed run to the live schedule set,
// failing with a conflict when the set drifted since the snapshot.
func (s *Service) ApplyOptimization(ctx context.Context, runID string) (*model.OptimizationRun, error) {
	run, err := s.Optimizer.Apply(ctx, runID)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Kind:    events.OptimizationApplied,
		Subject: run.ID,
		Time:    time.Now(),
		Run:     &run,
		Detail:  map[string]any{"modified": len(run.Proposal.ModifiedIDs)},
	})
	return &run, nil
}

// GenerateAnalytics rolls stored history up into a report for the period.
func (s *Service) GenerateAnalytics(ctx context.Context, period model.TimeWindow) (*model.MaintenanceAnalyticsReport, error) {
	report, err := s.Aggregator.Generate(ctx, period)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.Event{
		Kind:    events.ReportGenerated,
		Subject: report.ID,
		Time:    report.GeneratedAt,
		Detail:  map[string]any{"equipment_count": len(report.EquipmentPerformance)},
	})
	return &report, nil
}
