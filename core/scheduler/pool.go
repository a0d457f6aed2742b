package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

// BatchFailure reports one failed equipment id. It carries the stable error
// kind, never an internal stack trace.
type BatchFailure struct {
	EquipmentID string    `json:"equipment_id"`
	Kind        errs.Kind `json:"kind"`
	Message     string    `json:"message"`
}

// BatchSummary totals a batch run.
type BatchSummary struct {
	Requested  int                    `json:"requested"`
	Succeeded  int                    `json:"succeeded"`
	Failed     int                    `json:"failed"`
	TotalCost  float64                `json:"total_cost"`
	ByPriority map[model.Priority]int `json:"by_priority"`
}

// BatchResult separates succeeded schedules from per-id failures.
type BatchResult struct {
	Schedules []model.MaintenanceSchedule `json:"schedules"`
	Failures  []BatchFailure              `json:"failures,omitempty"`
	Summary   BatchSummary                `json:"summary"`
}

// result slots are indexed by position so output order always matches the
// requested id order regardless of worker interleaving.
type slot struct {
	schedule model.MaintenanceSchedule
	err      error
}

// BuildBatch runs the pipeline for every id on a bounded worker pool. A
// failure for one id is recorded in its slot and never aborts the batch.
func (b *Builder) BuildBatch(ctx context.Context, equipmentIDs []string, opts Options) (BatchResult, error) {
	if len(equipmentIDs) == 0 {
		return BatchResult{}, errs.E(errs.Validation, "at least one equipment id is required")
	}

	workers := b.Config.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(equipmentIDs) {
		workers = len(equipmentIDs)
	}
	itemTimeout := time.Duration(b.Config.ItemTimeoutMS) * time.Millisecond

	slots := make([]slot, len(equipmentIDs))
	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				itemCtx := ctx
				var cancel context.CancelFunc
				if itemTimeout > 0 {
					itemCtx, cancel = context.WithTimeout(ctx, itemTimeout)
				}
				sched, err := b.BuildOne(itemCtx, equipmentIDs[i], opts)
				if cancel != nil {
					cancel()
				}
				slots[i] = slot{schedule: sched, err: err}
			}
		}()
	}
	for i := range equipmentIDs {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	res := BatchResult{Summary: BatchSummary{
		Requested:  len(equipmentIDs),
		ByPriority: map[model.Priority]int{},
	}}
	for i, s := range slots {
		if s.err != nil {
			res.Failures = append(res.Failures, BatchFailure{
				EquipmentID: equipmentIDs[i],
				Kind:        errs.KindOf(s.err),
				Message:     errs.MessageOf(s.err),
			})
			continue
		}
		res.Schedules = append(res.Schedules, s.schedule)
		res.Summary.TotalCost += s.schedule.Cost.TotalEstimate
		res.Summary.ByPriority[s.schedule.Priority]++
	}
	res.Summary.Succeeded = len(res.Schedules)
	res.Summary.Failed = len(res.Failures)
	return res, nil
}
