package fleetopt

import (
	"sort"
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

// buildProposal applies the recommendations that can be expressed as direct
// schedule edits. Only dates and strategies move; cost breakdowns stay
// untouched so every proposed schedule still reconciles.
func buildProposal(snapshot []model.MaintenanceSchedule, recs []model.Recommendation, constraints model.OptimizationConstraints) model.Proposal {
	schedules := make([]model.MaintenanceSchedule, len(snapshot))
	copy(schedules, snapshot)
	byID := map[string]int{}
	for i, s := range schedules {
		byID[s.ID] = i
	}
	modified := map[string]bool{}

	maxConcurrent := constraints.MaxConcurrentMaintenance
	if maxConcurrent == 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	dayLoad := map[time.Time]int{}
	for _, s := range schedules {
		dayLoad[dayOf(s.ScheduledDate)]++
	}

	for _, rec := range recs {
		switch rec.Kind {
		case model.RecScheduleAdjustment:
			for _, id := range rec.ScheduleIDs {
				i, ok := byID[id]
				if !ok {
					continue
				}
				moved := nextOpenDay(schedules[i].ScheduledDate, dayLoad, maxConcurrent, constraints.BlackoutWindows)
				if moved.Equal(schedules[i].ScheduledDate) {
					continue
				}
				dayLoad[dayOf(schedules[i].ScheduledDate)]--
				dayLoad[dayOf(moved)]++
				schedules[i].ScheduledDate = moved
				modified[id] = true
			}
		case model.RecTaskConsolidation:
			if len(rec.ScheduleIDs) != 2 {
				continue
			}
			anchor, ok := byID[rec.ScheduleIDs[0]]
			if !ok {
				continue
			}
			follower, ok := byID[rec.ScheduleIDs[1]]
			if !ok {
				continue
			}
			if schedules[follower].ScheduledDate.Equal(schedules[anchor].ScheduledDate) {
				continue
			}
			dayLoad[dayOf(schedules[follower].ScheduledDate)]--
			dayLoad[dayOf(schedules[anchor].ScheduledDate)]++
			schedules[follower].ScheduledDate = schedules[anchor].ScheduledDate
			modified[rec.ScheduleIDs[1]] = true
		case model.RecPredictiveConversion:
			for _, id := range rec.ScheduleIDs {
				i, ok := byID[id]
				if !ok || schedules[i].Strategy != model.StrategyTimeBased {
					continue
				}
				schedules[i].Strategy = model.StrategyHybrid
				modified[id] = true
			}
		}
	}

	modifiedIDs := make([]string, 0, len(modified))
	for id := range modified {
		modifiedIDs = append(modifiedIDs, id)
	}
	sort.Strings(modifiedIDs)

	var netCost, availability float64
	for _, rec := range recs {
		netCost += rec.ExpectedCostDelta
		availability += rec.ExpectedAvailability
	}
	return model.Proposal{
		Schedules:   schedules,
		ModifiedIDs: modifiedIDs,
		Summary: model.ChangeSummary{
			Modified:           len(modifiedIDs),
			Unchanged:          len(schedules) - len(modifiedIDs),
			NetCostDelta:       netCost,
			AvailabilityImpact: availability,
		},
	}
}

// nextOpenDay walks forward from the day after t until it finds a day under
// the concurrency limit and outside every blackout window.
func nextOpenDay(t time.Time, dayLoad map[time.Time]int, maxConcurrent int, blackouts []model.TimeWindow) time.Time {
	candidate := t
	for i := 0; i < 60; i++ {
		candidate = candidate.Add(24 * time.Hour)
		if dayLoad[dayOf(candidate)] >= maxConcurrent {
			continue
		}
		if inBlackout(candidate, blackouts) {
			continue
		}
		return candidate
	}
	return t
}

func inBlackout(t time.Time, blackouts []model.TimeWindow) bool {
	for _, w := range blackouts {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
