package fleetopt

import (
	"fmt"
	"sort"
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

// financeApprovalThreshold is the absolute cost delta above which finance
// sign-off is required.
const financeApprovalThreshold = 1000.0

// recommend generates the ranked recommendation list for the snapshot.
// Everything is derived from sorted inputs so identical snapshots always
// produce identical recommendations.
func recommend(schedules []model.MaintenanceSchedule, analysis model.FleetAnalysis, objectives model.ObjectiveWeights, constraints model.OptimizationConstraints) []model.Recommendation {
	var recs []model.Recommendation
	seq := 0
	nextID := func() string {
		seq++
		return fmt.Sprintf("rec-%03d", seq)
	}

	recs = append(recs, adjustOverbookedDays(schedules, constraints, nextID)...)
	recs = append(recs, reallocateWorkload(analysis, constraints, nextID)...)
	recs = append(recs, consolidateSameEquipment(schedules, nextID)...)
	recs = append(recs, convertToPredictive(schedules, nextID)...)
	recs = append(recs, batchBySharedSkill(schedules, nextID)...)
	recs = append(recs, outsourceOverflow(schedules, analysis, constraints, nextID)...)

	for i := range recs {
		recs[i].Score = scoreRecommendation(recs[i], objectives)
		recs[i].RequiredApprovals = approvalsFor(recs[i])
	}
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].ID < recs[j].ID
	})
	return recs
}

// adjustOverbookedDays shifts the latest-created schedules off days that
// exceed the concurrency limit.
func adjustOverbookedDays(schedules []model.MaintenanceSchedule, constraints model.OptimizationConstraints, nextID func() string) []model.Recommendation {
	maxConcurrent := constraints.MaxConcurrentMaintenance
	if maxConcurrent == 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	byDay := map[time.Time][]model.MaintenanceSchedule{}
	for _, s := range schedules {
		d := dayOf(s.ScheduledDate)
		byDay[d] = append(byDay[d], s)
	}
	days := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var recs []model.Recommendation
	for _, d := range days {
		group := byDay[d]
		if len(group) <= maxConcurrent {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
		excess := group[maxConcurrent:]
		ids := make([]string, len(excess))
		var downtime float64
		for i, s := range excess {
			ids[i] = s.ID
			downtime += s.EstimatedDurationHours
		}
		recs = append(recs, model.Recommendation{
			ID:   nextID(),
			Kind: model.RecScheduleAdjustment,
			Description: fmt.Sprintf("shift %d intervention(s) off %s to respect the concurrency limit of %d",
				len(excess), d.Format("2006-01-02"), maxConcurrent),
			ScheduleIDs:           ids,
			ExpectedDowntimeDelta: -downtime * 0.2,
			ExpectedAvailability:  0.02 * float64(len(excess)),
		})
	}
	return recs
}

// reallocateWorkload suggests a balanced hour split when technician loads
// diverge.
func reallocateWorkload(analysis model.FleetAnalysis, constraints model.OptimizationConstraints, nextID func() string) []model.Recommendation {
	if len(analysis.TechnicianUtilization) < 2 {
		return nil
	}
	var minH, maxH float64
	first := true
	for _, h := range analysis.TechnicianUtilization {
		if first {
			minH, maxH = h, h
			first = false
			continue
		}
		if h < minH {
			minH = h
		}
		if h > maxH {
			maxH = h
		}
	}
	if maxH-minH < 4 {
		return nil
	}
	maxDaily := constraints.MaxDailyTechnicianHours
	if maxDaily == 0 {
		maxDaily = defaultDailyTechnicianHours
	}
	balanced := rebalance(analysis.TechnicianUtilization, maxDaily*30)
	if balanced == nil {
		return nil
	}
	return []model.Recommendation{{
		ID:   nextID(),
		Kind: model.RecResourceReallocation,
		Description: fmt.Sprintf("rebalance technician workload (current spread %.1fh, proposed targets %s)",
			maxH-minH, formatTargets(balanced)),
		ExpectedAvailability: 0.01,
	}}
}

func formatTargets(targets map[string]float64) string {
	ids := make([]string, 0, len(targets))
	for id := range targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%.1fh", id, targets[id])
	}
	return out
}

// consolidateSameEquipment co-locates schedules for the same equipment that
// fall within a week of each other.
func consolidateSameEquipment(schedules []model.MaintenanceSchedule, nextID func() string) []model.Recommendation {
	byEquipment := map[string][]model.MaintenanceSchedule{}
	for _, s := range schedules {
		byEquipment[s.EquipmentID] = append(byEquipment[s.EquipmentID], s)
	}
	eqIDs := make([]string, 0, len(byEquipment))
	for id := range byEquipment {
		eqIDs = append(eqIDs, id)
	}
	sort.Strings(eqIDs)

	var recs []model.Recommendation
	for _, eqID := range eqIDs {
		group := byEquipment[eqID]
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].ScheduledDate.Before(group[j].ScheduledDate) })
		for i := 1; i < len(group); i++ {
			gap := group[i].ScheduledDate.Sub(group[i-1].ScheduledDate)
			if gap > 7*24*time.Hour {
				continue
			}
			recs = append(recs, model.Recommendation{
				ID:   nextID(),
				Kind: model.RecTaskConsolidation,
				Description: fmt.Sprintf("consolidate interventions %s and %s on equipment %s into one visit",
					group[i-1].ID, group[i].ID, eqID),
				ScheduleIDs:           []string{group[i-1].ID, group[i].ID},
				ExpectedCostDelta:     -group[i].Cost.OperationalCost,
				ExpectedDowntimeDelta: -group[i].EstimatedDurationHours * 0.5,
			})
		}
	}
	return recs
}

// convertToPredictive flags time-based schedules whose failure risk
// justifies condition-driven planning.
func convertToPredictive(schedules []model.MaintenanceSchedule, nextID func() string) []model.Recommendation {
	var recs []model.Recommendation
	for _, s := range schedules {
		if s.Strategy != model.StrategyTimeBased || s.Prediction.Probability <= 0.3 {
			continue
		}
		recs = append(recs, model.Recommendation{
			ID:   nextID(),
			Kind: model.RecPredictiveConversion,
			Description: fmt.Sprintf("convert %s (equipment %s, probability %.2f) from fixed cadence to hybrid strategy",
				s.ID, s.EquipmentID, s.Prediction.Probability),
			ScheduleIDs:          []string{s.ID},
			ExpectedCostDelta:    -s.Cost.TotalEstimate * 0.1,
			ExpectedAvailability: 0.01,
		})
	}
	return recs
}

// batchBySharedSkill groups same-week schedules that need the same skill so
// one crew can cover them in a single mobilization.
func batchBySharedSkill(schedules []model.MaintenanceSchedule, nextID func() string) []model.Recommendation {
	type key struct {
		year, week int
		skill      string
	}
	groups := map[key][]model.MaintenanceSchedule{}
	for _, s := range schedules {
		year, week := s.ScheduledDate.ISOWeek()
		seen := map[string]bool{}
		for _, t := range s.Tasks {
			for _, skill := range t.RequiredSkills {
				if seen[skill] {
					continue
				}
				seen[skill] = true
				k := key{year: year, week: week, skill: skill}
				groups[k] = append(groups[k], s)
			}
		}
	}
	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year < keys[j].year
		}
		if keys[i].week != keys[j].week {
			return keys[i].week < keys[j].week
		}
		return keys[i].skill < keys[j].skill
	})

	var recs []model.Recommendation
	for _, k := range keys {
		group := groups[k]
		if len(group) < 3 {
			continue
		}
		ids := make([]string, len(group))
		var labor float64
		for i, s := range group {
			ids[i] = s.ID
			labor += s.Cost.LaborCost
		}
		sort.Strings(ids)
		recs = append(recs, model.Recommendation{
			ID:   nextID(),
			Kind: model.RecBatching,
			Description: fmt.Sprintf("batch %d interventions needing %q in week %d/%d under one crew",
				len(group), k.skill, k.week, k.year),
			ScheduleIDs:       ids,
			ExpectedCostDelta: -labor * 0.05,
		})
	}
	return recs
}

// outsourceOverflow recommends contracting out the lowest-priority work when
// the fleet workload exceeds internal capacity.
func outsourceOverflow(schedules []model.MaintenanceSchedule, analysis model.FleetAnalysis, constraints model.OptimizationConstraints, nextID func() string) []model.Recommendation {
	maxDaily := constraints.MaxDailyTechnicianHours
	if maxDaily == 0 {
		maxDaily = defaultDailyTechnicianHours
	}
	capacity := maxDaily * 30 * float64(len(analysis.TechnicianUtilization))
	var booked float64
	for _, h := range analysis.TechnicianUtilization {
		booked += h
	}
	if capacity == 0 || booked <= capacity {
		return nil
	}

	var lowPriority []model.MaintenanceSchedule
	for _, s := range schedules {
		if s.Priority == model.PriorityLow {
			lowPriority = append(lowPriority, s)
		}
	}
	if len(lowPriority) == 0 {
		return nil
	}
	sort.Slice(lowPriority, func(i, j int) bool { return lowPriority[i].ID < lowPriority[j].ID })
	ids := make([]string, len(lowPriority))
	var labor float64
	for i, s := range lowPriority {
		ids[i] = s.ID
		labor += s.Cost.LaborCost
	}
	return []model.Recommendation{{
		ID:   nextID(),
		Kind: model.RecOutsourcing,
		Description: fmt.Sprintf("outsource %d low-priority intervention(s); internal workload %.0fh exceeds capacity %.0fh",
			len(ids), booked, capacity),
		ScheduleIDs:          ids,
		ExpectedCostDelta:    labor * 0.2, // contractor premium
		ExpectedAvailability: 0.02,
	}}
}

// scoreRecommendation weights expected deltas by the requested objectives.
// Scale constants normalize the deltas into comparable magnitudes.
func scoreRecommendation(rec model.Recommendation, objectives model.ObjectiveWeights) float64 {
	score := objectives[model.ObjectiveMinimizeCost]*(-rec.ExpectedCostDelta/1000) +
		objectives[model.ObjectiveMinimizeDowntime]*(-rec.ExpectedDowntimeDelta/8) +
		objectives[model.ObjectiveMaximizeAvailability]*(rec.ExpectedAvailability*100)
	switch rec.Kind {
	case model.RecResourceReallocation:
		score += objectives[model.ObjectiveBalanceWorkload] + objectives[model.ObjectiveOptimizeResources]
	case model.RecScheduleAdjustment:
		score += objectives[model.ObjectiveEnsureCompliance]
	case model.RecBatching, model.RecTaskConsolidation:
		score += objectives[model.ObjectiveOptimizeResources] * 0.5
	}
	return score
}

func approvalsFor(rec model.Recommendation) []string {
	var approvals []string
	if rec.ExpectedCostDelta > financeApprovalThreshold || rec.ExpectedCostDelta < -financeApprovalThreshold {
		approvals = append(approvals, "finance")
	}
	if rec.Kind == model.RecOutsourcing {
		approvals = append(approvals, "procurement")
	}
	if rec.Kind == model.RecScheduleAdjustment {
		approvals = append(approvals, "operations")
	}
	return approvals
}
