package fleetopt

import (
	"fmt"
	"sort"
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

const (
	// maxCostIncreaseRatio caps how much a proposal may raise total cost
	// relative to the snapshot before the business gate fails.
	maxCostIncreaseRatio = 0.10
	// minAvailabilityDelta is the lowest acceptable projected availability
	// impact.
	minAvailabilityDelta = -0.05
)

// validate runs the four proposal gates against the snapshot.
func validate(snapshot []model.MaintenanceSchedule, proposal model.Proposal, constraints model.OptimizationConstraints) model.ValidationResult {
	result := model.ValidationResult{
		ConstraintCompliance:     true,
		ResourceFeasibility:      true,
		BusinessImpactAcceptable: true,
		RiskLevelAcceptable:      true,
	}

	maxConcurrent := constraints.MaxConcurrentMaintenance
	if maxConcurrent == 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	dayLoad := map[time.Time]int{}
	var totalCost float64
	for _, s := range proposal.Schedules {
		dayLoad[dayOf(s.ScheduledDate)]++
		totalCost += s.Cost.TotalEstimate
		if inBlackout(s.ScheduledDate, constraints.BlackoutWindows) {
			result.ConstraintCompliance = false
			result.Issues = append(result.Issues,
				fmt.Sprintf("schedule %s lands inside a blackout window", s.ID))
		}
	}
	days := make([]time.Time, 0, len(dayLoad))
	for d := range dayLoad {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	for _, d := range days {
		if dayLoad[d] > maxConcurrent {
			result.ConstraintCompliance = false
			result.Issues = append(result.Issues,
				fmt.Sprintf("%d concurrent interventions on %s exceed the limit of %d",
					dayLoad[d], d.Format("2006-01-02"), maxConcurrent))
		}
	}
	if constraints.MaxBudget > 0 && totalCost > constraints.MaxBudget {
		result.ConstraintCompliance = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("total cost %.2f exceeds budget %.2f", totalCost, constraints.MaxBudget))
	}

	maxDaily := constraints.MaxDailyTechnicianHours
	if maxDaily == 0 {
		maxDaily = defaultDailyTechnicianHours
	}
	techDayHours := map[string]map[time.Time]float64{}
	for _, s := range proposal.Schedules {
		d := dayOf(s.ScheduledDate)
		for _, a := range s.Assignments {
			if techDayHours[a.TechnicianID] == nil {
				techDayHours[a.TechnicianID] = map[time.Time]float64{}
			}
			techDayHours[a.TechnicianID][d] += a.EstimatedHours
		}
	}
	techIDs := make([]string, 0, len(techDayHours))
	for id := range techDayHours {
		techIDs = append(techIDs, id)
	}
	sort.Strings(techIDs)
	for _, id := range techIDs {
		for d, hours := range techDayHours[id] {
			if hours > maxDaily {
				result.ResourceFeasibility = false
				result.Issues = append(result.Issues,
					fmt.Sprintf("technician %s booked %.1fh on %s, over the %.1fh daily cap",
						id, hours, d.Format("2006-01-02"), maxDaily))
			}
		}
	}

	var snapshotCost float64
	for _, s := range snapshot {
		snapshotCost += s.Cost.TotalEstimate
	}
	if snapshotCost > 0 && proposal.Summary.NetCostDelta > snapshotCost*maxCostIncreaseRatio {
		result.BusinessImpactAcceptable = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("net cost delta %.2f exceeds %.0f%% of snapshot cost %.2f",
				proposal.Summary.NetCostDelta, maxCostIncreaseRatio*100, snapshotCost))
	}
	if proposal.Summary.AvailabilityImpact < minAvailabilityDelta {
		result.BusinessImpactAcceptable = false
		result.Issues = append(result.Issues,
			fmt.Sprintf("projected availability impact %.3f below floor %.3f",
				proposal.Summary.AvailabilityImpact, minAvailabilityDelta))
	}

	// Risk gate: critical work must never slip later than planned.
	original := map[string]time.Time{}
	for _, s := range snapshot {
		original[s.ID] = s.ScheduledDate
	}
	for _, s := range proposal.Schedules {
		if s.Priority != model.PriorityCritical {
			continue
		}
		if was, ok := original[s.ID]; ok && s.ScheduledDate.After(was) {
			result.RiskLevelAcceptable = false
			result.Issues = append(result.Issues,
				fmt.Sprintf("critical schedule %s delayed from %s to %s",
					s.ID, was.Format("2006-01-02"), s.ScheduledDate.Format("2006-01-02")))
		}
	}
	return result
}
