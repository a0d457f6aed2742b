package fleetopt

import (
	"fmt"
	"sort"
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

// defaultDailyTechnicianHours caps one technician's workload per day when
// the constraint leaves it unset.
const defaultDailyTechnicianHours = 8.0

// defaultMaxConcurrent bounds simultaneous maintenance when the constraint
// leaves it unset.
const defaultMaxConcurrent = 3

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// analyze computes utilization, cost and bottlenecks for the snapshot.
func analyze(schedules []model.MaintenanceSchedule, period model.TimeWindow, constraints model.OptimizationConstraints) model.FleetAnalysis {
	a := model.FleetAnalysis{
		ScheduleCount:         len(schedules),
		TechnicianUtilization: map[string]float64{},
	}

	perDay := map[time.Time]int{}
	perEquipmentDay := map[string]int{}
	partDemand := map[string]int{}
	for _, s := range schedules {
		a.TotalCost += s.Cost.TotalEstimate
		a.TotalDowntimeHours += s.EstimatedDurationHours
		for _, asn := range s.Assignments {
			a.TechnicianUtilization[asn.TechnicianID] += asn.EstimatedHours
		}
		day := dayOf(s.ScheduledDate)
		perDay[day]++
		perEquipmentDay[s.EquipmentID+"|"+day.Format("2006-01-02")]++
		for _, t := range s.Tasks {
			for _, p := range t.Parts {
				partDemand[p.Name] += p.Quantity
			}
		}
	}

	maxDaily := constraints.MaxDailyTechnicianHours
	if maxDaily == 0 {
		maxDaily = defaultDailyTechnicianHours
	}
	days := period.Hours() / 24
	if days < 1 {
		days = 1
	}
	capacity := maxDaily * days

	techIDs := make([]string, 0, len(a.TechnicianUtilization))
	for id := range a.TechnicianUtilization {
		techIDs = append(techIDs, id)
	}
	sort.Strings(techIDs)
	for _, id := range techIDs {
		hours := a.TechnicianUtilization[id]
		if hours > capacity*0.85 {
			severity := hours / capacity
			if severity > 1 {
				severity = 1
			}
			a.Bottlenecks = append(a.Bottlenecks, model.Bottleneck{
				Kind:     model.BottleneckTechnician,
				Detail:   fmt.Sprintf("technician %s booked %.1fh of %.1fh capacity", id, hours, capacity),
				Severity: severity,
			})
		}
	}

	maxConcurrent := constraints.MaxConcurrentMaintenance
	if maxConcurrent == 0 {
		maxConcurrent = defaultMaxConcurrent
	}
	days2 := make([]time.Time, 0, len(perDay))
	for d := range perDay {
		days2 = append(days2, d)
	}
	sort.Slice(days2, func(i, j int) bool { return days2[i].Before(days2[j]) })
	for _, d := range days2 {
		if n := perDay[d]; n > maxConcurrent {
			a.Bottlenecks = append(a.Bottlenecks, model.Bottleneck{
				Kind:     model.BottleneckTime,
				Detail:   fmt.Sprintf("%d interventions scheduled on %s (limit %d)", n, d.Format("2006-01-02"), maxConcurrent),
				Severity: float64(n-maxConcurrent) / float64(maxConcurrent),
			})
		}
	}

	keys := make([]string, 0, len(perEquipmentDay))
	for k := range perEquipmentDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if perEquipmentDay[k] > 1 {
			a.Bottlenecks = append(a.Bottlenecks, model.Bottleneck{
				Kind:     model.BottleneckEquipment,
				Detail:   fmt.Sprintf("multiple interventions on the same equipment/day: %s", k),
				Severity: 0.5,
			})
		}
	}

	parts := make([]string, 0, len(partDemand))
	for p := range partDemand {
		parts = append(parts, p)
	}
	sort.Strings(parts)
	for _, p := range parts {
		if partDemand[p] >= 5 {
			a.Bottlenecks = append(a.Bottlenecks, model.Bottleneck{
				Kind:     model.BottleneckParts,
				Detail:   fmt.Sprintf("part %q demanded %d times in the window", p, partDemand[p]),
				Severity: 0.4,
			})
		}
	}

	return a
}
