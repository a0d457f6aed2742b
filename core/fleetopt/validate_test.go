package fleetopt

import (
	"strings"
	"testing"
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

func TestValidate_CleanProposalPasses(t *testing.T) {
	june10 := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	snapshot := []model.MaintenanceSchedule{
		optSchedule("sch-a", "eq-1", june10),
		optSchedule("sch-b", "eq-2", june10.AddDate(0, 0, 1)),
	}
	proposal := model.Proposal{Schedules: snapshot}

	result := validate(snapshot, proposal, model.OptimizationConstraints{})
	if !result.Passed() {
		t.Fatalf("clean proposal failed validation: %v", result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", result.Issues)
	}
}

func TestValidate_BlackoutViolation(t *testing.T) {
	june10 := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	snapshot := []model.MaintenanceSchedule{optSchedule("sch-a", "eq-1", june10)}
	constraints := model.OptimizationConstraints{
		BlackoutWindows: []model.TimeWindow{{
			Start: june10.AddDate(0, 0, -1),
			End:   june10.AddDate(0, 0, 1),
		}},
	}

	result := validate(snapshot, model.Proposal{Schedules: snapshot}, constraints)
	if result.ConstraintCompliance {
		t.Fatal("expected constraint compliance gate to fail")
	}
	if len(result.Issues) == 0 || !strings.Contains(result.Issues[0], "blackout") {
		t.Fatalf("issues = %v, want a blackout violation", result.Issues)
	}
}

func TestValidate_ConcurrencyOverLimit(t *testing.T) {
	june10 := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	var snapshot []model.MaintenanceSchedule
	for _, id := range []string{"sch-a", "sch-b", "sch-c", "sch-d"} {
		snapshot = append(snapshot, optSchedule(id, "eq-"+id, june10))
	}

	result := validate(snapshot, model.Proposal{Schedules: snapshot}, model.OptimizationConstraints{})
	if result.ConstraintCompliance {
		t.Fatal("four same-day interventions must fail the default concurrency limit")
	}
}

func TestValidate_BudgetExceeded(t *testing.T) {
	june10 := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	snapshot := []model.MaintenanceSchedule{optSchedule("sch-a", "eq-1", june10)}
	constraints := model.OptimizationConstraints{MaxBudget: 100}

	result := validate(snapshot, model.Proposal{Schedules: snapshot}, constraints)
	if result.ConstraintCompliance {
		t.Fatal("expected budget gate to fail for a 650 cost against a 100 budget")
	}
}

func TestValidate_TechnicianOverDailyCap(t *testing.T) {
	june10 := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	s := optSchedule("sch-a", "eq-1", june10)
	s.Assignments = []model.TechnicianAssignment{{
		TechnicianID:   "tech-1",
		Name:           "Dana",
		TaskIDs:        []string{"sch-a-t1"},
		EstimatedHours: 10,
	}}
	snapshot := []model.MaintenanceSchedule{s}

	result := validate(snapshot, model.Proposal{Schedules: snapshot}, model.OptimizationConstraints{})
	if result.ResourceFeasibility {
		t.Fatal("10h on one day must fail the 8h default cap")
	}
}

func TestValidate_BusinessImpactGates(t *testing.T) {
	june10 := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	snapshot := []model.MaintenanceSchedule{optSchedule("sch-a", "eq-1", june10)}

	costly := model.Proposal{
		Schedules: snapshot,
		Summary:   model.ChangeSummary{NetCostDelta: 200},
	}
	result := validate(snapshot, costly, model.OptimizationConstraints{})
	if result.BusinessImpactAcceptable {
		t.Fatal("a 200 cost increase on a 650 snapshot exceeds the 10% cap")
	}

	unavailable := model.Proposal{
		Schedules: snapshot,
		Summary:   model.ChangeSummary{AvailabilityImpact: -0.06},
	}
	result = validate(snapshot, unavailable, model.OptimizationConstraints{})
	if result.BusinessImpactAcceptable {
		t.Fatal("availability impact below -0.05 must fail the business gate")
	}
}

func TestValidate_CriticalDelayRejected(t *testing.T) {
	june10 := time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)
	critical := optSchedule("sch-a", "eq-1", june10)
	critical.Priority = model.PriorityCritical
	snapshot := []model.MaintenanceSchedule{critical}

	delayed := critical
	delayed.ScheduledDate = june10.AddDate(0, 0, 2)
	proposal := model.Proposal{Schedules: []model.MaintenanceSchedule{delayed}}

	result := validate(snapshot, proposal, model.OptimizationConstraints{})
	if result.RiskLevelAcceptable {
		t.Fatal("delaying a critical schedule must fail the risk gate")
	}

	// Pulling the same schedule earlier is acceptable.
	earlier := critical
	earlier.ScheduledDate = june10.AddDate(0, 0, -2)
	result = validate(snapshot, model.Proposal{Schedules: []model.MaintenanceSchedule{earlier}}, model.OptimizationConstraints{})
	if !result.RiskLevelAcceptable {
		t.Fatalf("advancing a critical schedule failed the risk gate: %v", result.Issues)
	}
}

func TestRolloutPlan_TruncatedOnFailedValidation(t *testing.T) {
	proposal := model.Proposal{Summary: model.ChangeSummary{Modified: 2}}

	passed := model.ValidationResult{
		ConstraintCompliance:     true,
		ResourceFeasibility:      true,
		BusinessImpactAcceptable: true,
		RiskLevelAcceptable:      true,
	}
	plan := rolloutPlan(proposal, passed)
	if len(plan.Phases) != 3 {
		t.Fatalf("phases = %d, want 3", len(plan.Phases))
	}
	if plan.Phases[0].Name != "validation" || plan.Phases[2].Name != "fleet_wide" {
		t.Fatalf("unexpected phase names: %+v", plan.Phases)
	}
	if len(plan.Rollback) == 0 || len(plan.Monitoring) == 0 {
		t.Fatal("rollout plan must carry rollback and monitoring steps")
	}

	failed := passed
	failed.ConstraintCompliance = false
	plan = rolloutPlan(proposal, failed)
	if len(plan.Phases) != 1 {
		t.Fatalf("failed validation phases = %d, want 1", len(plan.Phases))
	}
}
