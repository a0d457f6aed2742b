package assign

import (
	"testing"

	"github.com/uptimeworks/predmaint/core/model"
)

var testTasks = []model.MaintenanceTask{
	{ID: "t1", EstimatedMinutes: 45, RequiredSkills: []string{"electrical"}},
	{ID: "t2", EstimatedMinutes: 30, RequiredSkills: []string{"mechanical"}},
	{ID: "t3", EstimatedMinutes: 50, RequiredSkills: []string{"electrical", "mechanical"}},
}

func TestResolve_SkillIntersection(t *testing.T) {
	technicians := []model.Technician{
		{ID: "tech-1", Active: true, Specializations: []string{"electrical"}},
		{ID: "tech-2", Active: true, Specializations: []string{"plumbing"}},
	}
	assignments := Resolver{}.Resolve(technicians, testTasks)
	if len(assignments) != 1 {
		t.Fatalf("expected 1 assignment got %d", len(assignments))
	}
	a := assignments[0]
	if a.TechnicianID != "tech-1" || len(a.TaskIDs) != 2 {
		t.Fatalf("unexpected assignment: %+v", a)
	}
	// 45 + 50 minutes -> 1.6h
	if a.EstimatedHours != 1.6 {
		t.Fatalf("expected 1.6h got %f", a.EstimatedHours)
	}
}

func TestResolve_SkipsInactive(t *testing.T) {
	technicians := []model.Technician{
		{ID: "tech-1", Active: false, Specializations: []string{"electrical"}},
	}
	if assignments := (Resolver{}).Resolve(technicians, testTasks); len(assignments) != 0 {
		t.Fatalf("inactive technician assigned: %+v", assignments)
	}
}

func TestResolve_MultipleClaimantsAllowed(t *testing.T) {
	technicians := []model.Technician{
		{ID: "tech-1", Active: true, Specializations: []string{"electrical"}},
		{ID: "tech-2", Active: true, Specializations: []string{"electrical"}},
	}
	assignments := Resolver{}.Resolve(technicians, testTasks)
	if len(assignments) != 2 {
		t.Fatalf("expected both technicians to claim matching tasks got %d", len(assignments))
	}
	for _, a := range assignments {
		if len(a.TaskIDs) != 2 {
			t.Fatalf("expected t1 and t3 for %s got %v", a.TechnicianID, a.TaskIDs)
		}
	}
}

func TestResolve_NoMatchNoAssignment(t *testing.T) {
	technicians := []model.Technician{
		{ID: "tech-1", Active: true, Specializations: []string{"painting"}},
	}
	if assignments := (Resolver{}).Resolve(technicians, testTasks); assignments != nil {
		t.Fatalf("expected no assignments got %+v", assignments)
	}
}
