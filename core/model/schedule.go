package model

import (
	"fmt"
	"math"
	"time"
)

// Strategy selects how the scheduled date is derived.
type Strategy string

const (
	StrategyConditionBased Strategy = "condition_based"
	StrategyTimeBased      Strategy = "time_based"
	StrategyHybrid         Strategy = "hybrid"
)

// Status is the lifecycle state of a maintenance schedule.
type Status string

const (
	StatusScheduled   Status = "scheduled"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusCancelled   Status = "cancelled"
	StatusRescheduled Status = "rescheduled"
)

var statusTransitions = map[Status][]Status{
	StatusScheduled:   {StatusInProgress, StatusCancelled, StatusRescheduled},
	StatusInProgress:  {StatusCompleted, StatusCancelled, StatusRescheduled},
	StatusRescheduled: {StatusInProgress, StatusCancelled},
}

// CanTransition reports whether the status may move to next. Completed and
// cancelled are terminal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PartRequirement is a spare part consumed by a task.
type PartRequirement struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	UnitCost float64 `json:"unit_cost"`
}

// MaintenanceTask is a single unit of work within a schedule.
type MaintenanceTask struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Description        string            `json:"description,omitempty"`
	EstimatedMinutes   int               `json:"estimated_minutes"`
	RequiredSkills     []string          `json:"required_skills"`
	Tools              []string          `json:"tools,omitempty"`
	Parts              []PartRequirement `json:"parts,omitempty"`
	SafetyRequirements []string          `json:"safety_requirements,omitempty"`
}

// PartsCost returns the summed part cost of the task.
func (t MaintenanceTask) PartsCost() float64 {
	var total float64
	for _, p := range t.Parts {
		total += p.UnitCost * float64(p.Quantity)
	}
	return total
}

// TechnicianAssignment matches a technician to the schedule tasks that
// intersect their specializations. A task may appear in several assignments;
// no mutual exclusivity is enforced.
type TechnicianAssignment struct {
	TechnicianID   string   `json:"technician_id"`
	Name           string   `json:"name"`
	TaskIDs        []string `json:"task_ids"`
	EstimatedHours float64  `json:"estimated_hours"`
}

// AffectedProcedure is an SOP impacted by planned downtime.
type AffectedProcedure struct {
	SOPID               string      `json:"sop_id"`
	Name                string      `json:"name"`
	Criticality         Criticality `json:"criticality"`
	DowntimeImpactHours float64     `json:"estimated_downtime_impact_hours"`
}

// RescheduleRecommendation suggests moving a critical procedure to an
// alternative slot while the equipment is down.
type RescheduleRecommendation struct {
	SOPID            string      `json:"sop_id"`
	Action           string      `json:"action"`
	AlternativeSlots []time.Time `json:"alternative_slots"`
}

// SOPImpact quantifies the dependent-procedure impact of a schedule.
type SOPImpact struct {
	AffectedProcedures        []AffectedProcedure        `json:"affected_procedures"`
	OperationalImpactScore    float64                    `json:"operational_impact_score"`
	RevenueImpactEstimate     float64                    `json:"revenue_impact_estimate"`
	RescheduleRecommendations []RescheduleRecommendation `json:"reschedule_recommendations,omitempty"`
}

// CostAnalysis reconciles the cost components of a schedule.
type CostAnalysis struct {
	PartsCost         float64 `json:"parts_cost"`
	LaborCost         float64 `json:"labor_cost"`
	OperationalCost   float64 `json:"operational_cost"`
	DowntimeCost      float64 `json:"downtime_cost"`
	TotalEstimate     float64 `json:"total_cost_estimate"`
	SavingsVsReactive float64 `json:"cost_savings_vs_reactive"`
}

// Reconciled reports whether the total matches the four components exactly.
func (c CostAnalysis) Reconciled() bool {
	sum := c.PartsCost + c.LaborCost + c.OperationalCost + c.DowntimeCost
	return math.Abs(sum-c.TotalEstimate) < 1e-9
}

// MaintenanceSchedule is the persisted outcome of one scheduling pipeline
// run. It references exactly one piece of equipment.
type MaintenanceSchedule struct {
	ID                     string                 `json:"id"`
	EquipmentID            string                 `json:"equipment_id"`
	Status                 Status                 `json:"status"`
	Priority               Priority               `json:"priority_level"`
	Strategy               Strategy               `json:"strategy"`
	ScheduledDate          time.Time              `json:"scheduled_date"`
	EstimatedDurationHours float64                `json:"estimated_duration_hours"`
	Prediction             FailurePrediction      `json:"prediction"`
	Tasks                  []MaintenanceTask      `json:"tasks"`
	Assignments            []TechnicianAssignment `json:"assignments"`
	SOPImpact              SOPImpact              `json:"sop_impact"`
	Cost                   CostAnalysis           `json:"cost_analysis"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
}

// Validate checks the schedule invariants that must hold for every persisted
// record.
func (s MaintenanceSchedule) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("schedule id is required")
	}
	if s.EquipmentID == "" {
		return fmt.Errorf("schedule must reference one equipment id")
	}
	if !s.Cost.Reconciled() {
		return fmt.Errorf("total cost %.4f does not equal component sum", s.Cost.TotalEstimate)
	}
	if s.Prediction.RULDays < 30 {
		return fmt.Errorf("remaining useful life %.1f below 30 day floor", s.Prediction.RULDays)
	}
	seen := make(map[string]bool, len(s.Tasks))
	for _, t := range s.Tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %s", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}
