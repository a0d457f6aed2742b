package model

import "time"

// TimeWindow bounds a period of interest.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window (inclusive start,
// exclusive end).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Hours returns the window length in hours.
func (w TimeWindow) Hours() float64 {
	return w.End.Sub(w.Start).Hours()
}

// Objective names a fleet optimization goal.
type Objective string

const (
	ObjectiveMinimizeCost         Objective = "minimize_cost"
	ObjectiveMaximizeAvailability Objective = "maximize_availability"
	ObjectiveMinimizeDowntime     Objective = "minimize_downtime"
	ObjectiveBalanceWorkload      Objective = "balance_workload"
	ObjectiveEnsureCompliance     Objective = "ensure_compliance"
	ObjectiveOptimizeResources    Objective = "optimize_resources"
)

// ObjectiveWeights assigns a relative weight to each objective. Missing
// objectives count as zero.
type ObjectiveWeights map[Objective]float64

// OptimizationConstraints bound what a proposal may change.
type OptimizationConstraints struct {
	MaxBudget                float64      `json:"max_budget,omitempty"`
	MaxConcurrentMaintenance int          `json:"max_concurrent_maintenance,omitempty"`
	MaxDailyTechnicianHours  float64      `json:"max_daily_technician_hours,omitempty"`
	BlackoutWindows          []TimeWindow `json:"blackout_windows,omitempty"`
}

// BottleneckKind identifies the constrained resource.
type BottleneckKind string

const (
	BottleneckTechnician BottleneckKind = "technician_availability"
	BottleneckParts      BottleneckKind = "parts_availability"
	BottleneckTime       BottleneckKind = "time_conflict"
	BottleneckEquipment  BottleneckKind = "equipment_conflict"
)

// Bottleneck describes a constrained resource found during analysis.
type Bottleneck struct {
	Kind     BottleneckKind `json:"kind"`
	Detail   string         `json:"detail"`
	Severity float64        `json:"severity"` // 0..1
}

// FleetAnalysis captures the current state of a schedule set.
type FleetAnalysis struct {
	ScheduleCount         int                `json:"schedule_count"`
	TotalCost             float64            `json:"total_cost"`
	TotalDowntimeHours    float64            `json:"total_downtime_hours"`
	TechnicianUtilization map[string]float64 `json:"technician_utilization"` // hours per technician
	Bottlenecks           []Bottleneck       `json:"bottlenecks,omitempty"`
}

// RecommendationKind names a class of optimization action.
type RecommendationKind string

const (
	RecScheduleAdjustment   RecommendationKind = "schedule_adjustment"
	RecResourceReallocation RecommendationKind = "resource_reallocation"
	RecTaskConsolidation    RecommendationKind = "task_consolidation"
	RecPredictiveConversion RecommendationKind = "predictive_conversion"
	RecBatching             RecommendationKind = "batching"
	RecOutsourcing          RecommendationKind = "outsourcing"
)

// Recommendation is one ranked optimization action with its expected benefit
// deltas. Negative cost deltas are savings.
type Recommendation struct {
	ID                    string             `json:"id"`
	Kind                  RecommendationKind `json:"kind"`
	Description           string             `json:"description"`
	ScheduleIDs           []string           `json:"schedule_ids,omitempty"`
	ExpectedCostDelta     float64            `json:"expected_cost_delta"`
	ExpectedDowntimeDelta float64            `json:"expected_downtime_delta_hours"`
	ExpectedAvailability  float64            `json:"expected_availability_delta"`
	Score                 float64            `json:"score"`
	RequiredApprovals     []string           `json:"required_approvals,omitempty"`
}

// ChangeSummary totals the proposal against the snapshot.
type ChangeSummary struct {
	Modified           int     `json:"modified"`
	Unchanged          int     `json:"unchanged"`
	NetCostDelta       float64 `json:"net_cost_delta"`
	AvailabilityImpact float64 `json:"availability_impact"`
}

// Proposal is the optimized schedule set. It never touches the live store
// until applied through the approval workflow.
type Proposal struct {
	Schedules   []MaintenanceSchedule `json:"schedules"`
	ModifiedIDs []string              `json:"modified_ids,omitempty"`
	Summary     ChangeSummary         `json:"summary"`
}

// ValidationResult records the gates a proposal must pass before it is
// publishable.
type ValidationResult struct {
	ConstraintCompliance     bool     `json:"constraint_compliance"`
	ResourceFeasibility      bool     `json:"resource_feasibility"`
	BusinessImpactAcceptable bool     `json:"business_impact_acceptable"`
	RiskLevelAcceptable      bool     `json:"risk_level_acceptable"`
	Issues                   []string `json:"issues,omitempty"`
}

// Passed reports whether every gate passed.
func (v ValidationResult) Passed() bool {
	return v.ConstraintCompliance && v.ResourceFeasibility &&
		v.BusinessImpactAcceptable && v.RiskLevelAcceptable
}

// RolloutPhase is one step of the phased implementation plan.
type RolloutPhase struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
}

// RolloutPlan describes how an approved proposal is put into effect.
type RolloutPlan struct {
	Phases     []RolloutPhase `json:"phases"`
	Rollback   []string       `json:"rollback"`
	Monitoring []string       `json:"monitoring"`
}

// RunStatus is the lifecycle state of an optimization run.
type RunStatus string

const (
	RunProposed RunStatus = "proposed"
	RunApplied  RunStatus = "applied"
	RunRejected RunStatus = "rejected"
)

// OptimizationRun is the immutable audit record of one fleet optimization.
// The proposal is only valid against the snapshot version it was computed
// from.
type OptimizationRun struct {
	ID              string                  `json:"id"`
	Period          TimeWindow              `json:"period"`
	Objectives      ObjectiveWeights        `json:"objectives"`
	Constraints     OptimizationConstraints `json:"constraints"`
	SnapshotVersion uint64                  `json:"snapshot_version"`
	Analysis        FleetAnalysis           `json:"analysis"`
	Recommendations []Recommendation        `json:"recommendations"`
	Proposal        Proposal                `json:"proposal"`
	Validation      ValidationResult        `json:"validation"`
	Rollout         RolloutPlan             `json:"rollout"`
	Status          RunStatus               `json:"status"`
	CreatedAt       time.Time               `json:"created_at"`
}
