package model

import "time"

// EquipmentPerformance aggregates reliability metrics for one piece of
// equipment over the report period.
type EquipmentPerformance struct {
	EquipmentID  string  `json:"equipment_id"`
	OEE          float64 `json:"oee"`
	MTBFHours    float64 `json:"mtbf_hours"`
	MTTRHours    float64 `json:"mttr_hours"`
	Availability float64 `json:"availability"`
	Reliability  float64 `json:"reliability"`
	CostPerHour  float64 `json:"cost_per_hour"`
}

// TrendPoint is one sample of a time series.
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// MaintenanceEffectiveness summarizes outcome quality.
type MaintenanceEffectiveness struct {
	CompletedCount int          `json:"completed_count"`
	CancelledCount int          `json:"cancelled_count"`
	SuccessRate    float64      `json:"success_rate"`
	CostTrend      []TrendPoint `json:"cost_trend,omitempty"`
	CostTrendSlope float64      `json:"cost_trend_slope"`
}

// ModelPerformance evaluates the failure predictor against observed
// outcomes.
type ModelPerformance struct {
	Accuracy          float64 `json:"accuracy"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
	FalseNegativeRate float64 `json:"false_negative_rate"`
	DriftDetected     bool    `json:"drift_detected"`
}

// TechnicianUtilization captures per-technician efficiency.
type TechnicianUtilization struct {
	TechnicianID  string  `json:"technician_id"`
	AssignedHours float64 `json:"assigned_hours"`
	Efficiency    float64 `json:"efficiency"`
}

// ResourceUtilization summarizes people and parts usage.
type ResourceUtilization struct {
	Technicians      []TechnicianUtilization `json:"technicians"`
	PartsTurnover    float64                 `json:"parts_turnover"`
	OutsourcingRatio float64                 `json:"outsourcing_ratio"`
}

// SOPIntegration measures how maintenance interacts with dependent
// procedures.
type SOPIntegration struct {
	ImpactedProcedures int     `json:"impacted_procedures"`
	AvgImpactScore     float64 `json:"avg_impact_score"`
	TotalRevenueAtRisk float64 `json:"total_revenue_at_risk"`
}

// CostBenefit quantifies the preventive program return.
type CostBenefit struct {
	TotalCost        float64 `json:"total_cost"`
	EstimatedSavings float64 `json:"estimated_savings"`
	ROI              float64 `json:"roi"`
	PaybackMonths    float64 `json:"payback_months"`
}

// ImprovementOpportunity is a ranked follow-up candidate.
type ImprovementOpportunity struct {
	Rank        int     `json:"rank"`
	EquipmentID string  `json:"equipment_id,omitempty"`
	Description string  `json:"description"`
	Potential   float64 `json:"potential"` // estimated annual saving
}

// BenchmarkGap compares a metric to its target.
type BenchmarkGap struct {
	Metric string  `json:"metric"`
	Actual float64 `json:"actual"`
	Target float64 `json:"target"`
	Gap    float64 `json:"gap"`
}

// MaintenanceAnalyticsReport is the append-only rollup over historical
// schedules and records for one period.
type MaintenanceAnalyticsReport struct {
	ID                   string                   `json:"id"`
	Period               TimeWindow               `json:"period"`
	EquipmentPerformance []EquipmentPerformance   `json:"equipment_performance"`
	Effectiveness        MaintenanceEffectiveness `json:"effectiveness"`
	ModelPerformance     ModelPerformance         `json:"model_performance"`
	ResourceUtilization  ResourceUtilization      `json:"resource_utilization"`
	SOPIntegration       SOPIntegration           `json:"sop_integration"`
	CostBenefit          CostBenefit              `json:"cost_benefit"`
	Opportunities        []ImprovementOpportunity `json:"opportunities,omitempty"`
	Benchmark            []BenchmarkGap           `json:"benchmark,omitempty"`
	GeneratedAt          time.Time                `json:"generated_at"`
}
