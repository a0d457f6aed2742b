// Package cost reconciles parts, labor, operational overhead and downtime
// cost into a single analysis per schedule.
package cost

import "github.com/uptimeworks/predmaint/core/model"

// Config tunes the estimator rates.
type Config struct {
	// OverheadRate is applied to parts+labor for operational cost.
	OverheadRate float64 `json:"overhead_rate"`
	// ReactiveMultiplier scales the preventive total to the estimated cost
	// of an equivalent reactive repair.
	ReactiveMultiplier float64 `json:"reactive_multiplier"`
	// DefaultHourlyRate prices labor for technicians without a rate.
	DefaultHourlyRate float64 `json:"default_hourly_rate"`
}

// SetDefaults applies the standard rates.
func (c *Config) SetDefaults() {
	if c.OverheadRate == 0 {
		c.OverheadRate = 0.15
	}
	if c.ReactiveMultiplier == 0 {
		c.ReactiveMultiplier = 3.5
	}
	if c.DefaultHourlyRate == 0 {
		c.DefaultHourlyRate = 75
	}
}

// Estimator computes reconciled cost analyses.
type Estimator struct {
	cfg Config
}

// NewEstimator builds an Estimator with defaulted configuration.
func NewEstimator(cfg Config) Estimator {
	cfg.SetDefaults()
	return Estimator{cfg: cfg}
}

// Estimate reconciles the four cost components. The total always equals
// their exact sum; downstream validation depends on it.
func (e Estimator) Estimate(tasks []model.MaintenanceTask, assignments []model.TechnicianAssignment, technicians []model.Technician, impact model.SOPImpact) model.CostAnalysis {
	var parts float64
	for _, t := range tasks {
		parts += t.PartsCost()
	}

	rates := make(map[string]float64, len(technicians))
	for _, t := range technicians {
		rates[t.ID] = t.HourlyRate
	}
	var labor float64
	for _, a := range assignments {
		rate := rates[a.TechnicianID]
		if rate == 0 {
			rate = e.cfg.DefaultHourlyRate
		}
		labor += a.EstimatedHours * rate
	}

	operational := (parts + labor) * e.cfg.OverheadRate
	downtime := impact.RevenueImpactEstimate
	total := parts + labor + operational + downtime

	return model.CostAnalysis{
		PartsCost:         parts,
		LaborCost:         labor,
		OperationalCost:   operational,
		DowntimeCost:      downtime,
		TotalEstimate:     total,
		SavingsVsReactive: total*e.cfg.ReactiveMultiplier - total,
	}
}
