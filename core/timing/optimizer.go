// Package timing picks the scheduled date and duration for a maintenance
// intervention from the failure prediction and the configured strategy.
package timing

import (
	"math"
	"time"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

// minLeadDays is the shortest allowed lead time. No strategy may schedule
// closer than this, and never into the past.
const minLeadDays = 7

// defaultCadenceDays is the fixed time-based maintenance interval.
const defaultCadenceDays = 90

// Plan is the outcome of timing optimization.
type Plan struct {
	ScheduledDate          time.Time `json:"scheduled_date"`
	EstimatedDurationHours float64   `json:"estimated_duration_hours"`
}

// Optimizer computes maintenance timing. The zero value uses time.Now.
type Optimizer struct {
	Clock func() time.Time
}

func (o Optimizer) now() time.Time {
	if o.Clock != nil {
		return o.Clock()
	}
	return time.Now()
}

// Optimize returns the planned date and duration for the given strategy.
// horizonDays caps how far out a date may be planned; zero means no cap.
func (o Optimizer) Optimize(eq model.Equipment, pred model.FailurePrediction, strategy model.Strategy, horizonDays int) (Plan, error) {
	now := o.now()
	last, ok := eq.LastMaintenance()
	if !ok {
		last = now.AddDate(0, 0, -defaultCadenceDays)
	}

	var daysUntil, duration float64
	switch strategy {
	case model.StrategyConditionBased:
		daysUntil = math.Max(minLeadDays, pred.RULDays*0.7)
		duration = 2
		if pred.Probability > 0.5 {
			duration = 4
		}
	case model.StrategyTimeBased:
		daysUntil = defaultCadenceDays - now.Sub(last).Hours()/24
		daysUntil = math.Max(minLeadDays, daysUntil)
		duration = 3
	case model.StrategyHybrid, "":
		daysSince := now.Sub(last).Hours() / 24
		score := pred.Probability*0.7 + (daysSince/defaultCadenceDays)*0.3
		daysUntil = math.Max(minLeadDays, (1-score)*defaultCadenceDays)
		switch {
		case score > 0.6:
			duration = 5
		case score > 0.3:
			duration = 3
		default:
			duration = 2
		}
	default:
		return Plan{}, errs.E(errs.Validation, "unknown scheduling strategy %q", strategy)
	}

	if horizonDays > 0 && daysUntil > float64(horizonDays) {
		daysUntil = math.Max(minLeadDays, float64(horizonDays))
	}

	return Plan{
		ScheduledDate:          now.Add(time.Duration(daysUntil * 24 * float64(time.Hour))),
		EstimatedDurationHours: duration,
	}, nil
}
