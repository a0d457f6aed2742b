package prediction

import (
	"context"
	"math"
	"time"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

// Defaults applied when the asset registry has no telemetry for a field.
const (
	defaultAgeYears   = 5.0
	defaultUsageHours = 8760.0
	defaultEventCount = 4
)

// HeuristicEngine scores failure risk from age, cumulative usage and
// maintenance frequency. The formula is monotonic: increasing any risk
// factor never decreases the probability.
type HeuristicEngine struct {
	// Clock supplies the reference time; defaults to time.Now. Injected so
	// predictions are reproducible in tests.
	Clock func() time.Time
}

// NewHeuristicEngine returns the default heuristic predictor.
func NewHeuristicEngine() *HeuristicEngine {
	return &HeuristicEngine{Clock: time.Now}
}

func (e *HeuristicEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

// Predict implements Engine.
func (e *HeuristicEngine) Predict(ctx context.Context, eq model.Equipment) (model.FailurePrediction, error) {
	if err := ctx.Err(); err != nil {
		return model.FailurePrediction{}, errs.Wrap(errs.Dependency, err, "prediction cancelled")
	}
	if eq.UsageHours < 0 {
		return model.FailurePrediction{}, errs.E(errs.Computation, "equipment %s has negative usage hours", eq.ID)
	}

	now := e.now()
	defaulted := 0

	age := eq.AgeYears(now)
	if age < 0 {
		age = defaultAgeYears
		defaulted++
	}
	// Zero usage on equipment with a known install date means genuinely
	// unused, not missing telemetry.
	usage := eq.UsageHours
	if usage == 0 && eq.InstallDate.IsZero() {
		usage = defaultUsageHours
		defaulted++
	}
	events := len(eq.History)
	if events == 0 {
		events = defaultEventCount
		defaulted++
	}

	ageFactor := math.Min(age/10, 1)
	usageFactor := math.Min(usage/20000, 1)
	maintenanceFactor := math.Max(0, 1-float64(events)/12)

	probability := (ageFactor*0.4 + usageFactor*0.4 + maintenanceFactor*0.2) * 0.8
	rul := math.Max(30, (1-probability)*730)

	var trend model.Trend
	switch {
	case probability > 0.7:
		trend = model.TrendRapidDecline
	case probability > 0.4:
		trend = model.TrendSlowDecline
	default:
		trend = model.TrendStable
	}

	return model.FailurePrediction{
		EquipmentID:    eq.ID,
		Probability:    probability,
		RULDays:        rul,
		Trend:          trend,
		WarningSignals: warningSignals(ageFactor, usageFactor, maintenanceFactor),
		Confidence:     confidence(defaulted),
		GeneratedAt:    now,
	}, nil
}

func warningSignals(age, usage, maintenance float64) []string {
	var signals []string
	if age >= 0.8 {
		signals = append(signals, "equipment nearing end of design life")
	}
	if usage >= 0.8 {
		signals = append(signals, "cumulative usage above 80% of rated hours")
	}
	if maintenance >= 0.5 {
		signals = append(signals, "sparse maintenance history")
	}
	return signals
}

// confidence degrades by a fixed step per defaulted input field. The floor
// keeps heuristic output usable even with no telemetry at all.
func confidence(defaulted int) float64 {
	c := 0.9 - 0.15*float64(defaulted)
	if c < 0.5 {
		c = 0.5
	}
	return c
}
