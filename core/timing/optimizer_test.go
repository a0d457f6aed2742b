package timing

import (
	"testing"
	"time"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

var testNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func testOptimizer() Optimizer {
	return Optimizer{Clock: func() time.Time { return testNow }}
}

func TestOptimize_MinimumLeadTime(t *testing.T) {
	opt := testOptimizer()
	eq := model.Equipment{ID: "eq-1", History: []model.MaintenanceEvent{{Date: testNow.AddDate(0, 0, -85)}}}
	pred := model.FailurePrediction{Probability: 0.95, RULDays: 30}

	for _, strategy := range []model.Strategy{model.StrategyConditionBased, model.StrategyTimeBased, model.StrategyHybrid} {
		plan, err := opt.Optimize(eq, pred, strategy, 0)
		if err != nil {
			t.Fatalf("%s: %v", strategy, err)
		}
		if plan.ScheduledDate.Before(testNow.AddDate(0, 0, 7)) {
			t.Fatalf("%s scheduled %s, inside the 7 day lead window", strategy, plan.ScheduledDate)
		}
	}
}

func TestOptimize_ConditionBased(t *testing.T) {
	opt := testOptimizer()
	plan, err := opt.Optimize(model.Equipment{ID: "eq-1"}, model.FailurePrediction{Probability: 0.6, RULDays: 100}, model.StrategyConditionBased, 0)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	want := testNow.Add(time.Duration(70 * 24 * float64(time.Hour)))
	if !plan.ScheduledDate.Equal(want) {
		t.Fatalf("expected %s got %s", want, plan.ScheduledDate)
	}
	if plan.EstimatedDurationHours != 4 {
		t.Fatalf("expected 4h for probability above 0.5 got %f", plan.EstimatedDurationHours)
	}

	low, _ := opt.Optimize(model.Equipment{ID: "eq-1"}, model.FailurePrediction{Probability: 0.2, RULDays: 400}, model.StrategyConditionBased, 0)
	if low.EstimatedDurationHours != 2 {
		t.Fatalf("expected 2h for low probability got %f", low.EstimatedDurationHours)
	}
}

func TestOptimize_TimeBasedCadence(t *testing.T) {
	opt := testOptimizer()
	eq := model.Equipment{ID: "eq-1", History: []model.MaintenanceEvent{{Date: testNow.AddDate(0, 0, -30)}}}
	plan, err := opt.Optimize(eq, model.FailurePrediction{}, model.StrategyTimeBased, 0)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	want := testNow.AddDate(0, 0, 60)
	if !plan.ScheduledDate.Equal(want) {
		t.Fatalf("expected 60 days out (%s) got %s", want, plan.ScheduledDate)
	}
	if plan.EstimatedDurationHours != 3 {
		t.Fatalf("expected fixed 3h got %f", plan.EstimatedDurationHours)
	}
}

func TestOptimize_HybridDefault(t *testing.T) {
	opt := testOptimizer()
	eq := model.Equipment{ID: "eq-1", History: []model.MaintenanceEvent{{Date: testNow.AddDate(0, 0, -45)}}}
	pred := model.FailurePrediction{Probability: 0.7, RULDays: 200}

	named, err := opt.Optimize(eq, pred, model.StrategyHybrid, 0)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	implied, err := opt.Optimize(eq, pred, "", 0)
	if err != nil {
		t.Fatalf("optimize default: %v", err)
	}
	if !named.ScheduledDate.Equal(implied.ScheduledDate) {
		t.Fatal("empty strategy must behave as hybrid")
	}
	// score = 0.7*0.7 + 0.5*0.3 = 0.64 > 0.6
	if named.EstimatedDurationHours != 5 {
		t.Fatalf("expected 5h for high score got %f", named.EstimatedDurationHours)
	}
}

func TestOptimize_HorizonCap(t *testing.T) {
	opt := testOptimizer()
	plan, err := opt.Optimize(model.Equipment{ID: "eq-1"}, model.FailurePrediction{Probability: 0.1, RULDays: 700}, model.StrategyConditionBased, 14)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if plan.ScheduledDate.After(testNow.AddDate(0, 0, 14)) {
		t.Fatalf("horizon cap ignored: %s", plan.ScheduledDate)
	}
	if plan.ScheduledDate.Before(testNow.AddDate(0, 0, 7)) {
		t.Fatalf("cap broke the lead window: %s", plan.ScheduledDate)
	}
}

func TestOptimize_UnknownStrategy(t *testing.T) {
	_, err := testOptimizer().Optimize(model.Equipment{ID: "eq-1"}, model.FailurePrediction{}, "crystal_ball", 0)
	if !errs.IsKind(err, errs.Validation) {
		t.Fatalf("expected validation error got %v", err)
	}
}
