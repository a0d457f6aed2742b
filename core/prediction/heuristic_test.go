package prediction

import (
	"context"
	"testing"
	"time"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *HeuristicEngine {
	return &HeuristicEngine{Clock: func() time.Time { return testNow }}
}

func TestPredict_AgingEquipment(t *testing.T) {
	eq := model.Equipment{
		ID:          "eq-1",
		InstallDate: testNow.AddDate(-12, 0, 0),
		UsageHours:  25000,
		History:     []model.MaintenanceEvent{{Date: testNow.AddDate(0, -6, 0), Type: "corrective"}},
	}
	pred, err := testEngine().Predict(context.Background(), eq)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if pred.Probability < 0.75 || pred.Probability > 0.8 {
		t.Fatalf("expected probability near the 0.8 ceiling got %f", pred.Probability)
	}
	if pred.Trend != model.TrendRapidDecline {
		t.Fatalf("expected rapid_decline got %s", pred.Trend)
	}
	if pred.RULDays < 30 {
		t.Fatalf("RUL below floor: %f", pred.RULDays)
	}
	if len(pred.WarningSignals) == 0 {
		t.Fatal("expected warning signals for aged, heavily used equipment")
	}
}

func TestPredict_NewEquipment(t *testing.T) {
	eq := model.Equipment{
		ID:          "eq-new",
		InstallDate: testNow.AddDate(0, -1, 0),
		UsageHours:  0,
		History: []model.MaintenanceEvent{
			{Date: testNow.AddDate(0, 0, -20)}, {Date: testNow.AddDate(0, 0, -15)},
			{Date: testNow.AddDate(0, 0, -10)}, {Date: testNow.AddDate(0, 0, -5)},
		},
	}
	pred, err := testEngine().Predict(context.Background(), eq)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if pred.Probability > 0.2 {
		t.Fatalf("expected low probability for new equipment got %f", pred.Probability)
	}
	if pred.RULDays <= 100 {
		t.Fatalf("expected RUL well above the floor got %f", pred.RULDays)
	}
	if pred.Trend != model.TrendStable {
		t.Fatalf("expected stable got %s", pred.Trend)
	}
}

func TestPredict_Monotonic(t *testing.T) {
	base := model.Equipment{
		ID:          "eq-m",
		InstallDate: testNow.AddDate(-4, 0, 0),
		UsageHours:  8000,
		History:     []model.MaintenanceEvent{{Date: testNow.AddDate(0, -1, 0)}},
	}
	engine := testEngine()
	basePred, err := engine.Predict(context.Background(), base)
	if err != nil {
		t.Fatalf("predict: %v", err)
	}

	older := base
	older.InstallDate = testNow.AddDate(-8, 0, 0)
	olderPred, _ := engine.Predict(context.Background(), older)
	if olderPred.Probability < basePred.Probability {
		t.Fatalf("probability dropped with age: %f < %f", olderPred.Probability, basePred.Probability)
	}

	busier := base
	busier.UsageHours = 16000
	busierPred, _ := engine.Predict(context.Background(), busier)
	if busierPred.Probability < basePred.Probability {
		t.Fatalf("probability dropped with usage: %f < %f", busierPred.Probability, basePred.Probability)
	}
}

func TestPredict_BoundsAndFloor(t *testing.T) {
	cases := []model.Equipment{
		{ID: "a"},
		{ID: "b", InstallDate: testNow.AddDate(-30, 0, 0), UsageHours: 100000},
		{ID: "c", InstallDate: testNow.AddDate(-1, 0, 0), UsageHours: 10},
	}
	engine := testEngine()
	for _, eq := range cases {
		pred, err := engine.Predict(context.Background(), eq)
		if err != nil {
			t.Fatalf("predict %s: %v", eq.ID, err)
		}
		if pred.Probability < 0 || pred.Probability > 1 {
			t.Fatalf("%s: probability out of range: %f", eq.ID, pred.Probability)
		}
		if pred.RULDays < 30 {
			t.Fatalf("%s: RUL below 30 day floor: %f", eq.ID, pred.RULDays)
		}
	}
}

func TestPredict_Deterministic(t *testing.T) {
	eq := model.Equipment{ID: "eq-d", InstallDate: testNow.AddDate(-6, 0, 0), UsageHours: 12000}
	engine := testEngine()
	first, _ := engine.Predict(context.Background(), eq)
	second, _ := engine.Predict(context.Background(), eq)
	if first.Probability != second.Probability || first.RULDays != second.RULDays {
		t.Fatalf("identical inputs diverged: %+v vs %+v", first, second)
	}
}

func TestPredict_DefaultsLowerConfidence(t *testing.T) {
	engine := testEngine()
	full, _ := engine.Predict(context.Background(), model.Equipment{
		ID:          "eq-f",
		InstallDate: testNow.AddDate(-3, 0, 0),
		UsageHours:  5000,
		History:     []model.MaintenanceEvent{{Date: testNow.AddDate(0, -2, 0)}},
	})
	bare, _ := engine.Predict(context.Background(), model.Equipment{ID: "eq-b"})
	if full.Confidence != 0.9 {
		t.Fatalf("expected full confidence 0.9 got %f", full.Confidence)
	}
	if bare.Confidence >= full.Confidence {
		t.Fatalf("defaulted inputs must lower confidence: %f", bare.Confidence)
	}
	if bare.Confidence < 0.5 {
		t.Fatalf("confidence below floor: %f", bare.Confidence)
	}
}

func TestPredict_NegativeUsage(t *testing.T) {
	_, err := testEngine().Predict(context.Background(), model.Equipment{ID: "eq-n", UsageHours: -5})
	if !errs.IsKind(err, errs.Computation) {
		t.Fatalf("expected computation error got %v", err)
	}
}
