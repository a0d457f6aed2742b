package sop

import (
	"testing"
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

var start = time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)

func procedures() []model.StandardProcedure {
	return []model.StandardProcedure{
		{ID: "sop-1", Name: "line A startup", Active: true,
			Dependencies: []model.EquipmentDependency{{EquipmentID: "eq-1", Criticality: model.CriticalityCritical}}},
		{ID: "sop-2", Name: "quality check", Active: true,
			Dependencies: []model.EquipmentDependency{{EquipmentID: "eq-1", Criticality: model.CriticalityModerate}}},
		{ID: "sop-3", Name: "daily audit", Active: true,
			Dependencies: []model.EquipmentDependency{{EquipmentID: "eq-1", Criticality: model.CriticalityMinimal}}},
		{ID: "sop-4", Name: "retired flow", Active: false,
			Dependencies: []model.EquipmentDependency{{EquipmentID: "eq-1", Criticality: model.CriticalityCritical}}},
		{ID: "sop-5", Name: "other line", Active: true,
			Dependencies: []model.EquipmentDependency{{EquipmentID: "eq-2", Criticality: model.CriticalityCritical}}},
	}
}

func TestAnalyze_ScoreAndRevenue(t *testing.T) {
	impact := Analyzer{}.Analyze(procedures(), "eq-1", start, 4)
	if len(impact.AffectedProcedures) != 3 {
		t.Fatalf("expected 3 affected procedures got %d", len(impact.AffectedProcedures))
	}
	// critical 4h*10 + moderate 2h*5 + minimal 0h*1 = 50
	if impact.OperationalImpactScore != 50 {
		t.Fatalf("expected score 50 got %f", impact.OperationalImpactScore)
	}
	if impact.RevenueImpactEstimate != 2500 {
		t.Fatalf("expected revenue 2500 got %f", impact.RevenueImpactEstimate)
	}
}

func TestAnalyze_ConfigurableRate(t *testing.T) {
	impact := Analyzer{DollarPerPoint: 80}.Analyze(procedures(), "eq-1", start, 4)
	if impact.RevenueImpactEstimate != impact.OperationalImpactScore*80 {
		t.Fatalf("rate override ignored: %f", impact.RevenueImpactEstimate)
	}
}

func TestAnalyze_RescheduleOnlyCritical(t *testing.T) {
	impact := Analyzer{}.Analyze(procedures(), "eq-1", start, 4)
	if len(impact.RescheduleRecommendations) != 1 {
		t.Fatalf("expected one recommendation got %d", len(impact.RescheduleRecommendations))
	}
	rec := impact.RescheduleRecommendations[0]
	if rec.SOPID != "sop-1" || rec.Action != "use_alternative" {
		t.Fatalf("unexpected recommendation: %+v", rec)
	}
	if len(rec.AlternativeSlots) != 2 ||
		!rec.AlternativeSlots[0].Equal(start.Add(24*time.Hour)) ||
		!rec.AlternativeSlots[1].Equal(start.Add(48*time.Hour)) {
		t.Fatalf("unexpected alternative slots: %v", rec.AlternativeSlots)
	}
}

func TestAnalyze_MonotonicInDuration(t *testing.T) {
	short := Analyzer{}.Analyze(procedures(), "eq-1", start, 2)
	long := Analyzer{}.Analyze(procedures(), "eq-1", start, 8)
	if long.OperationalImpactScore < short.OperationalImpactScore {
		t.Fatalf("score decreased with longer downtime: %f < %f",
			long.OperationalImpactScore, short.OperationalImpactScore)
	}
}

func TestAnalyze_NoDependencies(t *testing.T) {
	impact := Analyzer{}.Analyze(procedures(), "eq-unrelated", start, 4)
	if impact.OperationalImpactScore != 0 || impact.RevenueImpactEstimate != 0 {
		t.Fatalf("expected zero impact got %+v", impact)
	}
}
