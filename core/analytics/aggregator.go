// Package analytics rolls historical schedules and equipment records up into
// effectiveness and ROI reports. Every metric is computed from stored data;
// where a series is not yet measured the aggregator falls back to the fixed
// baselines below, never to synthetic values.
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/stat"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/logger"
	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/core/registry"
	"github.com/uptimeworks/predmaint/core/store"
)

// Fixed baselines used when a measured series is empty. They stand in for
// sensor-fed data that is not wired yet and are replaced per equipment as
// soon as real history exists.
const (
	baselinePerformanceRate = 0.90
	baselineQualityRate     = 0.98
	baselineMTBFHours       = 1460
	baselineMTTRHours       = 3
	baselineReliability     = 0.90
	baselineAccuracy        = 0.75
	baselineErrorRate       = 0.10
)

// Benchmark targets the fleet is compared against.
const (
	targetAvailability = 0.95
	targetOEE          = 0.85
	targetSuccessRate  = 0.90
	targetMTTRHours    = 4.0
)

// driftAccuracyFloor is the observed accuracy below which the predictor is
// flagged as drifting.
const driftAccuracyFloor = 0.60

// Aggregator computes maintenance analytics reports over a period.
type Aggregator struct {
	Store     store.Store
	Equipment registry.EquipmentRegistry
	Log       logger.Logger

	Clock func() time.Time
	NewID func() string
}

// NewAggregator wires an aggregator with default clock and id generation.
func NewAggregator(st store.Store, eq registry.EquipmentRegistry, log logger.Logger) *Aggregator {
	return &Aggregator{
		Store:     st,
		Equipment: eq,
		Log:       log,
		Clock:     time.Now,
		NewID:     uuid.NewString,
	}
}

// Generate builds the report for the period from stored schedules and
// equipment history, persists it and returns it. Reports are append-only.
func (a *Aggregator) Generate(ctx context.Context, period model.TimeWindow) (model.MaintenanceAnalyticsReport, error) {
	if period.End.Before(period.Start) || period.End.Equal(period.Start) {
		return model.MaintenanceAnalyticsReport{}, errs.E(errs.Validation, "analytics period end must be after start")
	}

	schedules, err := a.Store.Schedules(ctx, store.ScheduleQuery{From: period.Start, To: period.End})
	if err != nil {
		return model.MaintenanceAnalyticsReport{}, errs.Wrap(errs.Dependency, err, "read schedules")
	}
	equipment, err := a.Equipment.ListEquipment(ctx)
	if err != nil {
		return model.MaintenanceAnalyticsReport{}, errs.Wrap(errs.Dependency, err, "read equipment registry")
	}

	report := model.MaintenanceAnalyticsReport{
		ID:                   a.NewID(),
		Period:               period,
		EquipmentPerformance: equipmentPerformance(equipment, schedules, period),
		Effectiveness:        effectiveness(schedules),
		ModelPerformance:     modelPerformance(schedules),
		ResourceUtilization:  resourceUtilization(schedules),
		SOPIntegration:       sopIntegration(schedules),
		CostBenefit:          costBenefit(schedules, period),
		GeneratedAt:          a.Clock(),
	}
	report.Opportunities = opportunities(report.EquipmentPerformance)
	report.Benchmark = benchmark(report)

	if err := a.Store.SaveReport(ctx, report); err != nil {
		return model.MaintenanceAnalyticsReport{}, errs.Wrap(errs.Dependency, err, "persist report")
	}
	a.Log.Infof("analytics report %s: %d schedules over %d equipment units",
		report.ID, len(schedules), len(report.EquipmentPerformance))
	return report, nil
}

func equipmentPerformance(equipment []model.Equipment, schedules []model.MaintenanceSchedule, period model.TimeWindow) []model.EquipmentPerformance {
	byEquipment := map[string][]model.MaintenanceSchedule{}
	for _, s := range schedules {
		byEquipment[s.EquipmentID] = append(byEquipment[s.EquipmentID], s)
	}
	sort.Slice(equipment, func(i, j int) bool { return equipment[i].ID < equipment[j].ID })

	perf := make([]model.EquipmentPerformance, 0, len(equipment))
	for _, eq := range equipment {
		own := byEquipment[eq.ID]

		mtbf := float64(baselineMTBFHours)
		if eq.UsageHours > 0 && len(eq.History) > 0 {
			mtbf = eq.UsageHours / float64(len(eq.History))
		}

		mttr := float64(baselineMTTRHours)
		var repairHours []float64
		for _, s := range own {
			if s.Status == model.StatusCompleted {
				repairHours = append(repairHours, s.EstimatedDurationHours)
			}
		}
		if len(repairHours) > 0 {
			mttr = stat.Mean(repairHours, nil)
		}

		availability := mtbf / (mtbf + mttr)

		reliability := baselineReliability
		var probs []float64
		for _, s := range own {
			probs = append(probs, s.Prediction.Probability)
		}
		if len(probs) > 0 {
			reliability = 1 - stat.Mean(probs, nil)
		}

		var totalCost float64
		for _, s := range own {
			totalCost += s.Cost.TotalEstimate
		}
		costPerHour := 0.0
		if h := period.Hours(); h > 0 {
			costPerHour = totalCost / h
		}

		perf = append(perf, model.EquipmentPerformance{
			EquipmentID:  eq.ID,
			OEE:          availability * baselinePerformanceRate * baselineQualityRate,
			MTBFHours:    mtbf,
			MTTRHours:    mttr,
			Availability: availability,
			Reliability:  reliability,
			CostPerHour:  costPerHour,
		})
	}
	return perf
}

func effectiveness(schedules []model.MaintenanceSchedule) model.MaintenanceEffectiveness {
	var eff model.MaintenanceEffectiveness
	type daily struct {
		day  time.Time
		cost float64
	}
	costByDay := map[time.Time]float64{}
	for _, s := range schedules {
		switch s.Status {
		case model.StatusCompleted:
			eff.CompletedCount++
		case model.StatusCancelled:
			eff.CancelledCount++
		}
		d := s.ScheduledDate.Truncate(24 * time.Hour)
		costByDay[d] += s.Cost.TotalEstimate
	}
	if terminal := eff.CompletedCount + eff.CancelledCount; terminal > 0 {
		eff.SuccessRate = float64(eff.CompletedCount) / float64(terminal)
	}

	days := make([]daily, 0, len(costByDay))
	for d, c := range costByDay {
		days = append(days, daily{day: d, cost: c})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].day.Before(days[j].day) })
	xs := make([]float64, len(days))
	ys := make([]float64, len(days))
	for i, d := range days {
		eff.CostTrend = append(eff.CostTrend, model.TrendPoint{Date: d.day, Value: d.cost})
		xs[i] = float64(i)
		ys[i] = d.cost
	}
	if len(days) >= 2 {
		_, slope := stat.LinearRegression(xs, ys, nil, false)
		eff.CostTrendSlope = slope
	}
	return eff
}

// modelPerformance scores the predictor against terminal schedule outcomes.
// A prediction is positive when probability exceeds 0.5; completion of the
// intervention is treated as the prediction having been warranted.
func modelPerformance(schedules []model.MaintenanceSchedule) model.ModelPerformance {
	var tp, fp, tn, fn int
	for _, s := range schedules {
		if s.Status != model.StatusCompleted && s.Status != model.StatusCancelled {
			continue
		}
		positive := s.Prediction.Probability > 0.5
		warranted := s.Status == model.StatusCompleted
		switch {
		case positive && warranted:
			tp++
		case positive && !warranted:
			fp++
		case !positive && warranted:
			fn++
		default:
			tn++
		}
	}
	total := tp + fp + tn + fn
	if total == 0 {
		return model.ModelPerformance{
			Accuracy:          baselineAccuracy,
			FalsePositiveRate: baselineErrorRate,
			FalseNegativeRate: baselineErrorRate,
		}
	}
	mp := model.ModelPerformance{
		Accuracy: float64(tp+tn) / float64(total),
	}
	if fp+tn > 0 {
		mp.FalsePositiveRate = float64(fp) / float64(fp+tn)
	}
	if fn+tp > 0 {
		mp.FalseNegativeRate = float64(fn) / float64(fn+tp)
	}
	mp.DriftDetected = mp.Accuracy < driftAccuracyFloor
	return mp
}

func resourceUtilization(schedules []model.MaintenanceSchedule) model.ResourceUtilization {
	assigned := map[string]float64{}
	completed := map[string]float64{}
	unassigned := 0
	partQty := 0
	partNames := map[string]bool{}
	for _, s := range schedules {
		if len(s.Assignments) == 0 {
			unassigned++
		}
		for _, a := range s.Assignments {
			assigned[a.TechnicianID] += a.EstimatedHours
			if s.Status == model.StatusCompleted {
				completed[a.TechnicianID] += a.EstimatedHours
			}
		}
		for _, t := range s.Tasks {
			for _, p := range t.Parts {
				partQty += p.Quantity
				partNames[p.Name] = true
			}
		}
	}

	ids := make([]string, 0, len(assigned))
	for id := range assigned {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	techs := make([]model.TechnicianUtilization, 0, len(ids))
	for _, id := range ids {
		efficiency := 1.0
		if assigned[id] > 0 {
			efficiency = completed[id] / assigned[id]
		}
		techs = append(techs, model.TechnicianUtilization{
			TechnicianID:  id,
			AssignedHours: assigned[id],
			Efficiency:    efficiency,
		})
	}

	ru := model.ResourceUtilization{Technicians: techs}
	if len(partNames) > 0 {
		ru.PartsTurnover = float64(partQty) / float64(len(partNames))
	}
	if len(schedules) > 0 {
		ru.OutsourcingRatio = float64(unassigned) / float64(len(schedules))
	}
	return ru
}

func sopIntegration(schedules []model.MaintenanceSchedule) model.SOPIntegration {
	var si model.SOPIntegration
	var scores []float64
	for _, s := range schedules {
		si.ImpactedProcedures += len(s.SOPImpact.AffectedProcedures)
		si.TotalRevenueAtRisk += s.SOPImpact.RevenueImpactEstimate
		scores = append(scores, s.SOPImpact.OperationalImpactScore)
	}
	if len(scores) > 0 {
		si.AvgImpactScore = stat.Mean(scores, nil)
	}
	return si
}

func costBenefit(schedules []model.MaintenanceSchedule, period model.TimeWindow) model.CostBenefit {
	var cb model.CostBenefit
	for _, s := range schedules {
		cb.TotalCost += s.Cost.TotalEstimate
		cb.EstimatedSavings += s.Cost.SavingsVsReactive
	}
	if cb.TotalCost > 0 && cb.EstimatedSavings > 0 {
		cb.ROI = cb.EstimatedSavings / cb.TotalCost
		periodMonths := period.Hours() / (24 * 30)
		cb.PaybackMonths = periodMonths * cb.TotalCost / cb.EstimatedSavings
	}
	return cb
}

// opportunities ranks the costliest, least reliable equipment as follow-up
// candidates. Potential is the annualized spend a ten percent improvement
// would recover.
func opportunities(perf []model.EquipmentPerformance) []model.ImprovementOpportunity {
	ranked := make([]model.EquipmentPerformance, len(perf))
	copy(ranked, perf)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].CostPerHour != ranked[j].CostPerHour {
			return ranked[i].CostPerHour > ranked[j].CostPerHour
		}
		if ranked[i].Reliability != ranked[j].Reliability {
			return ranked[i].Reliability < ranked[j].Reliability
		}
		return ranked[i].EquipmentID < ranked[j].EquipmentID
	})

	var opps []model.ImprovementOpportunity
	for i, p := range ranked {
		if i >= 3 || p.CostPerHour == 0 {
			break
		}
		opps = append(opps, model.ImprovementOpportunity{
			Rank:        i + 1,
			EquipmentID: p.EquipmentID,
			Description: "reduce maintenance spend on the fleet's costliest unit per operating hour",
			Potential:   p.CostPerHour * 24 * 365 * 0.10,
		})
	}
	return opps
}

func benchmark(report model.MaintenanceAnalyticsReport) []model.BenchmarkGap {
	var availability, oee, mttr []float64
	for _, p := range report.EquipmentPerformance {
		availability = append(availability, p.Availability)
		oee = append(oee, p.OEE)
		mttr = append(mttr, p.MTTRHours)
	}
	gap := func(metric string, actual, target float64) model.BenchmarkGap {
		return model.BenchmarkGap{Metric: metric, Actual: actual, Target: target, Gap: target - actual}
	}
	var gaps []model.BenchmarkGap
	if len(availability) > 0 {
		gaps = append(gaps,
			gap("availability", stat.Mean(availability, nil), targetAvailability),
			gap("oee", stat.Mean(oee, nil), targetOEE),
			gap("mttr_hours", stat.Mean(mttr, nil), targetMTTRHours),
		)
	}
	gaps = append(gaps, gap("success_rate", report.Effectiveness.SuccessRate, targetSuccessRate))
	return gaps
}
