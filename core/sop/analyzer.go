// Package sop quantifies the impact of planned maintenance downtime on
// dependent standard operating procedures.
package sop

import (
	"time"

	"github.com/uptimeworks/predmaint/core/model"
)

// defaultDollarPerPoint converts impact score points to revenue estimate.
const defaultDollarPerPoint = 50.0

// Criticality weights for the operational impact score.
const (
	weightCritical = 10.0
	weightModerate = 5.0
	weightMinimal  = 1.0
)

// Analyzer computes SOP impact for a maintenance window.
type Analyzer struct {
	// DollarPerPoint converts impact points to a revenue estimate; zero
	// selects the default rate.
	DollarPerPoint float64
}

func (a Analyzer) rate() float64 {
	if a.DollarPerPoint > 0 {
		return a.DollarPerPoint
	}
	return defaultDollarPerPoint
}

// Analyze walks the active procedures depending on the equipment and scores
// the downtime impact. The score is monotonic non-decreasing in both the
// downtime duration and the dependency criticality.
func (a Analyzer) Analyze(procedures []model.StandardProcedure, equipmentID string, start time.Time, durationHours float64) model.SOPImpact {
	impact := model.SOPImpact{}
	for _, proc := range procedures {
		if !proc.Active {
			continue
		}
		dep, ok := proc.DependencyOn(equipmentID)
		if !ok {
			continue
		}

		var downtime, weight float64
		switch dep.Criticality {
		case model.CriticalityCritical:
			downtime = durationHours
			weight = weightCritical
		case model.CriticalityModerate:
			downtime = durationHours * 0.5
			weight = weightModerate
		default:
			downtime = 0
			weight = weightMinimal
		}

		impact.AffectedProcedures = append(impact.AffectedProcedures, model.AffectedProcedure{
			SOPID:               proc.ID,
			Name:                proc.Name,
			Criticality:         dep.Criticality,
			DowntimeImpactHours: downtime,
		})
		impact.OperationalImpactScore += downtime * weight

		if dep.Criticality == model.CriticalityCritical {
			impact.RescheduleRecommendations = append(impact.RescheduleRecommendations, model.RescheduleRecommendation{
				SOPID:  proc.ID,
				Action: "use_alternative",
				AlternativeSlots: []time.Time{
					start.Add(24 * time.Hour),
					start.Add(48 * time.Hour),
				},
			})
		}
	}
	impact.RevenueImpactEstimate = impact.OperationalImpactScore * a.rate()
	return impact
}
