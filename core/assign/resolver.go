// Package assign matches active technicians to maintenance tasks by skill.
package assign

import (
	"math"

	"github.com/uptimeworks/predmaint/core/model"
)

// Resolver builds technician assignments for a task list.
type Resolver struct{}

// Resolve returns one assignment per technician with at least one matching
// task. A task whose skills intersect several technicians is claimed by all
// of them; mutual exclusivity is intentionally not enforced and callers must
// treat estimated hours as per-technician upper bounds.
func (Resolver) Resolve(technicians []model.Technician, tasks []model.MaintenanceTask) []model.TechnicianAssignment {
	var assignments []model.TechnicianAssignment
	for _, tech := range technicians {
		if !tech.Active {
			continue
		}
		var taskIDs []string
		var minutes int
		for _, task := range tasks {
			if skillsMatch(tech.Specializations, task.RequiredSkills) {
				taskIDs = append(taskIDs, task.ID)
				minutes += task.EstimatedMinutes
			}
		}
		if len(taskIDs) == 0 {
			continue
		}
		assignments = append(assignments, model.TechnicianAssignment{
			TechnicianID:   tech.ID,
			Name:           tech.Name,
			TaskIDs:        taskIDs,
			EstimatedHours: roundHours(minutes),
		})
	}
	return assignments
}

func skillsMatch(specializations, required []string) bool {
	for _, r := range required {
		for _, s := range specializations {
			if r == s {
				return true
			}
		}
	}
	return false
}

// roundHours converts minutes to hours rounded to one decimal.
func roundHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}
