// Package catalog builds the ordered maintenance task list for a piece of
// equipment. The category table is injected configuration so task sets stay
// swappable and independently testable.
package catalog

import (
	"github.com/google/uuid"

	"github.com/uptimeworks/predmaint/core/model"
)

// TaskSpec is one configured task template.
type TaskSpec struct {
	Name               string                  `json:"name" yaml:"name"`
	Description        string                  `json:"description" yaml:"description"`
	EstimatedMinutes   int                     `json:"estimated_minutes" yaml:"estimated_minutes"`
	RequiredSkills     []string                `json:"required_skills" yaml:"required_skills"`
	Tools              []string                `json:"tools" yaml:"tools"`
	Parts              []model.PartRequirement `json:"parts" yaml:"parts"`
	SafetyRequirements []string                `json:"safety_requirements" yaml:"safety_requirements"`
}

// Generator yields task lists keyed by equipment category.
type Generator struct {
	cfg   Config
	newID func() string
}

// NewGenerator builds a Generator from validated configuration.
func NewGenerator(cfg Config) *Generator {
	cfg.SetDefaults()
	return &Generator{cfg: cfg, newID: uuid.NewString}
}

// Generate returns the ordered task list for the equipment. Unknown
// categories fall back to the generic inspection/cleaning set. When the
// failure probability exceeds the configured threshold one critical
// component replacement task is appended.
func (g *Generator) Generate(eq model.Equipment, pred model.FailurePrediction) []model.MaintenanceTask {
	specs, ok := g.cfg.Categories[eq.Category]
	if !ok {
		specs = g.cfg.Fallback
	}

	tasks := make([]model.MaintenanceTask, 0, len(specs)+1)
	for _, s := range specs {
		tasks = append(tasks, g.materialize(s))
	}
	if pred.Probability > g.cfg.CriticalThreshold {
		tasks = append(tasks, g.materialize(g.cfg.CriticalReplacement))
	}
	return tasks
}

func (g *Generator) materialize(s TaskSpec) model.MaintenanceTask {
	return model.MaintenanceTask{
		ID:                 g.newID(),
		Name:               s.Name,
		Description:        s.Description,
		EstimatedMinutes:   s.EstimatedMinutes,
		RequiredSkills:     append([]string(nil), s.RequiredSkills...),
		Tools:              append([]string(nil), s.Tools...),
		Parts:              append([]model.PartRequirement(nil), s.Parts...),
		SafetyRequirements: append([]string(nil), s.SafetyRequirements...),
	}
}
