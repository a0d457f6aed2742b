package catalog

import (
	"fmt"
	"testing"

	"github.com/uptimeworks/predmaint/core/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
}

func TestGenerate_KnownCategory(t *testing.T) {
	gen := NewGenerator(Config{})
	tasks := gen.Generate(model.Equipment{ID: "eq-1", Category: "hvac"}, model.FailurePrediction{Probability: 0.2})
	if len(tasks) == 0 {
		t.Fatal("expected tasks for hvac category")
	}
	for _, task := range tasks {
		if task.Name == "" || task.EstimatedMinutes == 0 {
			t.Fatalf("incomplete task materialized: %+v", task)
		}
	}
}

func TestGenerate_UnknownCategoryFallback(t *testing.T) {
	gen := NewGenerator(Config{})
	tasks := gen.Generate(model.Equipment{ID: "eq-1", Category: "teleporter"}, model.FailurePrediction{Probability: 0.2})
	if len(tasks) != 2 {
		t.Fatalf("expected the generic inspection/cleaning pair got %d tasks", len(tasks))
	}
	if tasks[0].Name != "general inspection" || tasks[1].Name != "cleaning" {
		t.Fatalf("unexpected fallback tasks: %s, %s", tasks[0].Name, tasks[1].Name)
	}
}

func TestGenerate_CriticalReplacementAppend(t *testing.T) {
	gen := NewGenerator(Config{})
	base := gen.Generate(model.Equipment{ID: "eq-1", Category: "pump"}, model.FailurePrediction{Probability: 0.6})
	elevated := gen.Generate(model.Equipment{ID: "eq-1", Category: "pump"}, model.FailurePrediction{Probability: 0.61})
	if len(elevated) != len(base)+1 {
		t.Fatalf("expected one appended task above threshold: %d vs %d", len(elevated), len(base))
	}
	last := elevated[len(elevated)-1]
	if last.PartsCost() == 0 {
		t.Fatal("critical replacement must carry a non-zero parts cost")
	}
	lockout := false
	for _, s := range last.SafetyRequirements {
		if s == "lockout/tagout" {
			lockout = true
		}
	}
	if !lockout {
		t.Fatalf("critical replacement missing lockout/tagout: %v", last.SafetyRequirements)
	}
}

func TestGenerate_UniqueTaskIDs(t *testing.T) {
	gen := NewGenerator(Config{})
	gen.newID = sequentialIDs()
	tasks := gen.Generate(model.Equipment{ID: "eq-1", Category: "compressor"}, model.FailurePrediction{Probability: 0.9})
	seen := map[string]bool{}
	for _, task := range tasks {
		if seen[task.ID] {
			t.Fatalf("duplicate task id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestConfig_ValidateRejectsEmptyCategory(t *testing.T) {
	cfg := Config{Categories: map[string][]TaskSpec{"hvac": {}}}
	cfg.SetDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure for empty category")
	}
}
