package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/uptimeworks/predmaint/core/model"
)

// Config holds the category to task-list table together with the critical
// replacement rules.
type Config struct {
	Categories map[string][]TaskSpec `json:"categories" yaml:"categories"`
	Fallback   []TaskSpec            `json:"fallback" yaml:"fallback"`
	// CriticalThreshold is the failure probability above which the critical
	// replacement task is appended.
	CriticalThreshold   float64  `json:"critical_threshold" yaml:"critical_threshold"`
	CriticalReplacement TaskSpec `json:"critical_replacement" yaml:"critical_replacement"`
}

// SetDefaults fills in the built-in category table for any unset section.
func (c *Config) SetDefaults() {
	if c.Categories == nil {
		c.Categories = defaultCategories()
	}
	if len(c.Fallback) == 0 {
		c.Fallback = []TaskSpec{
			{Name: "general inspection", Description: "visual and functional inspection", EstimatedMinutes: 45, RequiredSkills: []string{"general"}, Tools: []string{"inspection kit"}},
			{Name: "cleaning", Description: "clean housing, vents and accessible internals", EstimatedMinutes: 30, RequiredSkills: []string{"general"}, Tools: []string{"cleaning kit"}},
		}
	}
	if c.CriticalThreshold == 0 {
		c.CriticalThreshold = 0.6
	}
	if c.CriticalReplacement.Name == "" {
		c.CriticalReplacement = TaskSpec{
			Name:             "critical component replacement",
			Description:      "replace the highest-risk wear component before failure",
			EstimatedMinutes: 120,
			RequiredSkills:   []string{"mechanical", "electrical"},
			Tools:            []string{"torque wrench", "multimeter"},
			Parts: []model.PartRequirement{
				{Name: "critical wear component", Quantity: 1, UnitCost: 450},
			},
			SafetyRequirements: []string{"lockout/tagout", "ppe"},
		}
	}
}

// Validate rejects unusable task tables.
func (c Config) Validate() error {
	if c.CriticalThreshold < 0 || c.CriticalThreshold > 1 {
		return fmt.Errorf("critical_threshold must be within [0,1]")
	}
	for cat, specs := range c.Categories {
		if len(specs) == 0 {
			return fmt.Errorf("category %s has no tasks", cat)
		}
		for _, s := range specs {
			if s.Name == "" {
				return fmt.Errorf("category %s contains an unnamed task", cat)
			}
			if s.EstimatedMinutes <= 0 {
				return fmt.Errorf("task %s in category %s needs a positive estimate", s.Name, cat)
			}
		}
	}
	if c.CriticalReplacement.Name != "" && len(c.CriticalReplacement.Parts) == 0 {
		return fmt.Errorf("critical replacement task must carry a non-zero parts cost")
	}
	return nil
}

func defaultCategories() map[string][]TaskSpec {
	return map[string][]TaskSpec{
		"hvac": {
			{Name: "filter replacement", Description: "replace air filters", EstimatedMinutes: 30, RequiredSkills: []string{"hvac"}, Tools: []string{"screwdriver set"}, Parts: []model.PartRequirement{{Name: "air filter", Quantity: 2, UnitCost: 25}}},
			{Name: "coil cleaning", Description: "clean evaporator and condenser coils", EstimatedMinutes: 60, RequiredSkills: []string{"hvac"}, Tools: []string{"coil cleaner", "fin comb"}},
			{Name: "refrigerant check", Description: "verify charge and inspect for leaks", EstimatedMinutes: 45, RequiredSkills: []string{"hvac", "refrigeration"}, Tools: []string{"manifold gauge"}, SafetyRequirements: []string{"ppe"}},
		},
		"pump": {
			{Name: "seal inspection", Description: "inspect mechanical seals for wear and leakage", EstimatedMinutes: 40, RequiredSkills: []string{"mechanical"}, Tools: []string{"inspection kit"}},
			{Name: "impeller check", Description: "check impeller clearance and balance", EstimatedMinutes: 60, RequiredSkills: []string{"mechanical"}, Tools: []string{"dial indicator"}},
			{Name: "lubrication", Description: "lubricate bearings", EstimatedMinutes: 20, RequiredSkills: []string{"mechanical"}, Parts: []model.PartRequirement{{Name: "bearing grease", Quantity: 1, UnitCost: 18}}},
		},
		"conveyor": {
			{Name: "belt tension check", Description: "measure and adjust belt tension", EstimatedMinutes: 30, RequiredSkills: []string{"mechanical"}, Tools: []string{"tension meter"}},
			{Name: "roller inspection", Description: "inspect rollers and idlers for wear", EstimatedMinutes: 45, RequiredSkills: []string{"mechanical"}},
			{Name: "drive alignment", Description: "align drive and tail pulleys", EstimatedMinutes: 50, RequiredSkills: []string{"mechanical"}, Tools: []string{"laser alignment tool"}, SafetyRequirements: []string{"lockout/tagout"}},
		},
		"compressor": {
			{Name: "oil change", Description: "replace compressor oil and filter", EstimatedMinutes: 45, RequiredSkills: []string{"mechanical"}, Parts: []model.PartRequirement{{Name: "compressor oil", Quantity: 4, UnitCost: 22}, {Name: "oil filter", Quantity: 1, UnitCost: 35}}},
			{Name: "valve inspection", Description: "inspect intake and discharge valves", EstimatedMinutes: 60, RequiredSkills: []string{"mechanical"}, SafetyRequirements: []string{"depressurize system"}},
			{Name: "vibration analysis", Description: "record and review vibration signature", EstimatedMinutes: 30, RequiredSkills: []string{"condition monitoring"}, Tools: []string{"vibration analyzer"}},
		},
		"electrical": {
			{Name: "thermal imaging", Description: "scan panels and connections for hot spots", EstimatedMinutes: 40, RequiredSkills: []string{"electrical"}, Tools: []string{"thermal camera"}, SafetyRequirements: []string{"arc flash ppe"}},
			{Name: "connection torque check", Description: "verify torque on bus and breaker connections", EstimatedMinutes: 50, RequiredSkills: []string{"electrical"}, Tools: []string{"torque wrench"}, SafetyRequirements: []string{"lockout/tagout", "arc flash ppe"}},
			{Name: "insulation test", Description: "megger test on feeders", EstimatedMinutes: 45, RequiredSkills: []string{"electrical"}, Tools: []string{"insulation tester"}, SafetyRequirements: []string{"lockout/tagout"}},
		},
	}
}

// LoadConfig loads a catalog Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return DecodeConfig(f, ext)
}

// DecodeConfig reads from r to decode a catalog Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg, nil
}
