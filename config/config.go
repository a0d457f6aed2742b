package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/uptimeworks/predmaint/core/catalog"
	"github.com/uptimeworks/predmaint/core/cost"
	"github.com/uptimeworks/predmaint/core/metrics"
	"github.com/uptimeworks/predmaint/core/model"
	"github.com/uptimeworks/predmaint/core/scheduler"
	"github.com/uptimeworks/predmaint/infra/mqtt"
)

type Config struct {
	API        APIConfig                `json:"api"`
	Scheduler  scheduler.Config         `json:"scheduler"`
	Catalog    catalog.Config           `json:"catalog"`
	Cost       cost.Config              `json:"cost"`
	Priorities model.PriorityThresholds `json:"priorities"`
	SOP        SOPConfig                `json:"sop"`
	Store      StoreConfig              `json:"store"`
	Audit      AuditConfig              `json:"audit"`
	Metrics    metrics.Config           `json:"metrics"`
	MQTT       mqtt.Config              `json:"mqtt"`
}

// Default returns a fully defaulted configuration, used when no file is
// given.
func Default() *Config {
	var cfg Config
	cfg.setDefaults()
	return &cfg
}

func (c *Config) setDefaults() {
	c.API.SetDefaults()
	c.Scheduler.SetDefaults()
	c.Catalog.SetDefaults()
	c.Cost.SetDefaults()
	if c.Priorities == (model.PriorityThresholds{}) {
		c.Priorities = model.DefaultPriorityThresholds()
	}
	c.SOP.SetDefaults()
	c.Store.SetDefaults()
	c.Audit.SetDefaults()
	c.Metrics.SetDefaults()
	c.MQTT.SetDefaults()
}

func (c *Config) validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Scheduler.Validate(); err != nil {
		return err
	}
	if err := c.Catalog.Validate(); err != nil {
		return err
	}
	if err := c.SOP.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if err := c.Audit.Validate(); err != nil {
		return err
	}
	if c.MQTT.Enabled {
		return c.MQTT.Validate()
	}
	return nil
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("PM_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "pm_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
