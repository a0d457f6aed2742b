package scheduler

import (
	"fmt"

	"github.com/uptimeworks/predmaint/core/model"
)

// Config defines the batch and strategy parameters loaded from
// configuration.
type Config struct {
	// Workers bounds batch parallelism.
	Workers int `json:"workers"`
	// ItemTimeoutMS is the per-equipment pipeline deadline.
	ItemTimeoutMS int `json:"item_timeout_ms"`
	// RetryBackoffMS is the pause before the single dependency retry.
	RetryBackoffMS int `json:"retry_backoff_ms"`
	// Strategy selects the default timing strategy.
	Strategy string `json:"strategy"`
	// HorizonDays caps how far ahead maintenance may be planned.
	HorizonDays int `json:"horizon_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.ItemTimeoutMS == 0 {
		c.ItemTimeoutMS = 10000
	}
	if c.RetryBackoffMS == 0 {
		c.RetryBackoffMS = 200
	}
	if c.Strategy == "" {
		c.Strategy = string(model.StrategyHybrid)
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	switch model.Strategy(c.Strategy) {
	case model.StrategyConditionBased, model.StrategyTimeBased, model.StrategyHybrid:
	default:
		return fmt.Errorf("unknown strategy %s", c.Strategy)
	}
	return nil
}
