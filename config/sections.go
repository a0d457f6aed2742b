package config

import "fmt"

// APIConfig defines the HTTP listener settings.
type APIConfig struct {
	Addr string `json:"addr"`
	// ShutdownTimeoutMS bounds graceful shutdown.
	ShutdownTimeoutMS int `json:"shutdown_timeout_ms"`
}

// SetDefaults applies sane defaults.
func (c *APIConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.ShutdownTimeoutMS == 0 {
		c.ShutdownTimeoutMS = 5000
	}
}

// Validate checks mandatory fields.
func (c APIConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("api addr is required")
	}
	return nil
}

// SOPConfig tunes the dependency impact analyzer.
type SOPConfig struct {
	// DollarPerPoint converts operational impact points to revenue at risk.
	DollarPerPoint float64 `json:"dollar_per_point"`
}

// SetDefaults applies the standard rate.
func (c *SOPConfig) SetDefaults() {
	if c.DollarPerPoint == 0 {
		c.DollarPerPoint = 50
	}
}

// Validate checks mandatory fields.
func (c SOPConfig) Validate() error {
	if c.DollarPerPoint < 0 {
		return fmt.Errorf("dollar_per_point must not be negative")
	}
	return nil
}

// StoreConfig selects the schedule persistence backend.
type StoreConfig struct {
	// Backend selects the store type: "memory" or "sqlite".
	Backend string `json:"backend"`
	// Path is the sqlite database location.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *StoreConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.Backend == "sqlite" && c.Path == "" {
		c.Path = "predmaint.db"
	}
}

// Validate checks mandatory fields.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case "memory":
	case "sqlite":
		if c.Path == "" {
			return fmt.Errorf("sqlite store requires a path")
		}
	default:
		return fmt.Errorf("unknown store backend %s", c.Backend)
	}
	return nil
}

// AuditConfig selects the audit event sink.
type AuditConfig struct {
	// Backend selects the sink type: "nop" or "jsonl".
	Backend string `json:"backend"`
	// Path is the jsonl file location.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *AuditConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Backend == "jsonl" && c.Path == "" {
		c.Path = "audit.log"
	}
}

// Validate checks mandatory fields.
func (c AuditConfig) Validate() error {
	switch c.Backend {
	case "nop":
	case "jsonl":
		if c.Path == "" {
			return fmt.Errorf("jsonl audit sink requires a path")
		}
	default:
		return fmt.Errorf("unknown audit backend %s", c.Backend)
	}
	return nil
}
