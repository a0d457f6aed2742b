package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `api:
  addr: ":9100"
scheduler:
  workers: 8
  strategy: "hybrid"
  horizon_days: 45
priorities:
  critical: 0.85
  high: 0.65
  medium: 0.35
sop:
  dollar_per_point: 75
store:
  backend: "sqlite"
  path: "engine.db"
audit:
  backend: "nop"
metrics:
  prometheus_enabled: true
  prometheus_port: "9200"
mqtt:
  enabled: false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"api.addr", cfg.API.Addr, ":9100"},
		{"api.shutdown_timeout_ms default", cfg.API.ShutdownTimeoutMS, 5000},
		{"scheduler.workers", cfg.Scheduler.Workers, 8},
		{"scheduler.strategy", cfg.Scheduler.Strategy, "hybrid"},
		{"scheduler.horizon_days", cfg.Scheduler.HorizonDays, 45},
		{"priorities.critical", cfg.Priorities.Critical, 0.85},
		{"priorities.high", cfg.Priorities.High, 0.65},
		{"sop.dollar_per_point", cfg.SOP.DollarPerPoint, 75.0},
		{"store.backend", cfg.Store.Backend, "sqlite"},
		{"store.path", cfg.Store.Path, "engine.db"},
		{"audit.backend", cfg.Audit.Backend, "nop"},
		{"metrics.prometheus_enabled", cfg.Metrics.PrometheusEnabled, true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, "9200"},
		{"mqtt.enabled", cfg.MQTT.Enabled, false},
		{"cost.overhead_rate default", cfg.Cost.OverheadRate, 0.15},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
	if len(cfg.Catalog.Categories) == 0 {
		t.Error("catalog categories not defaulted")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `api:
  addr: ":9100"
store:
  backend: "memory"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PM_API__ADDR", ":7000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.API.Addr != ":7000" {
		t.Errorf("env override ignored: addr = %s", cfg.API.Addr)
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("file value lost: backend = %s", cfg.Store.Backend)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `store:
  backend: "postgres"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "unknown store backend") {
		t.Fatalf("load error = %v, want unknown store backend", err)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected an unsupported format error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"api.addr", cfg.API.Addr, ":8080"},
		{"store.backend", cfg.Store.Backend, "memory"},
		{"audit.backend", cfg.Audit.Backend, "jsonl"},
		{"audit.path", cfg.Audit.Path, "audit.log"},
		{"priorities.critical", cfg.Priorities.Critical, 0.8},
		{"sop.dollar_per_point", cfg.SOP.DollarPerPoint, 50.0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}
