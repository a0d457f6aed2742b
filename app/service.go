// Package app wires the engine components into a runnable service exposing
// the maintenance operations.
package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/uptimeworks/predmaint/config"
	"github.com/uptimeworks/predmaint/core/analytics"
	"github.com/uptimeworks/predmaint/core/audit"
	"github.com/uptimeworks/predmaint/core/catalog"
	"github.com/uptimeworks/predmaint/core/cost"
	"github.com/uptimeworks/predmaint/core/events"
	"github.com/uptimeworks/predmaint/core/fleetopt"
	coremetrics "github.com/uptimeworks/predmaint/core/metrics"
	"github.com/uptimeworks/predmaint/core/prediction"
	"github.com/uptimeworks/predmaint/core/registry"
	"github.com/uptimeworks/predmaint/core/scheduler"
	"github.com/uptimeworks/predmaint/core/sop"
	"github.com/uptimeworks/predmaint/core/store"
	"github.com/uptimeworks/predmaint/core/timing"
	"github.com/uptimeworks/predmaint/infra/logger"
	"github.com/uptimeworks/predmaint/infra/metrics"
	"github.com/uptimeworks/predmaint/infra/mqtt"
	"github.com/uptimeworks/predmaint/internal/eventbus"
)

// Deps are the external collaborators the engine reads from. Leave a field
// nil to fall back to a fresh in-memory registry.
type Deps struct {
	Equipment   registry.EquipmentRegistry
	Technicians registry.TechnicianDirectory
	SOPs        registry.SOPRegistry
}

// Service owns the wired engine components and their lifecycle.
type Service struct {
	Builder    *scheduler.Builder
	Optimizer  *fleetopt.Optimizer
	Aggregator *analytics.Aggregator

	store    store.Store
	audit    audit.Sink
	bus      *eventbus.Bus[events.Event]
	notifier mqtt.Notifier
	log      logger.Logger

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config, deps Deps) (*Service, error) {
	logg := logger.New("service")

	if deps.Equipment == nil || deps.Technicians == nil || deps.SOPs == nil {
		mem := registry.NewMemoryRegistry()
		if deps.Equipment == nil {
			deps.Equipment = mem
		}
		if deps.Technicians == nil {
			deps.Technicians = mem
		}
		if deps.SOPs == nil {
			deps.SOPs = mem
		}
	}

	var sinks []coremetrics.Sink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.Sink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}

	var st store.Store
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		st = s
	default:
		st = store.NewMemoryStore()
	}

	var auditSink audit.Sink = audit.NopSink{}
	if cfg.Audit.Backend == "jsonl" {
		s, err := audit.NewJSONLSink(cfg.Audit.Path)
		if err != nil {
			return nil, fmt.Errorf("audit sink: %w", err)
		}
		auditSink = s
	}

	builder := &scheduler.Builder{
		Equipment:   deps.Equipment,
		Technicians: deps.Technicians,
		SOPs:        deps.SOPs,
		Predictor:   prediction.NewHeuristicEngine(),
		Timing:      timing.Optimizer{},
		Catalog:     catalog.NewGenerator(cfg.Catalog),
		Analyzer:    sop.Analyzer{DollarPerPoint: cfg.SOP.DollarPerPoint},
		Estimator:   cost.NewEstimator(cfg.Cost),
		Priorities:  cfg.Priorities,
		Store:       st,
		Log:         logger.New("scheduler"),
		Metrics:     sink,
		Config:      cfg.Scheduler,
	}

	svc := &Service{
		Builder:     builder,
		Optimizer:   fleetopt.NewOptimizer(st, logger.New("fleetopt"), sink),
		Aggregator:  analytics.NewAggregator(st, deps.Equipment, logger.New("analytics")),
		store:       st,
		audit:       auditSink,
		bus:         eventbus.New[events.Event](),
		log:         logg,
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}

	if cfg.MQTT.Enabled {
		notifier, err := mqtt.NewPahoNotifier(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt notifier: %w", err)
		}
		svc.notifier = notifier
		go svc.forwardEvents()
	}
	return svc, nil
}

// forwardEvents pumps bus events to the notifier until the bus closes.
func (s *Service) forwardEvents() {
	sub := s.bus.Subscribe()
	for ev := range sub {
		if err := s.notifier.Notify(ev); err != nil {
			s.log.Warnf("notify %s: %v", ev.Kind, err)
		}
	}
}

// publish writes the audit record synchronously and fans the event out to
// the notification bus.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.audit.Append(ctx, audit.Event{
		ID:      uuid.NewString(),
		Time:    ev.Time,
		Action:  string(ev.Kind),
		Subject: ev.Subject,
		Detail:  ev.Detail,
	}); err != nil {
		s.log.Warnf("audit %s: %v", ev.Kind, err)
	}
	s.bus.Publish(ev)
}

// Run serves the metrics endpoint and blocks until the context is
// cancelled. The maintenance API is served separately by api/maintenance.
func (s *Service) Run(ctx context.Context) error {
	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	<-ctx.Done()
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.notifier != nil {
		s.notifier.Close()
	}
	return s.store.Close()
}
