package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/uptimeworks/predmaint/core/metrics"
)

// PromSink records engine events in Prometheus metrics.
type PromSink struct {
	predictions   *prometheus.CounterVec
	schedules     *prometheus.CounterVec
	optimizations *prometheus.CounterVec
	pipeline      prometheus.Histogram
	scheduleCost  prometheus.Histogram
}

// NewPromSink registers engine metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maintenance_predictions_total",
		Help: "Total number of failure predictions computed",
	}, []string{"trend"})
	schedules := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "maintenance_schedules_created_total",
		Help: "Total number of maintenance schedules created",
	}, []string{"priority"})
	optimizations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleet_optimization_runs_total",
		Help: "Total number of fleet optimization runs",
	}, []string{"publishable", "applied"})
	pipeline := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_pipeline_duration_seconds",
		Help:    "Time spent building one maintenance schedule",
		Buckets: prometheus.DefBuckets,
	})
	scheduleCost := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "maintenance_schedule_cost",
		Help:    "Total estimated cost per created schedule",
		Buckets: prometheus.ExponentialBuckets(100, 2.5, 8),
	})

	sink := &PromSink{
		predictions:   predictions,
		schedules:     schedules,
		optimizations: optimizations,
		pipeline:      pipeline,
		scheduleCost:  scheduleCost,
	}
	collectors := []prometheus.Collector{predictions, schedules, optimizations, pipeline, scheduleCost}
	for i, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				sink.predictions = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				sink.schedules = are.ExistingCollector.(*prometheus.CounterVec)
			case 2:
				sink.optimizations = are.ExistingCollector.(*prometheus.CounterVec)
			case 3:
				sink.pipeline = are.ExistingCollector.(prometheus.Histogram)
			case 4:
				sink.scheduleCost = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}
	return sink, nil
}

// RecordPrediction implements the core metrics sink.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(string(ev.Trend)).Inc()
	return nil
}

// RecordSchedule implements the core metrics sink.
func (s *PromSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	s.schedules.WithLabelValues(string(ev.Priority)).Inc()
	s.pipeline.Observe(ev.PipelineTime.Seconds())
	s.scheduleCost.Observe(ev.TotalCost)
	return nil
}

// RecordOptimization implements the core metrics sink.
func (s *PromSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	s.optimizations.WithLabelValues(
		strconv.FormatBool(ev.Publishable),
		strconv.FormatBool(ev.Applied),
	).Inc()
	return nil
}

// StartPromServer serves /metrics on the given port. It blocks until the
// server stops.
func StartPromServer(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(":"+port, mux)
}
