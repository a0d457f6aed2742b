package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/uptimeworks/predmaint/core/metrics"
	"github.com/uptimeworks/predmaint/infra/logger"
)

// InfluxSink writes engine events to an InfluxDB instance using the official
// client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB
// endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	base := strings.TrimSuffix(cfg.InfluxURL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns
// a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.Sink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPrediction writes the prediction as a line protocol point.
func (s *InfluxSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("failure_prediction").
		AddTag("equipment_id", ev.EquipmentID).
		AddTag("trend", string(ev.Trend)).
		AddField("probability", ev.Probability).
		AddField("rul_days", ev.RULDays).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSchedule writes the schedule creation event.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_created").
		AddTag("equipment_id", ev.EquipmentID).
		AddTag("priority", string(ev.Priority)).
		AddTag("schedule_id", ev.ScheduleID).
		AddField("total_cost", ev.TotalCost).
		AddField("duration_hours", ev.DurationHours).
		AddField("pipeline_ms", float64(ev.PipelineTime.Milliseconds())).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordOptimization writes the optimization run event.
func (s *InfluxSink) RecordOptimization(ev coremetrics.OptimizationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("optimization_run").
		AddTag("run_id", ev.RunID).
		AddTag("publishable", strconv.FormatBool(ev.Publishable)).
		AddTag("applied", strconv.FormatBool(ev.Applied)).
		AddField("recommendations", ev.Recommendations).
		AddField("net_cost_delta", ev.NetCostDelta).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close shuts down the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
