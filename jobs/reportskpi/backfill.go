// Package reportskpi regenerates analytics reports over historical periods.
package reportskpi

import (
	"context"
	"time"

	"github.com/uptimeworks/predmaint/core/analytics"
	"github.com/uptimeworks/predmaint/core/model"
)

// Backfill generates one report per interval across the window, oldest
// first. Periods that hold no schedules still produce a baseline report so
// the series has no holes.
func Backfill(ctx context.Context, agg *analytics.Aggregator, window model.TimeWindow, interval time.Duration) ([]model.MaintenanceAnalyticsReport, error) {
	var reports []model.MaintenanceAnalyticsReport
	for start := window.Start; start.Before(window.End); start = start.Add(interval) {
		end := start.Add(interval)
		if end.After(window.End) {
			end = window.End
		}
		report, err := agg.Generate(ctx, model.TimeWindow{Start: start, End: end})
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}
