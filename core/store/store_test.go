package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

var storeNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func storeSchedule(id, eqID string, date time.Time, status model.Status) model.MaintenanceSchedule {
	return model.MaintenanceSchedule{
		ID:                     id,
		EquipmentID:            eqID,
		Status:                 status,
		Priority:               model.PriorityMedium,
		Strategy:               model.StrategyConditionBased,
		ScheduledDate:          date,
		EstimatedDurationHours: 4,
		Prediction: model.FailurePrediction{
			EquipmentID: eqID,
			Probability: 0.5,
			RULDays:     120,
			Trend:       model.TrendSlowDecline,
			Confidence:  0.8,
			GeneratedAt: storeNow,
		},
		Cost: model.CostAnalysis{
			PartsCost:     50,
			LaborCost:     300,
			DowntimeCost:  250,
			TotalEstimate: 600,
		},
		CreatedAt: storeNow,
		UpdatedAt: storeNow,
	}
}

func openMemory(t *testing.T) Store {
	t.Helper()
	return NewMemoryStore()
}

func openSQLite(t *testing.T) Store {
	t.Helper()
	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "predmaint.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return st
}

func TestMemoryStore(t *testing.T) { runStoreConformance(t, openMemory) }
func TestSQLiteStore(t *testing.T) { runStoreConformance(t, openSQLite) }

func runStoreConformance(t *testing.T, open func(t *testing.T) Store) {
	t.Run("schedule roundtrip and version", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)

		v0, err := st.Version(ctx)
		if err != nil {
			t.Fatalf("Version: %v", err)
		}
		s := storeSchedule("sch-1", "eq-1", storeNow.AddDate(0, 0, 5), model.StatusScheduled)
		if err := st.SaveSchedule(ctx, s); err != nil {
			t.Fatalf("SaveSchedule: %v", err)
		}
		got, err := st.Schedule(ctx, "sch-1")
		if err != nil {
			t.Fatalf("Schedule: %v", err)
		}
		if got.EquipmentID != "eq-1" || got.Status != model.StatusScheduled {
			t.Fatalf("roundtrip mismatch: %+v", got)
		}
		if !got.Cost.Reconciled() {
			t.Fatal("cost analysis lost precision in the roundtrip")
		}
		v1, err := st.Version(ctx)
		if err != nil {
			t.Fatalf("Version: %v", err)
		}
		if v1 != v0+1 {
			t.Fatalf("version after save = %d, want %d", v1, v0+1)
		}
	})

	t.Run("schedule not found", func(t *testing.T) {
		st := open(t)
		_, err := st.Schedule(context.Background(), "missing")
		if errs.KindOf(err) != errs.NotFound {
			t.Fatalf("err = %v, want kind %s", err, errs.NotFound)
		}
	})

	t.Run("rejects unreconciled cost", func(t *testing.T) {
		st := open(t)
		s := storeSchedule("sch-bad", "eq-1", storeNow, model.StatusScheduled)
		s.Cost.TotalEstimate = 999
		err := st.SaveSchedule(context.Background(), s)
		if errs.KindOf(err) != errs.Validation {
			t.Fatalf("err = %v, want kind %s", err, errs.Validation)
		}
	})

	t.Run("query filters", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		fixtures := []model.MaintenanceSchedule{
			storeSchedule("sch-1", "eq-1", storeNow.AddDate(0, 0, 2), model.StatusScheduled),
			storeSchedule("sch-2", "eq-2", storeNow.AddDate(0, 0, 10), model.StatusCompleted),
			storeSchedule("sch-3", "eq-1", storeNow.AddDate(0, 2, 0), model.StatusScheduled),
		}
		for _, s := range fixtures {
			if err := st.SaveSchedule(ctx, s); err != nil {
				t.Fatalf("SaveSchedule %s: %v", s.ID, err)
			}
		}

		got, err := st.Schedules(ctx, ScheduleQuery{
			From:     storeNow,
			To:       storeNow.AddDate(0, 1, 0),
			Statuses: []model.Status{model.StatusScheduled},
		})
		if err != nil {
			t.Fatalf("Schedules: %v", err)
		}
		if len(got) != 1 || got[0].ID != "sch-1" {
			t.Fatalf("window+status query = %+v, want sch-1 only", ids(got))
		}

		got, err = st.Schedules(ctx, ScheduleQuery{EquipmentIDs: []string{"eq-1"}})
		if err != nil {
			t.Fatalf("Schedules: %v", err)
		}
		if len(got) != 2 || got[0].ID != "sch-1" || got[1].ID != "sch-3" {
			t.Fatalf("equipment query = %v, want [sch-1 sch-3] ordered by id", ids(got))
		}
	})

	t.Run("status transitions", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		s := storeSchedule("sch-1", "eq-1", storeNow, model.StatusScheduled)
		if err := st.SaveSchedule(ctx, s); err != nil {
			t.Fatalf("SaveSchedule: %v", err)
		}

		if err := st.UpdateScheduleStatus(ctx, "sch-1", model.StatusInProgress); err != nil {
			t.Fatalf("scheduled -> in_progress: %v", err)
		}
		if err := st.UpdateScheduleStatus(ctx, "sch-1", model.StatusCompleted); err != nil {
			t.Fatalf("in_progress -> completed: %v", err)
		}

		// Completed is terminal.
		err := st.UpdateScheduleStatus(ctx, "sch-1", model.StatusCancelled)
		if errs.KindOf(err) != errs.Validation {
			t.Fatalf("terminal transition err = %v, want kind %s", err, errs.Validation)
		}
		err = st.UpdateScheduleStatus(ctx, "missing", model.StatusCancelled)
		if errs.KindOf(err) != errs.NotFound {
			t.Fatalf("missing schedule err = %v, want kind %s", err, errs.NotFound)
		}
	})

	t.Run("status update bumps version", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		if err := st.SaveSchedule(ctx, storeSchedule("sch-1", "eq-1", storeNow, model.StatusScheduled)); err != nil {
			t.Fatalf("SaveSchedule: %v", err)
		}
		before, _ := st.Version(ctx)
		if err := st.UpdateScheduleStatus(ctx, "sch-1", model.StatusInProgress); err != nil {
			t.Fatalf("UpdateScheduleStatus: %v", err)
		}
		after, _ := st.Version(ctx)
		if after != before+1 {
			t.Fatalf("version %d -> %d, want one bump per mutation", before, after)
		}
	})

	t.Run("runs are immutable once final", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		run := model.OptimizationRun{
			ID:     "run-1",
			Status: model.RunProposed,
			Period: model.TimeWindow{Start: storeNow, End: storeNow.AddDate(0, 1, 0)},
		}
		if err := st.SaveRun(ctx, run); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}

		run.Status = model.RunApplied
		if err := st.SaveRun(ctx, run); err != nil {
			t.Fatalf("flip to applied: %v", err)
		}

		run.Status = model.RunRejected
		err := st.SaveRun(ctx, run)
		if errs.KindOf(err) != errs.Conflict {
			t.Fatalf("rewrite of a final run err = %v, want kind %s", err, errs.Conflict)
		}

		got, err := st.Run(ctx, "run-1")
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if got.Status != model.RunApplied {
			t.Fatalf("run status = %s, want %s", got.Status, model.RunApplied)
		}

		if _, err := st.Run(ctx, "missing"); errs.KindOf(err) != errs.NotFound {
			t.Fatalf("missing run err = %v, want kind %s", err, errs.NotFound)
		}
	})

	t.Run("reports overlap window", func(t *testing.T) {
		ctx := context.Background()
		st := open(t)
		june := model.TimeWindow{Start: storeNow, End: storeNow.AddDate(0, 1, 0)}
		july := model.TimeWindow{Start: storeNow.AddDate(0, 1, 0), End: storeNow.AddDate(0, 2, 0)}
		for i, p := range []model.TimeWindow{july, june} {
			rep := model.MaintenanceAnalyticsReport{
				ID:          []string{"rep-july", "rep-june"}[i],
				Period:      p,
				GeneratedAt: storeNow,
			}
			if err := st.SaveReport(ctx, rep); err != nil {
				t.Fatalf("SaveReport: %v", err)
			}
		}

		got, err := st.Reports(ctx, june)
		if err != nil {
			t.Fatalf("Reports: %v", err)
		}
		if len(got) != 1 || got[0].ID != "rep-june" {
			t.Fatalf("june window returned %d report(s), want rep-june only", len(got))
		}

		got, err = st.Reports(ctx, model.TimeWindow{Start: storeNow, End: storeNow.AddDate(0, 2, 0)})
		if err != nil {
			t.Fatalf("Reports: %v", err)
		}
		if len(got) != 2 || got[0].ID != "rep-june" {
			t.Fatalf("wide window = %d report(s), want both oldest first", len(got))
		}
	})
}

func ids(schedules []model.MaintenanceSchedule) []string {
	out := make([]string, len(schedules))
	for i, s := range schedules {
		out[i] = s.ID
	}
	return out
}
