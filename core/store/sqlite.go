package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/uptimeworks/predmaint/core/errs"
	"github.com/uptimeworks/predmaint/core/model"
)

// SQLiteStore persists engine records to a SQLite database. Records are
// stored as JSON with the columns needed for filtering extracted alongside.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `
CREATE TABLE IF NOT EXISTS schedules (
    id TEXT PRIMARY KEY,
    equipment_id TEXT NOT NULL,
    scheduled_at INTEGER NOT NULL,
    status TEXT NOT NULL,
    record TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS optimization_runs (
    id TEXT PRIMARY KEY,
    status TEXT NOT NULL,
    record TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS analytics_reports (
    id TEXT PRIMARY KEY,
    period_start INTEGER NOT NULL,
    period_end INTEGER NOT NULL,
    record TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value INTEGER NOT NULL
);
INSERT OR IGNORE INTO meta (key, value) VALUES ('schedule_version', 0);`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) bumpVersion(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `UPDATE meta SET value = value + 1 WHERE key = 'schedule_version'`)
	return err
}

// SaveSchedule inserts or replaces a schedule and bumps the version.
func (s *SQLiteStore) SaveSchedule(ctx context.Context, sched model.MaintenanceSchedule) error {
	if err := sched.Validate(); err != nil {
		return errs.Wrap(errs.Validation, err, "invalid schedule")
	}
	b, err := json.Marshal(sched)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errs.Wrap(errs.Dependency, err, "store unavailable")
	}
	defer func() { _ = tx.Rollback() }()
	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO schedules (id, equipment_id, scheduled_at, status, record) VALUES (?, ?, ?, ?, ?)`,
		sched.ID, sched.EquipmentID, sched.ScheduledDate.Unix(), string(sched.Status), string(b))
	if err != nil {
		return errs.Wrap(errs.Dependency, err, "write schedule")
	}
	if err := s.bumpVersion(ctx, tx); err != nil {
		return errs.Wrap(errs.Dependency, err, "bump version")
	}
	return tx.Commit()
}

// Schedule returns the schedule by id.
func (s *SQLiteStore) Schedule(ctx context.Context, id string) (model.MaintenanceSchedule, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM schedules WHERE id = ?`, id).Scan(&record)
	if err == sql.ErrNoRows {
		return model.MaintenanceSchedule{}, errs.E(errs.NotFound, "schedule %s not found", id)
	}
	if err != nil {
		return model.MaintenanceSchedule{}, errs.Wrap(errs.Dependency, err, "read schedule")
	}
	var sched model.MaintenanceSchedule
	if err := json.Unmarshal([]byte(record), &sched); err != nil {
		return model.MaintenanceSchedule{}, errs.Wrap(errs.Computation, err, "decode schedule %s", id)
	}
	return sched, nil
}

// Schedules lists schedules matching the query ordered by id.
func (s *SQLiteStore) Schedules(ctx context.Context, q ScheduleQuery) ([]model.MaintenanceSchedule, error) {
	query := `SELECT record FROM schedules`
	var conds []string
	var args []any
	if len(q.EquipmentIDs) > 0 {
		conds = append(conds, `equipment_id IN (?`+strings.Repeat(",?", len(q.EquipmentIDs)-1)+`)`)
		for _, id := range q.EquipmentIDs {
			args = append(args, id)
		}
	}
	if !q.From.IsZero() {
		conds = append(conds, `scheduled_at >= ?`)
		args = append(args, q.From.Unix())
	}
	if !q.To.IsZero() {
		conds = append(conds, `scheduled_at < ?`)
		args = append(args, q.To.Unix())
	}
	if len(q.Statuses) > 0 {
		conds = append(conds, `status IN (?`+strings.Repeat(",?", len(q.Statuses)-1)+`)`)
		for _, st := range q.Statuses {
			args = append(args, string(st))
		}
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errs.Wrap(errs.Dependency, err, "list schedules")
	}
	defer func() { _ = rows.Close() }()
	var out []model.MaintenanceSchedule
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, errs.Wrap(errs.Dependency, err, "scan schedule")
		}
		var sched model.MaintenanceSchedule
		if err := json.Unmarshal([]byte(record), &sched); err != nil {
			continue
		}
		out = append(out, sched)
	}
	return out, rows.Err()
}

// UpdateScheduleStatus applies a lifecycle transition.
func (s *SQLiteStore) UpdateScheduleStatus(ctx context.Context, id string, next model.Status) error {
	sched, err := s.Schedule(ctx, id)
	if err != nil {
		return err
	}
	if !sched.Status.CanTransition(next) {
		return errs.E(errs.Validation, "schedule %s cannot move from %s to %s", id, sched.Status, next)
	}
	sched.Status = next
	return s.SaveSchedule(ctx, sched)
}

// Version returns the schedule-set version.
func (s *SQLiteStore) Version(ctx context.Context) (uint64, error) {
	var v uint64
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schedule_version'`).Scan(&v)
	if err != nil {
		return 0, errs.Wrap(errs.Dependency, err, "read version")
	}
	return v, nil
}

// SaveRun appends an optimization run.
func (s *SQLiteStore) SaveRun(ctx context.Context, run model.OptimizationRun) error {
	var status string
	err := s.db.QueryRowContext(ctx, `SELECT status FROM optimization_runs WHERE id = ?`, run.ID).Scan(&status)
	if err == nil && status != string(model.RunProposed) {
		return errs.E(errs.Conflict, "optimization run %s is final", run.ID)
	}
	if err != nil && err != sql.ErrNoRows {
		return errs.Wrap(errs.Dependency, err, "read run status")
	}
	b, err := json.Marshal(run)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO optimization_runs (id, status, record) VALUES (?, ?, ?)`,
		run.ID, string(run.Status), string(b))
	if err != nil {
		return errs.Wrap(errs.Dependency, err, "write run")
	}
	return nil
}

// Run returns the optimization run by id.
func (s *SQLiteStore) Run(ctx context.Context, id string) (model.OptimizationRun, error) {
	var record string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM optimization_runs WHERE id = ?`, id).Scan(&record)
	if err == sql.ErrNoRows {
		return model.OptimizationRun{}, errs.E(errs.NotFound, "optimization run %s not found", id)
	}
	if err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Dependency, err, "read run")
	}
	var run model.OptimizationRun
	if err := json.Unmarshal([]byte(record), &run); err != nil {
		return model.OptimizationRun{}, errs.Wrap(errs.Computation, err, "decode run %s", id)
	}
	return run, nil
}

// SaveReport appends an analytics report.
func (s *SQLiteStore) SaveReport(ctx context.Context, rep model.MaintenanceAnalyticsReport) error {
	b, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analytics_reports (id, period_start, period_end, record) VALUES (?, ?, ?, ?)`,
		rep.ID, rep.Period.Start.Unix(), rep.Period.End.Unix(), string(b))
	if err != nil {
		return errs.Wrap(errs.Dependency, err, "write report")
	}
	return nil
}

// Reports lists reports whose period overlaps the window, oldest first.
func (s *SQLiteStore) Reports(ctx context.Context, window model.TimeWindow) ([]model.MaintenanceAnalyticsReport, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT record FROM analytics_reports WHERE period_start < ? AND period_end > ? ORDER BY period_start`,
		window.End.Unix(), window.Start.Unix())
	if err != nil {
		return nil, errs.Wrap(errs.Dependency, err, "list reports")
	}
	defer func() { _ = rows.Close() }()
	var out []model.MaintenanceAnalyticsReport
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, errs.Wrap(errs.Dependency, err, "scan report")
		}
		var rep model.MaintenanceAnalyticsReport
		if err := json.Unmarshal([]byte(record), &rep); err != nil {
			continue
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }
