package store

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/rossinienergy/citypages/internal/model"
)

const tablePassRuns = "pass_runs"

var runColumns = []string{
	"id", "pass", "status", "started_at", "completed_at",
	"pending", "enriched", "skipped", "no_result", "failed", "error",
}

// SQLiteStore implements RunLog using modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string, clock clockwork.Clock) (*SQLiteStore, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db, clock: clock}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS pass_runs (
	id           TEXT PRIMARY KEY,
	pass         TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'running',
	started_at   DATETIME NOT NULL,
	completed_at DATETIME,
	pending      INTEGER NOT NULL DEFAULT 0,
	enriched     INTEGER NOT NULL DEFAULT 0,
	skipped      INTEGER NOT NULL DEFAULT 0,
	no_result    INTEGER NOT NULL DEFAULT 0,
	failed       INTEGER NOT NULL DEFAULT 0,
	error        TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_pass_runs_pass ON pass_runs(pass, started_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) exec(ctx context.Context, b sq.Sqlizer, what string) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: build %s", what)
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: %s", what)
	}
	return res, nil
}

func (s *SQLiteStore) Start(ctx context.Context, pass string, pending int) (*model.PassRun, error) {
	run := &model.PassRun{
		ID:         uuid.New().String(),
		Pass:       pass,
		Status:     model.RunStatusRunning,
		StartedAt:  s.clock.Now().UTC(),
		PassCounts: model.PassCounts{Pending: pending},
	}

	q := sq.Insert(tablePassRuns).
		Columns("id", "pass", "status", "started_at", "pending").
		Values(run.ID, run.Pass, string(run.Status), run.StartedAt, pending)
	if _, err := s.exec(ctx, q, "insert run"); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStore) finish(ctx context.Context, runID string, status model.RunStatus, c model.PassCounts, msg string) error {
	q := sq.Update(tablePassRuns).SetMap(map[string]any{
		"status":       string(status),
		"completed_at": s.clock.Now().UTC(),
		"pending":      c.Pending,
		"enriched":     c.Enriched,
		"skipped":      c.Skipped,
		"no_result":    c.NoResult,
		"failed":       c.Failed,
		"error":        msg,
	}).Where(sq.Eq{"id": runID})

	res, err := s.exec(ctx, q, "update run "+runID)
	if err != nil {
		return err
	}
	return checkRowsAffected(res, "run", runID)
}

func (s *SQLiteStore) Complete(ctx context.Context, runID string, counts model.PassCounts) error {
	return s.finish(ctx, runID, model.RunStatusComplete, counts, "")
}

func (s *SQLiteStore) Fail(ctx context.Context, runID string, counts model.PassCounts, cause error) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	return s.finish(ctx, runID, model.RunStatusFailed, counts, msg)
}

func (s *SQLiteStore) List(ctx context.Context, filter RunFilter) ([]model.PassRun, error) {
	q := sq.Select(runColumns...).From(tablePassRuns).OrderBy("started_at DESC", "rowid DESC")
	if filter.Pass != "" {
		q = q.Where(sq.Eq{"pass": filter.Pass})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	q = q.Limit(uint64(limit))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: build list runs")
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close() //nolint:errcheck

	var runs []model.PassRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: list runs iterate")
}

func (s *SQLiteStore) LastSuccess(ctx context.Context, pass string) (*model.PassRun, error) {
	runs, err := s.List(ctx, RunFilter{Pass: pass, Status: model.RunStatusComplete, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// helpers

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Errorf("%s not found: %s", entity, id)
	}
	return nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRun(row scannable) (*model.PassRun, error) {
	var (
		r         model.PassRun
		status    string
		completed sql.NullTime
	)
	err := row.Scan(&r.ID, &r.Pass, &status, &r.StartedAt, &completed,
		&r.Pending, &r.Enriched, &r.Skipped, &r.NoResult, &r.Failed, &r.Error)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, eris.New("run not found")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan run")
	}
	r.Status = model.RunStatus(status)
	if completed.Valid {
		t := completed.Time
		r.CompletedAt = &t
	}
	return &r, nil
}
