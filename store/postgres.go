package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hplcollect/hplout"
	"hplcollect/record"
)

// The tables are superseded run by run: a run that is collected again replaces its earlier rows.
// The full record is kept as jsonb next to the columns that are useful for queries.

const schema = `
CREATE TABLE IF NOT EXISTS hpl_run (
	id            TEXT PRIMARY KEY,
	suite         TEXT NOT NULL,
	grp           TEXT NOT NULL,
	run           TEXT NOT NULL,
	dialect       TEXT,
	best_gflops   DOUBLE PRECISION,
	best_n        INTEGER,
	best_nb       INTEGER,
	best_time_sec DOUBLE PRECISION,
	tests_total   INTEGER,
	tests_passed  INTEGER,
	tests_failed  INTEGER,
	tests_skipped INTEGER,
	err_size      INTEGER,
	record        JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS hpl_timed_run (
	run_id          TEXT NOT NULL REFERENCES hpl_run(id) ON DELETE CASCADE,
	seq             INTEGER NOT NULL,
	tv              TEXT NOT NULL,
	n               INTEGER NOT NULL,
	nb              INTEGER NOT NULL,
	p               INTEGER NOT NULL,
	q               INTEGER NOT NULL,
	time_sec        DOUBLE PRECISION NOT NULL,
	gflops          DOUBLE PRECISION NOT NULL,
	gflops_per_gpu  DOUBLE PRECISION,
	residual        DOUBLE PRECISION,
	residual_passed BOOLEAN,
	PRIMARY KEY (run_id, seq)
);
CREATE TABLE IF NOT EXISTS hpl_generation (
	generated_at TIMESTAMPTZ PRIMARY KEY,
	num_runs     INTEGER NOT NULL
);
`

const (
	deleteTimedRuns = `DELETE FROM hpl_timed_run WHERE run_id = $1`
	deleteRun       = `DELETE FROM hpl_run WHERE id = $1`
	insertRun       = `INSERT INTO hpl_run
	(id, suite, grp, run, dialect, best_gflops, best_n, best_nb, best_time_sec,
	 tests_total, tests_passed, tests_failed, tests_skipped, err_size, record)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	insertTimedRun = `INSERT INTO hpl_timed_run
	(run_id, seq, tv, n, nb, p, q, time_sec, gflops, gflops_per_gpu, residual, residual_passed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	insertGeneration = `INSERT INTO hpl_generation (generated_at, num_runs) VALUES ($1, $2)
	ON CONFLICT (generated_at) DO UPDATE SET num_runs = EXCLUDED.num_runs`
)

// The part of *pgx.Conn we use.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close(ctx context.Context) error
}

type PostgresSink struct {
	// The connection is not thread-safe, hold the lock while using it.
	lock sync.Mutex
	db   conn
}

func OpenPostgres(ctx context.Context, databaseURI string) (*PostgresSink, error) {
	c, err := pgx.Connect(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("Unable to connect to database: %w", err)
	}
	return &PostgresSink{db: c}, nil
}

func (ps *PostgresSink) CreateSchema(ctx context.Context) error {
	ps.lock.Lock()
	defer ps.lock.Unlock()
	_, err := ps.db.Exec(ctx, schema)
	return err
}

func (ps *PostgresSink) PutRun(ctx context.Context, r *record.RunRecord) error {
	blob, err := json.Marshal(r)
	if err != nil {
		return err
	}

	var dialect *string
	var runs []hplout.TimedRun
	var summary hplout.TestSummary
	if r.Out != nil {
		d := string(r.Out.Dialect)
		dialect = &d
		runs = r.Out.Runs
		summary = r.Out.Summary
	}
	var bestGflops, bestTime *float64
	var bestN, bestNB *int
	if r.Best != nil {
		bestGflops, bestTime = &r.Best.Gflops, &r.Best.TimeSec
		bestN, bestNB = &r.Best.N, &r.Best.NB
	}
	var errSize *int
	if r.Err != nil {
		errSize = &r.Err.Size
	}

	ps.lock.Lock()
	defer ps.lock.Unlock()
	return pgx.BeginFunc(ctx, ps.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteTimedRuns, r.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, deleteRun, r.ID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertRun,
			r.ID, r.Suite, r.Group, r.Run, dialect, bestGflops, bestN, bestNB, bestTime,
			summary.TestsTotal, summary.TestsPassed, summary.TestsFailed, summary.TestsSkipped,
			errSize, string(blob))
		if err != nil {
			return fmt.Errorf("Inserting %s: %w", r.ID, err)
		}
		for i, tr := range runs {
			var residual *float64
			var passed *bool
			if tr.ResidualCheck != nil {
				residual, passed = tr.Residual, tr.ResidualPassed
			}
			_, err := tx.Exec(ctx, insertTimedRun,
				r.ID, i, tr.Tv, tr.N, tr.NB, tr.P, tr.Q, tr.TimeSec, tr.Gflops, tr.GflopsPerGpu,
				residual, passed)
			if err != nil {
				return fmt.Errorf("Inserting %s row %d: %w", r.ID, i, err)
			}
		}
		return nil
	})
}

func (ps *PostgresSink) PutIndex(ctx context.Context, index *record.Index) error {
	t, err := time.Parse(time.RFC3339Nano, index.GeneratedAt)
	if err != nil {
		return fmt.Errorf("Bad generation time: %w", err)
	}
	ps.lock.Lock()
	defer ps.lock.Unlock()
	_, err = ps.db.Exec(ctx, insertGeneration, t, len(index.Runs))
	return err
}

func (ps *PostgresSink) Close() error {
	ps.lock.Lock()
	defer ps.lock.Unlock()
	return ps.db.Close(context.Background())
}
