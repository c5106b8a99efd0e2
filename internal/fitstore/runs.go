package fitstore

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/hawkes/internal/hawkes"
)

// FitRun is one persisted EM run: the configuration it started from,
// the fitted parameters and the final sufficient statistics.
type FitRun struct {
	RunID      string        `json:"run_id"`
	SequenceID string        `json:"sequence_id"`
	Iterations int           `json:"iterations"`
	Initial    hawkes.Params `json:"initial"`
	Final      hawkes.Params `json:"final"`
	Stats      hawkes.Stats  `json:"stats"`
	CreatedAt  int64         `json:"created_at"`
}

// InsertRun persists a run. A UUID is generated when RunID is empty.
func (s *FitStore) InsertRun(run *FitRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	_, err := s.db.Exec(`
		INSERT INTO fit_runs (
			run_id, sequence_id, iterations,
			mu0, a0, b0, mu, a, b,
			background, triggered, exposure, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.SequenceID, run.Iterations,
		run.Initial.Mu, run.Initial.A, run.Initial.B,
		run.Final.Mu, run.Final.A, run.Final.B,
		run.Stats.Background, run.Stats.Triggered, run.Stats.Exposure,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetRun loads one run by ID.
func (s *FitStore) GetRun(runID string) (*FitRun, error) {
	run, err := scanRun(s.db.QueryRow(`
		SELECT run_id, sequence_id, iterations,
		       mu0, a0, b0, mu, a, b,
		       background, triggered, exposure, created_at
		FROM fit_runs WHERE run_id = ?`, runID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return run, nil
}

// ListRunsBySequence returns the runs of a sequence, newest first.
func (s *FitStore) ListRunsBySequence(sequenceID string) ([]*FitRun, error) {
	rows, err := s.db.Query(`
		SELECT run_id, sequence_id, iterations,
		       mu0, a0, b0, mu, a, b,
		       background, triggered, exposure, created_at
		FROM fit_runs WHERE sequence_id = ?
		ORDER BY created_at DESC`, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []*FitRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*FitRun, error) {
	var run FitRun
	err := row.Scan(
		&run.RunID, &run.SequenceID, &run.Iterations,
		&run.Initial.Mu, &run.Initial.A, &run.Initial.B,
		&run.Final.Mu, &run.Final.A, &run.Final.B,
		&run.Stats.Background, &run.Stats.Triggered, &run.Stats.Exposure,
		&run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// InsertTrace persists a run's per-iteration trace in one transaction.
func (s *FitStore) InsertTrace(runID string, trace []hawkes.TracePoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin trace insert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO fit_iterations (run_id, iter, mu, a, b, q)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare trace insert: %w", err)
	}
	defer stmt.Close()

	for _, pt := range trace {
		// SQLite has no NaN; a failed surrogate evaluation is stored as NULL.
		var q any
		if !math.IsNaN(pt.Q) {
			q = pt.Q
		}
		if _, err := stmt.Exec(runID, pt.Iteration, pt.Params.Mu, pt.Params.A, pt.Params.B, q); err != nil {
			return fmt.Errorf("insert iteration %d: %w", pt.Iteration, err)
		}
	}
	return tx.Commit()
}

// ListTrace returns a run's trace in iteration order.
func (s *FitStore) ListTrace(runID string) ([]hawkes.TracePoint, error) {
	rows, err := s.db.Query(`
		SELECT iter, mu, a, b, q
		FROM fit_iterations WHERE run_id = ?
		ORDER BY iter ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query trace: %w", err)
	}
	defer rows.Close()

	var out []hawkes.TracePoint
	for rows.Next() {
		var pt hawkes.TracePoint
		var q sql.NullFloat64
		if err := rows.Scan(&pt.Iteration, &pt.Params.Mu, &pt.Params.A, &pt.Params.B, &q); err != nil {
			return nil, fmt.Errorf("scan iteration: %w", err)
		}
		pt.Q = math.NaN()
		if q.Valid {
			pt.Q = q.Float64
		}
		out = append(out, pt)
	}
	return out, rows.Err()
}
