// internal/runs/store.go
//
// SQLite persistence for batch evaluation reports.
//
// A run row is inserted as "running" when an evaluation starts and is
// completed with the aggregated report (or the failure) when it ends. Only
// finished aggregates are stored; solver state never is.

package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/codebreaker/internal/evaluate"
)

const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

var ErrNotFound = errors.New("runs: not found")

// Run is one evaluation as stored.
type Run struct {
	ID            string      `json:"id"`
	Length        int         `json:"length"`
	Status        string      `json:"status"`
	Secrets       int         `json:"secrets"`
	Average       float64     `json:"average,omitempty"`
	WorstSecret   string      `json:"worstSecret,omitempty"`
	WorstAttempts int         `json:"worstAttempts,omitempty"`
	Histogram     map[int]int `json:"histogram,omitempty"`
	Error         string      `json:"error,omitempty"`
	StartedAt     time.Time   `json:"startedAt"`
	FinishedAt    *time.Time  `json:"finishedAt,omitempty"`
}

// Store reads and writes evaluation_runs.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Create inserts a running evaluation for code length n.
func (s *Store) Create(ctx context.Context, n, secrets int) (*Run, error) {
	r := &Run{
		ID:        uuid.NewString(),
		Length:    n,
		Status:    StatusRunning,
		Secrets:   secrets,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO evaluation_runs (id, length, status, secrets, started_at) VALUES (?,?,?,?,?)`,
		r.ID, r.Length, r.Status, r.Secrets, r.StartedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Finish stores the report of a completed evaluation.
func (s *Store) Finish(ctx context.Context, id string, rep *evaluate.Report) error {
	hist, err := json.Marshal(rep.Histogram)
	if err != nil {
		return err
	}
	return s.complete(ctx, id,
		`UPDATE evaluation_runs
		 SET status=?, secrets=?, average=?, worst_secret=?, worst_attempts=?, histogram=?, finished_at=?
		 WHERE id=?`,
		StatusDone, rep.Secrets, rep.Average, rep.WorstSecret.String(), rep.WorstAttempts, string(hist),
		time.Now().UTC().Format(time.RFC3339), id)
}

// Fail marks an evaluation as failed.
func (s *Store) Fail(ctx context.Context, id string, cause error) error {
	return s.complete(ctx, id,
		`UPDATE evaluation_runs SET status=?, error=?, finished_at=? WHERE id=?`,
		StatusFailed, cause.Error(), time.Now().UTC().Format(time.RFC3339), id)
}

func (s *Store) complete(ctx context.Context, id, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

const selectRun = `SELECT id, length, status, secrets, COALESCE(average, 0), COALESCE(worst_secret, ''),
	COALESCE(worst_attempts, 0), COALESCE(histogram, ''), COALESCE(error, ''), started_at, COALESCE(finished_at, '')
	FROM evaluation_runs`

// Get loads one run by ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx, selectRun+` WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return r, err
}

// List returns the most recent runs first.
func (s *Store) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, selectRun+` ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var (
		r                  Run
		hist, started, fin string
	)
	if err := row.Scan(&r.ID, &r.Length, &r.Status, &r.Secrets, &r.Average, &r.WorstSecret,
		&r.WorstAttempts, &hist, &r.Error, &started, &fin); err != nil {
		return nil, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339, started)
	if fin != "" {
		t, _ := time.Parse(time.RFC3339, fin)
		r.FinishedAt = &t
	}
	if hist != "" {
		if err := json.Unmarshal([]byte(hist), &r.Histogram); err != nil {
			return nil, err
		}
	}
	return &r, nil
}
