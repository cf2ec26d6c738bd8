// Package state persists solve-run history in SQLite.
// Each tradespace computation records when it ran, against which model and
// environment, how many candidates were enumerated, how many survived
// constraint filtering, and the final frontier size.
package state

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/firelinelabs/tradespace/pkg/core"
)

// SQLiteStore implements core.RunStore using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite run store instance.
func NewSQLiteStore(logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{logger: logger}
}

// Open opens a connection to the SQLite database.
// Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("%s?_pragma=journal_mode(WAL)", path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// CreateSolveRun records the start of a tradespace computation.
func (s *SQLiteStore) CreateSolveRun(env, model string) (*core.SolveRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &core.SolveRun{
		ID:          generateID(),
		Environment: env,
		Model:       model,
		Status:      core.SolveRunStatusRunning,
		StartedAt:   time.Now().UTC(),
	}

	s.logger.Debug("creating solve run", slog.String("id", run.ID), slog.String("model", model))

	_, err := s.db.Exec(
		`INSERT INTO solve_runs (id, environment, model, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Environment, run.Model, string(run.Status), run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create solve run: %w", err)
	}
	return run, nil
}

// CompleteSolveRun marks a run finished with its counts and status.
func (s *SQLiteStore) CompleteSolveRun(id string, status core.SolveRunStatus, candidates, feasible, frontier int64, errMsg string) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	now := time.Now().UTC()
	var errPtr *string
	if errMsg != "" {
		errPtr = &errMsg
	}

	_, err := s.db.Exec(
		`UPDATE solve_runs
		 SET status = ?, candidates = ?, feasible = ?, frontier = ?, error = ?, completed_at = ?
		 WHERE id = ?`,
		string(status), candidates, feasible, frontier, errPtr, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete solve run: %w", err)
	}
	return nil
}

// GetSolveRun retrieves a run by ID.
func (s *SQLiteStore) GetSolveRun(id string) (*core.SolveRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, environment, model, status, candidates, feasible, frontier, error, started_at, completed_at
		 FROM solve_runs WHERE id = ?`, id)

	run, err := scanSolveRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("solve run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solve run: %w", err)
	}
	return run, nil
}

// GetLatestSolveRun retrieves the most recent run for an environment.
// Returns nil without error when no runs exist.
func (s *SQLiteStore) GetLatestSolveRun(env string) (*core.SolveRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRow(
		`SELECT id, environment, model, status, candidates, feasible, frontier, error, started_at, completed_at
		 FROM solve_runs WHERE environment = ? ORDER BY started_at DESC LIMIT 1`, env)

	run, err := scanSolveRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest solve run: %w", err)
	}
	return run, nil
}

// ListSolveRuns lists runs newest first, up to limit (0 means all).
func (s *SQLiteStore) ListSolveRuns(limit int) ([]*core.SolveRun, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	query := `SELECT id, environment, model, status, candidates, feasible, frontier, error, started_at, completed_at
	          FROM solve_runs ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list solve runs: %w", err)
	}
	defer rows.Close()

	var runs []*core.SolveRun
	for rows.Next() {
		run, err := scanSolveRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan solve run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSolveRun(sc scanner) (*core.SolveRun, error) {
	run := &core.SolveRun{}
	var status string
	var errMsg sql.NullString
	var completedAt sql.NullTime

	err := sc.Scan(&run.ID, &run.Environment, &run.Model, &status,
		&run.Candidates, &run.Feasible, &run.Frontier, &errMsg,
		&run.StartedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	run.Status = core.SolveRunStatus(status)
	if errMsg.Valid {
		run.Error = errMsg.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.CompletedAt = &t
	}
	return run, nil
}
