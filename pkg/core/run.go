package core

import "time"

// SolveRunStatus represents the lifecycle state of a solve run.
type SolveRunStatus string

// Solve run statuses.
const (
	SolveRunStatusRunning   SolveRunStatus = "running"
	SolveRunStatusCompleted SolveRunStatus = "completed"
	SolveRunStatusFailed    SolveRunStatus = "failed"
	SolveRunStatusCancelled SolveRunStatus = "cancelled"
)

// SolveRun records one tradespace computation for the run history.
type SolveRun struct {
	ID          string
	Environment string
	Model       string
	Status      SolveRunStatus
	// Candidates is the size of the enumerated cross product
	Candidates int64
	// Feasible counts candidates surviving constraint filtering
	Feasible int64
	// Frontier is the antichain size
	Frontier    int64
	Error       string
	StartedAt   time.Time
	CompletedAt *time.Time
}

// RunStore defines the persistence interface for solve-run history.
type RunStore interface {
	Open(path string) error
	Close() error
	Migrate() error

	CreateSolveRun(env, model string) (*SolveRun, error)
	CompleteSolveRun(id string, status SolveRunStatus, candidates, feasible, frontier int64, errMsg string) error
	GetSolveRun(id string) (*SolveRun, error)
	ListSolveRuns(limit int) ([]*SolveRun, error)
	GetLatestSolveRun(env string) (*SolveRun, error)
}
