package service

import (
	"context"
	"errors"

	"farmdash/entities"
)

// Snapshot is the presentation state of one browser session.
type Snapshot struct {
	BrowserID string
	Record    entities.FarmRecord
	Version   uint64
	Dark      bool
	Pending   float64
	CanCommit bool   // false while Pending == 0
	RootClass string // class attribute of the document root
}

// MetricsView is the formatted metrics panel.
type MetricsView struct {
	Yield       string
	Risk        string
	Water       string
	Value       string
	UpdatedAt   string
	Suggestions []string
}

// ErrOutOfRange is returned by Commit when the pending adjustment would push
// a metric past the range of float64.
var ErrOutOfRange = errors.New("adjustment pushes a metric out of range")

type DashboardService interface {
	Snapshot(ctx context.Context, browserID string) Snapshot
	SetPending(ctx context.Context, browserID string, adjustment float64) Snapshot
	// Commit derives and stores a new record from the pending adjustment.
	// It reports false, changing nothing, while the pending adjustment is zero.
	// ErrOutOfRange leaves the record and the pending adjustment untouched.
	Commit(ctx context.Context, browserID string) (Snapshot, bool, error)
	ToggleDark(ctx context.Context, browserID string) Snapshot
	Metrics(ctx context.Context, browserID string) (MetricsView, uint64)
}
