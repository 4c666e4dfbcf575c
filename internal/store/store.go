// Package store defines the persistence contracts between the task
// store module and its consumers (scheduler, fan-out, gateway, CLI).
package store

import (
	"context"
	"time"

	"github.com/omarawad11/finsched/internal/task"
)

// TaskStore is the engine-facing view of the task table. Any error from
// these methods is fatal to the current scan cycle; the next scan
// retries from scratch.
type TaskStore interface {
	// DueTasks returns all tasks with next_run <= now, in store order.
	DueTasks(ctx context.Context, now time.Time) ([]task.Task, error)

	// AdvanceNextRun persists a new next_run for the task.
	// Called unconditionally after each execution attempt.
	AdvanceNextRun(ctx context.Context, id int64, next time.Time) error

	// RecipientsByRole resolves a role to its recipient addresses.
	// An unknown role yields an empty slice, not an error.
	RecipientsByRole(ctx context.Context, role string) ([]string, error)
}

// RunLog records execution history. Best-effort: the scheduler logs and
// continues when a write fails.
type RunLog interface {
	RecordRun(ctx context.Context, run task.Run) error

	// PruneRuns deletes history rows finished before cutoff and
	// returns the number removed.
	PruneRuns(ctx context.Context, cutoff time.Time) (int64, error)

	// RecentRuns returns up to limit history rows, newest first.
	RecentRuns(ctx context.Context, limit int) ([]task.Run, error)
}

// Admin is the CLI- and gateway-facing surface for managing task rows.
// The scan loop never creates tasks.
type Admin interface {
	InsertTask(ctx context.Context, t task.Task) (int64, error)
	ListTasks(ctx context.Context) ([]task.Task, error)
	AddRecipient(ctx context.Context, role, address string) error
}
