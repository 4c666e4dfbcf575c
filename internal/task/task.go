// Package task defines the scheduled-task domain types shared by the
// store, the scheduler, and the admin CLI.
package task

import "time"

// Task is one scheduled work item. Rows are created and edited by the
// admin surface and consumed, never created, by the scan loop.
type Task struct {
	// ID is assigned by the store.
	ID int64

	// Title is a human-readable label used in notification subjects.
	Title string

	// Description is the free-text instruction passed verbatim to the
	// agent backend.
	Description string

	// Frequency is a free-text recurrence descriptor ("daily",
	// "every 2 hours", "monthly"). Interpreted, not validated, by
	// NextRun.
	Frequency string

	// Role identifies the recipient set resolved at execution time.
	Role string

	// NextRun is the due timestamp; the task is due when
	// NextRun <= now. Monotonically non-decreasing across updates.
	NextRun time.Time
}

// Due reports whether the task is due at the given instant.
func (t Task) Due(now time.Time) bool {
	return !t.NextRun.After(now)
}

// RunStatus classifies one execution attempt in the run history.
type RunStatus string

// Run history statuses.
const (
	RunOK      RunStatus = "ok"      // agent produced output, fan-out attempted
	RunEmpty   RunStatus = "empty"   // agent completed with no output, nothing sent
	RunFailed  RunStatus = "failed"  // upload or run failure
	RunTimeout RunStatus = "timeout" // run exceeded the invocation deadline
)

// Run is one row of execution history for a task.
type Run struct {
	ID         int64
	TaskID     int64
	Status     RunStatus
	Error      string
	ResultSize int
	StartedAt  time.Time
	FinishedAt time.Time
}
