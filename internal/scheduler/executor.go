package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/omarawad11/finsched/internal/agent"
	"github.com/omarawad11/finsched/internal/notify"
	"github.com/omarawad11/finsched/internal/store"
	"github.com/omarawad11/finsched/internal/task"
)

// subjectPrefix is prepended to the task title in notification subjects.
const subjectPrefix = "Scheduled Task Notification: "

// Executor runs one due task: agent invocation, then fan-out when the
// agent produced output. It owns no scheduling state.
type Executor struct {
	invoker agent.Invoker
	fanout  *notify.Fanout
	runs    store.RunLog
	logger  *slog.Logger
	now     func() time.Time
}

// NewExecutor creates an Executor. runs may be nil to disable history.
func NewExecutor(invoker agent.Invoker, fanout *notify.Fanout, runs store.RunLog, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		invoker: invoker,
		fanout:  fanout,
		runs:    runs,
		logger:  logger,
		now:     time.Now,
	}
}

// Execute runs one task to completion. The returned error reports the
// outcome to the caller for logging; the scan loop treats every outcome
// the same way (record, advance next_run, continue).
func (e *Executor) Execute(ctx context.Context, t task.Task) error {
	started := e.now()
	e.logger.Info("executing task", "task", t.ID, "title", t.Title)

	result, err := e.invoker.Invoke(ctx, t.Description)
	if err != nil {
		status := task.RunFailed
		if errors.Is(err, agent.ErrRunTimeout) {
			status = task.RunTimeout
		}
		taskRuns.WithLabelValues(string(status)).Inc()
		e.record(t.ID, status, err.Error(), 0, started)
		return err
	}

	if result == "" {
		// Completed with nothing to deliver. Not a failure.
		taskRuns.WithLabelValues(string(task.RunEmpty)).Inc()
		e.record(t.ID, task.RunEmpty, "", 0, started)
		e.logger.Info("task produced no output", "task", t.ID)
		return nil
	}

	if err := e.fanout.Notify(ctx, t.Role, subjectPrefix+t.Title, result); err != nil {
		taskRuns.WithLabelValues(string(task.RunFailed)).Inc()
		e.record(t.ID, task.RunFailed, err.Error(), len(result), started)
		return err
	}

	taskRuns.WithLabelValues(string(task.RunOK)).Inc()
	e.record(t.ID, task.RunOK, "", len(result), started)
	return nil
}

// record writes one history row, best effort.
func (e *Executor) record(taskID int64, status task.RunStatus, errText string, resultSize int, started time.Time) {
	if e.runs == nil {
		return
	}
	run := task.Run{
		TaskID:     taskID,
		Status:     status,
		Error:      errText,
		ResultSize: resultSize,
		StartedAt:  started,
		FinishedAt: e.now(),
	}
	// History writes never interfere with execution itself.
	if err := e.runs.RecordRun(context.Background(), run); err != nil {
		e.logger.Warn("run history write failed", "task", taskID, "error", err)
	}
}
