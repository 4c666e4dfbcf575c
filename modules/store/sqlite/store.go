package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/omarawad11/finsched/internal/task"
)

// timeLayout is a fixed-width UTC format so that lexicographic TEXT
// comparison in SQL matches chronological order.
const timeLayout = "2006-01-02T15:04:05.000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// DueTasks implements store.TaskStore.
func (s *taskStore) DueTasks(ctx context.Context, now time.Time) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_title, task_description, frequency, role_text, next_run
		FROM scheduled_tasks
		WHERE next_run <= ?
		ORDER BY id`,
		formatTime(now),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query due tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTasks(rows)
}

// AdvanceNextRun implements store.TaskStore.
func (s *taskStore) AdvanceNextRun(ctx context.Context, id int64, next time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE scheduled_tasks SET next_run = ? WHERE id = ?",
		formatTime(next), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: advance next_run for task %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("sqlite: task %d not found", id)
	}
	return nil
}

// RecipientsByRole implements store.TaskStore.
func (s *taskStore) RecipientsByRole(ctx context.Context, role string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT email FROM task_recipients WHERE role_text = ? ORDER BY id",
		role,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query recipients for role %q: %w", role, err)
	}
	defer func() { _ = rows.Close() }()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("sqlite: scan recipient: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: recipients rows: %w", err)
	}
	return emails, nil
}

// RecordRun implements store.RunLog.
func (s *taskStore) RecordRun(ctx context.Context, run task.Run) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO task_runs (task_id, status, error, result_size, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		run.TaskID, string(run.Status), run.Error, run.ResultSize,
		formatTime(run.StartedAt), formatTime(run.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: record run for task %d: %w", run.TaskID, err)
	}
	return nil
}

// PruneRuns implements store.RunLog.
func (s *taskStore) PruneRuns(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM task_runs WHERE finished_at < ?",
		formatTime(cutoff),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sqlite: prune runs affected: %w", err)
	}
	return n, nil
}

// RecentRuns implements store.RunLog.
func (s *taskStore) RecentRuns(ctx context.Context, limit int) ([]task.Run, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, status, error, result_size, started_at, finished_at
		FROM task_runs
		ORDER BY id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []task.Run
	for rows.Next() {
		var (
			r                     task.Run
			status                string
			startedAt, finishedAt string
		)
		if err := rows.Scan(&r.ID, &r.TaskID, &status, &r.Error, &r.ResultSize, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan run: %w", err)
		}
		r.Status = task.RunStatus(status)
		if r.StartedAt, err = parseTime(startedAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse started_at: %w", err)
		}
		if r.FinishedAt, err = parseTime(finishedAt); err != nil {
			return nil, fmt.Errorf("sqlite: parse finished_at: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: recent runs rows: %w", err)
	}
	return runs, nil
}

// InsertTask implements store.Admin.
func (s *taskStore) InsertTask(ctx context.Context, t task.Task) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scheduled_tasks (task_title, task_description, frequency, role_text, next_run)
		VALUES (?, ?, ?, ?, ?)`,
		t.Title, t.Description, t.Frequency, t.Role, formatTime(t.NextRun),
	)
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sqlite: insert task id: %w", err)
	}
	return id, nil
}

// ListTasks implements store.Admin.
func (s *taskStore) ListTasks(ctx context.Context) ([]task.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_title, task_description, frequency, role_text, next_run
		FROM scheduled_tasks
		ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTasks(rows)
}

// AddRecipient implements store.Admin. Adding the same role/address
// pair twice is a no-op.
func (s *taskStore) AddRecipient(ctx context.Context, role, address string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO task_recipients (role_text, email) VALUES (?, ?)",
		role, address,
	)
	if err != nil {
		return fmt.Errorf("sqlite: add recipient: %w", err)
	}
	return nil
}

func scanTasks(rows *sql.Rows) ([]task.Task, error) {
	var tasks []task.Task
	for rows.Next() {
		var (
			t       task.Task
			nextRun string
		)
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.Frequency, &t.Role, &nextRun); err != nil {
			return nil, fmt.Errorf("sqlite: scan task: %w", err)
		}
		parsed, err := parseTime(nextRun)
		if err != nil {
			return nil, fmt.Errorf("sqlite: parse next_run for task %d: %w", t.ID, err)
		}
		t.NextRun = parsed
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: task rows: %w", err)
	}
	return tasks, nil
}
