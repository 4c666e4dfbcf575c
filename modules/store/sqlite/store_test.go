package sqlite

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/omarawad11/finsched/internal/core"
	"github.com/omarawad11/finsched/internal/task"
)

func newTestModule(t *testing.T) *Module {
	t.Helper()

	dir := t.TempDir()
	m := &Module{
		config: Config{
			Path:        filepath.Join(dir, "test.db"),
			BusyTimeout: defaultBusyTimeout,
		},
	}
	m.config.defaults()

	ctx := core.NewAppContext(slog.Default(), dir)

	if err := m.Provision(ctx); err != nil {
		t.Fatalf("provision: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	t.Cleanup(func() {
		_ = m.Stop(context.Background())
	})

	return m
}

func mustInsert(t *testing.T, s *taskStore, tk task.Task) int64 {
	t.Helper()
	id, err := s.InsertTask(context.Background(), tk)
	if err != nil {
		t.Fatalf("insert task: %v", err)
	}
	return id
}

func TestDueTasks(t *testing.T) {
	m := newTestModule(t)
	s := m.tasks
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)

	pastID := mustInsert(t, s, task.Task{
		Title: "sales summary", Description: "summarize sales",
		Frequency: "daily", Role: "manager",
		NextRun: now.Add(-5 * time.Minute),
	})
	exactID := mustInsert(t, s, task.Task{
		Title: "refund audit", Description: "list refunds",
		Frequency: "hourly", Role: "finance",
		NextRun: now,
	})
	mustInsert(t, s, task.Task{
		Title: "future", Description: "not yet",
		Frequency: "daily", Role: "manager",
		NextRun: now.Add(time.Minute),
	})

	due, err := s.DueTasks(ctx, now)
	if err != nil {
		t.Fatalf("due tasks: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 due tasks, got %d", len(due))
	}
	if due[0].ID != pastID || due[1].ID != exactID {
		t.Errorf("due tasks out of store order: got %d, %d", due[0].ID, due[1].ID)
	}
	if due[0].Description != "summarize sales" {
		t.Errorf("description round-trip: got %q", due[0].Description)
	}
	if !due[1].NextRun.Equal(now) {
		t.Errorf("next_run round-trip: got %v, want %v", due[1].NextRun, now)
	}
}

func TestAdvanceNextRun(t *testing.T) {
	m := newTestModule(t)
	s := m.tasks
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 5, 0, 0, time.UTC)
	id := mustInsert(t, s, task.Task{
		Title: "t", Description: "d", Frequency: "daily", Role: "r",
		NextRun: now.Add(-time.Hour),
	})

	next := task.NextRun("daily", now)
	if err := s.AdvanceNextRun(ctx, id, next); err != nil {
		t.Fatalf("advance: %v", err)
	}

	due, err := s.DueTasks(ctx, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(due) != 0 {
		t.Errorf("task should no longer be due after advancing, got %d due", len(due))
	}

	all, err := s.ListTasks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || !all[0].NextRun.Equal(next) {
		t.Errorf("next_run not persisted: %+v", all)
	}
}

func TestAdvanceNextRun_UnknownTask(t *testing.T) {
	m := newTestModule(t)

	err := m.tasks.AdvanceNextRun(context.Background(), 9999, time.Now())
	if err == nil {
		t.Fatal("expected error for unknown task id")
	}
}

func TestRecipientsByRole(t *testing.T) {
	m := newTestModule(t)
	s := m.tasks
	ctx := context.Background()

	for _, addr := range []string{"a@example.com", "b@example.com"} {
		if err := s.AddRecipient(ctx, "manager", addr); err != nil {
			t.Fatalf("add recipient: %v", err)
		}
	}
	// Duplicate insert is a no-op.
	if err := s.AddRecipient(ctx, "manager", "a@example.com"); err != nil {
		t.Fatalf("duplicate recipient: %v", err)
	}
	if err := s.AddRecipient(ctx, "finance", "c@example.com"); err != nil {
		t.Fatal(err)
	}

	got, err := s.RecipientsByRole(ctx, "manager")
	if err != nil {
		t.Fatalf("recipients: %v", err)
	}
	if len(got) != 2 || got[0] != "a@example.com" || got[1] != "b@example.com" {
		t.Errorf("unexpected recipients: %v", got)
	}

	none, err := s.RecipientsByRole(ctx, "nobody")
	if err != nil {
		t.Fatalf("unknown role should not error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("unknown role should resolve to zero recipients, got %v", none)
	}
}

func TestRunLog(t *testing.T) {
	m := newTestModule(t)
	s := m.tasks
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.RecordRun(ctx, task.Run{
			TaskID:     int64(i + 1),
			Status:     task.RunOK,
			ResultSize: 100 * (i + 1),
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Minute),
		})
		if err != nil {
			t.Fatalf("record run: %v", err)
		}
	}

	runs, err := s.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].TaskID != 3 {
		t.Errorf("recent runs should be newest first, got task %d", runs[0].TaskID)
	}

	pruned, err := s.PruneRuns(ctx, base.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 1 {
		t.Errorf("expected 1 pruned run, got %d", pruned)
	}

	left, err := s.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 2 {
		t.Errorf("expected 2 runs after prune, got %d", len(left))
	}
}

func TestMigrateIdempotent(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Path: filepath.Join(dir, "twice.db")}

	db1, err := Open(cfg)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	_ = db1.Close()

	db2, err := Open(cfg)
	if err != nil {
		t.Fatalf("second open should reuse schema: %v", err)
	}
	_ = db2.Close()
}
