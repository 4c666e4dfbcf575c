package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/omarawad11/finsched/internal/agent"
	"github.com/omarawad11/finsched/internal/notify"
	"github.com/omarawad11/finsched/internal/task"
)

func newTestExecutor(st *fakeStore, inv agent.Invoker, ch notify.Channel) *Executor {
	logger := slog.Default()
	return NewExecutor(inv, notify.NewFanout(st, ch, logger), st, logger)
}

func TestExecute_TimeoutRecordedDistinctFromFailure(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	inv := &fakeInvoker{errs: map[string]error{
		"slow": fmt.Errorf("%w after 10m", agent.ErrRunTimeout),
	}}
	ex := newTestExecutor(st, inv, &fakeChannel{})

	err := ex.Execute(context.Background(), task.Task{ID: 1, Title: "slow", Description: "slow", Role: "r"})
	if !errors.Is(err, agent.ErrRunTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if len(st.runs) != 1 || st.runs[0].Status != task.RunTimeout {
		t.Errorf("expected timeout run record, got %+v", st.runs)
	}
}

func TestExecute_EmptyResultSkipsNotification(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.recipients["r"] = []string{"r@example.com"}
	inv := &fakeInvoker{results: map[string]string{"quiet": ""}}
	ch := &fakeChannel{}
	ex := newTestExecutor(st, inv, ch)

	if err := ex.Execute(context.Background(), task.Task{ID: 2, Title: "quiet", Description: "quiet", Role: "r"}); err != nil {
		t.Fatalf("empty result is not an error: %v", err)
	}
	if len(ch.sent) != 0 {
		t.Errorf("no notification expected for empty result, got %v", ch.sent)
	}
	if len(st.runs) != 1 || st.runs[0].Status != task.RunEmpty {
		t.Errorf("expected empty run record, got %+v", st.runs)
	}
}

func TestExecute_RecordsResultSize(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.recipients["r"] = []string{"r@example.com"}
	inv := &fakeInvoker{results: map[string]string{"report": "four"}}
	ex := newTestExecutor(st, inv, &fakeChannel{})

	if err := ex.Execute(context.Background(), task.Task{ID: 3, Title: "report", Description: "report", Role: "r"}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(st.runs) != 1 {
		t.Fatalf("expected one run record, got %d", len(st.runs))
	}
	run := st.runs[0]
	if run.Status != task.RunOK || run.ResultSize != 4 {
		t.Errorf("unexpected run record %+v", run)
	}
	if run.FinishedAt.Before(run.StartedAt) {
		t.Errorf("finished %v before started %v", run.FinishedAt, run.StartedAt)
	}
}

func TestExecute_NilRunLog(t *testing.T) {
	t.Parallel()

	st := newFakeStore()
	st.recipients["r"] = []string{"r@example.com"}
	inv := &fakeInvoker{results: map[string]string{"report": "ok"}}
	logger := slog.Default()
	ex := NewExecutor(inv, notify.NewFanout(st, &fakeChannel{}, logger), nil, logger)
	ex.now = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }

	if err := ex.Execute(context.Background(), task.Task{ID: 4, Title: "report", Description: "report", Role: "r"}); err != nil {
		t.Fatalf("execute without run log: %v", err)
	}
}
