package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/omarawad11/finsched/internal/task"
)

// fakeResolver implements the store.TaskStore methods the fan-out uses.
type fakeResolver struct {
	recipients map[string][]string
	err        error
}

func (f *fakeResolver) RecipientsByRole(_ context.Context, role string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.recipients[role], nil
}

func (f *fakeResolver) DueTasks(context.Context, time.Time) ([]task.Task, error) { return nil, nil }
func (f *fakeResolver) AdvanceNextRun(context.Context, int64, time.Time) error   { return nil }

// fakeChannel records sends and fails selected recipients.
type fakeChannel struct {
	sent    []string
	failFor map[string]bool
}

func (c *fakeChannel) Send(_ context.Context, recipient, _, _ string) error {
	if c.failFor[recipient] {
		return errors.New("smtp: connection refused")
	}
	c.sent = append(c.sent, recipient)
	return nil
}

func TestNotify_FanOut(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{recipients: map[string][]string{
		"manager": {"a@example.com", "b@example.com", "c@example.com"},
	}}
	ch := &fakeChannel{}
	f := NewFanout(resolver, ch, nil)

	if err := f.Notify(context.Background(), "manager", "subject", "body"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(ch.sent) != 3 {
		t.Errorf("expected 3 dispatches, got %v", ch.sent)
	}
}

func TestNotify_RecipientFailureIsolated(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{recipients: map[string][]string{
		"manager": {"a@example.com", "b@example.com", "c@example.com"},
	}}
	ch := &fakeChannel{failFor: map[string]bool{"b@example.com": true}}
	f := NewFanout(resolver, ch, nil)

	if err := f.Notify(context.Background(), "manager", "s", "b"); err != nil {
		t.Fatalf("one bad recipient must not fail the fan-out: %v", err)
	}
	if len(ch.sent) != 2 || ch.sent[0] != "a@example.com" || ch.sent[1] != "c@example.com" {
		t.Errorf("remaining recipients should still receive: %v", ch.sent)
	}
}

func TestNotify_ZeroRecipients(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{recipients: map[string][]string{}}
	ch := &fakeChannel{}
	f := NewFanout(resolver, ch, nil)

	if err := f.Notify(context.Background(), "nobody", "s", "b"); err != nil {
		t.Fatalf("zero recipients is a no-op, not an error: %v", err)
	}
	if len(ch.sent) != 0 {
		t.Errorf("no dispatch expected, got %v", ch.sent)
	}
}

func TestNotify_ResolutionError(t *testing.T) {
	t.Parallel()

	resolver := &fakeResolver{err: errors.New("store down")}
	ch := &fakeChannel{}
	f := NewFanout(resolver, ch, nil)

	if err := f.Notify(context.Background(), "manager", "s", "b"); err == nil {
		t.Fatal("role resolution failure must surface")
	}
	if len(ch.sent) != 0 {
		t.Errorf("no dispatch on resolution failure, got %v", ch.sent)
	}
}
