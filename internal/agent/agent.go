// Package agent defines the contract between the scheduler and the
// analytical agent backend that interprets task descriptions.
package agent

import (
	"context"
	"errors"
)

// Sentinel errors returned by Invoker implementations. The scheduler
// records them per task; none of them abort a scan.
var (
	// ErrUploadFailed means the context artifact could not be pushed
	// to the backend. Fatal to the invocation, no retry within it.
	ErrUploadFailed = errors.New("agent: context upload failed")

	// ErrRunFailed means the backend run reached a terminal
	// non-success state. No result is produced.
	ErrRunFailed = errors.New("agent: run failed")

	// ErrRunTimeout means the run did not reach a terminal state
	// within the invocation deadline. Distinct from ErrRunFailed.
	ErrRunTimeout = errors.New("agent: run timed out")
)

// Invoker drives one synchronous-looking request/response cycle against
// the agent backend. Each call creates a fresh ephemeral session;
// sessions are never reused across calls.
//
// The returned string is the trimmed text of the backend's final
// answer. An empty string with a nil error means the run completed but
// produced no agent-authored output; callers must treat that as
// "nothing to deliver", not as a failure.
type Invoker interface {
	Invoke(ctx context.Context, description string) (string, error)
}
