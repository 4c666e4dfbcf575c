package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/omarawad11/finsched/internal/agent"
)

// cleanupTimeout bounds the best-effort deletion of ephemeral
// resources after an invocation, successful or not.
const cleanupTimeout = 10 * time.Second

// Invoke implements agent.Invoker. One call drives the full protocol:
//
//	upload dataset → create assistant → create thread → post message
//	→ create run → poll to terminal state → extract final answer
//
// Every resource is created fresh for this call and discarded
// afterwards; nothing is shared across invocations. The whole cycle is
// bounded by the configured run timeout, which surfaces as
// agent.ErrRunTimeout rather than a run failure.
func (inv *Invoker) Invoke(ctx context.Context, description string) (string, error) {
	started := time.Now()
	result, err := inv.invoke(ctx, description)
	invocationDuration.WithLabelValues(outcomeLabel(result, err)).Observe(time.Since(started).Seconds())
	return result, err
}

func (inv *Invoker) invoke(ctx context.Context, description string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, inv.config.runTimeout())
	defer cancel()

	fileID, err := inv.uploadFile(ctx, inv.config.DatasetPath)
	if err != nil {
		return "", fmt.Errorf("%w: %w", agent.ErrUploadFailed, err)
	}
	defer inv.cleanup("/files/" + fileID)

	assistant, err := inv.createAssistant(ctx, fileID)
	if err != nil {
		return "", err
	}
	defer inv.cleanup("/assistants/" + assistant.ID)

	var thread threadObject
	if err := inv.doJSON(ctx, http.MethodPost, "/threads", nil, &thread); err != nil {
		return "", fmt.Errorf("agent.openai: create thread: %w", err)
	}

	msg := messageCreateRequest{Role: "user", Content: description}
	if err := inv.doJSON(ctx, http.MethodPost, "/threads/"+thread.ID+"/messages", msg, nil); err != nil {
		return "", fmt.Errorf("agent.openai: post message: %w", err)
	}

	var run runObject
	runReq := runCreateRequest{AssistantID: assistant.ID}
	if err := inv.doJSON(ctx, http.MethodPost, "/threads/"+thread.ID+"/runs", runReq, &run); err != nil {
		return "", fmt.Errorf("agent.openai: start run: %w", err)
	}

	if err := inv.pollRun(ctx, thread.ID, run.ID); err != nil {
		return "", err
	}

	return inv.extractAnswer(ctx, thread.ID)
}

// createAssistant creates the single-use assistant configuration:
// timestamped instructions, the code-execution tool, and the uploaded
// dataset bound to it.
func (inv *Invoker) createAssistant(ctx context.Context, fileID string) (assistantObject, error) {
	req := assistantCreateRequest{
		Model:        inv.config.Model,
		Instructions: inv.buildInstructions(inv.now()),
		Temperature:  inv.config.Temperature,
		Tools:        []toolSpec{{Type: "code_interpreter"}},
		ToolResources: &toolResources{
			CodeInterpreter: &codeInterpreterResources{FileIDs: []string{fileID}},
		},
	}

	var assistant assistantObject
	if err := inv.doJSON(ctx, http.MethodPost, "/assistants", req, &assistant); err != nil {
		return assistantObject{}, fmt.Errorf("agent.openai: create assistant: %w", err)
	}
	return assistant, nil
}

// pollRun fetches run status at a fixed interval until a terminal
// state. completed returns nil; failed, cancelled and expired map to
// agent.ErrRunFailed; hitting the invocation deadline maps to
// agent.ErrRunTimeout.
func (inv *Invoker) pollRun(ctx context.Context, threadID, runID string) error {
	ticker := time.NewTicker(inv.config.pollInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return fmt.Errorf("%w: run %s still pending", agent.ErrRunTimeout, runID)
			}
			return ctx.Err()
		case <-ticker.C:
		}

		var run runObject
		if err := inv.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &run); err != nil {
			// A poll that dies on the deadline is a timeout outcome too.
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: run %s still pending", agent.ErrRunTimeout, runID)
			}
			return fmt.Errorf("agent.openai: poll run: %w", err)
		}

		switch run.Status {
		case runStatusCompleted:
			return nil
		case runStatusFailed, runStatusCancelled, runStatusExpired:
			detail := run.Status
			if run.LastError != nil && run.LastError.Message != "" {
				detail = fmt.Sprintf("%s: %s", run.Status, run.LastError.Message)
			}
			return fmt.Errorf("%w: %s", agent.ErrRunFailed, detail)
		default:
			// queued, in_progress, requires_action: keep polling.
		}
	}
}

// extractAnswer lists the thread messages chronologically and returns
// the trimmed first text part of the last assistant-authored one. No
// assistant message means an empty result, not an error.
func (inv *Invoker) extractAnswer(ctx context.Context, threadID string) (string, error) {
	var list messageList
	if err := inv.doJSON(ctx, http.MethodGet, "/threads/"+threadID+"/messages?order=asc", nil, &list); err != nil {
		return "", fmt.Errorf("agent.openai: list messages: %w", err)
	}

	var last *messageObject
	for i := range list.Data {
		if list.Data[i].Role == "assistant" {
			last = &list.Data[i]
		}
	}
	if last == nil {
		return "", nil
	}

	for _, part := range last.Content {
		if part.Type == "text" && part.Text != nil {
			return strings.TrimSpace(part.Text.Value), nil
		}
	}
	return "", nil
}

// outcomeLabel classifies an invocation result for metrics.
func outcomeLabel(result string, err error) string {
	switch {
	case errors.Is(err, agent.ErrRunTimeout):
		return "timeout"
	case errors.Is(err, agent.ErrUploadFailed):
		return "upload_failed"
	case errors.Is(err, agent.ErrRunFailed):
		return "run_failed"
	case err != nil:
		return "error"
	case result == "":
		return "empty"
	default:
		return "ok"
	}
}

// cleanup deletes an ephemeral resource on its own context so it still
// runs when the invocation context is already dead.
func (inv *Invoker) cleanup(path string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	inv.deleteQuietly(ctx, path)
}
