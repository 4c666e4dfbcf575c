package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// maxResponseSize is the maximum response body size (10 MB).
// Protects against OOM from malformed or huge responses.
const maxResponseSize = 10 * 1024 * 1024

// newHTTPRequest creates an authenticated Assistants API request.
// A nil payload produces an empty body (thread creation, run retrieval).
func (inv *Invoker) newHTTPRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("agent.openai: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, inv.config.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("agent.openai: create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+inv.config.APIKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	return req, nil
}

// doJSON sends a request and decodes the 2xx response body into out.
// Non-2xx responses are mapped to errors; out may be nil to discard
// the body.
func (inv *Invoker) doJSON(ctx context.Context, method, path string, payload, out any) error {
	req, err := inv.newHTTPRequest(ctx, method, path, payload)
	if err != nil {
		return err
	}

	resp, err := inv.client.Do(req)
	if err != nil {
		return mapConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("agent.openai: read response: %w", err)
	}

	if httpErr := mapHTTPError(resp.StatusCode, body); httpErr != nil {
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("agent.openai: unmarshal response: %w", err)
	}
	return nil
}

// uploadFile pushes the dataset to the backend with purpose
// "assistants" and returns the opaque file id.
func (inv *Invoker) uploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("agent.openai: open dataset %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("purpose", "assistants"); err != nil {
		return "", fmt.Errorf("agent.openai: write purpose field: %w", err)
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("agent.openai: create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("agent.openai: copy dataset: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("agent.openai: finalize upload body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, inv.config.BaseURL+"/files", &buf)
	if err != nil {
		return "", fmt.Errorf("agent.openai: create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+inv.config.APIKey)

	resp, err := inv.client.Do(req)
	if err != nil {
		return "", mapConnectionError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("agent.openai: read upload response: %w", err)
	}
	if httpErr := mapHTTPError(resp.StatusCode, body); httpErr != nil {
		return "", httpErr
	}

	var file fileObject
	if err := json.Unmarshal(body, &file); err != nil {
		return "", fmt.Errorf("agent.openai: unmarshal upload response: %w", err)
	}
	return file.ID, nil
}

// deleteQuietly issues a best-effort DELETE for an ephemeral resource
// (assistant, uploaded file). Failures are logged, never propagated.
func (inv *Invoker) deleteQuietly(ctx context.Context, path string) {
	if err := inv.doJSON(ctx, http.MethodDelete, path, nil, nil); err != nil {
		inv.logger.Warn("agent: ephemeral resource cleanup failed", "path", path, "error", err)
	}
}
