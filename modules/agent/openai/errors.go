package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// errAuth is a non-retryable authentication error.
var errAuth = errors.New("agent.openai: authentication failed")

// errBackendDown marks network-level or 5xx backend failures.
var errBackendDown = errors.New("agent.openai: backend unavailable")

// mapHTTPError maps an HTTP status code and response body to an error.
// Returns nil for 2xx status codes.
func mapHTTPError(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	// Try to extract the error message from the response body.
	var msg string
	var apiErr apiError
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	} else {
		msg = string(body)
	}

	switch {
	case statusCode == 401 || statusCode == 403:
		return fmt.Errorf("%w: %s", errAuth, msg)
	case statusCode >= 500:
		return fmt.Errorf("%w: %s", errBackendDown, msg)
	default:
		return fmt.Errorf("agent.openai: HTTP %d: %s", statusCode, msg)
	}
}

// mapConnectionError maps network-level errors. Context errors pass
// through unchanged so timeout and cancellation stay distinguishable.
func mapConnectionError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", errBackendDown, err)
	}
	return fmt.Errorf("agent.openai: %w", err)
}
