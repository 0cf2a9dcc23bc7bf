package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrAuth indicates the backend rejected the request as unauthenticated (401).
// Auth errors are never auto-retried; the caller should prompt for login.
type ErrAuth struct {
	Err error
}

func (e *ErrAuth) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication required: %v", e.Err)
	}
	return "authentication required"
}

func (e *ErrAuth) Unwrap() error { return e.Err }

// ErrRateLimit indicates the backend returned 429. RetryAfter is extracted
// from the Retry-After header when present, zero otherwise.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrNetwork indicates the request never reached the backend (connection
// failure, DNS, timeout).
type ErrNetwork struct {
	Err error
}

func (e *ErrNetwork) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *ErrNetwork) Unwrap() error { return e.Err }

// ErrServer indicates a 5xx response from the backend.
type ErrServer struct {
	StatusCode int
	Err        error
}

func (e *ErrServer) Error() string {
	return fmt.Sprintf("server error (%d): %v", e.StatusCode, e.Err)
}

func (e *ErrServer) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the backend returned a payload that does not
// conform to the expected schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// Kind classifies an error for presentation policy decisions.
type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindNetwork   Kind = "network"
	KindServer    Kind = "server"
	KindUnknown   Kind = "unknown"
)

// Classify maps an error to its Kind. Context cancellation is reported as
// network (the request was abandoned, not refused).
func Classify(err error) Kind {
	var auth *ErrAuth
	if errors.As(err, &auth) {
		return KindAuth
	}
	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return KindRateLimit
	}
	var netErr *ErrNetwork
	if errors.As(err, &netErr) {
		return KindNetwork
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var srv *ErrServer
	if errors.As(err, &srv) {
		return KindServer
	}
	return KindUnknown
}

// Retryable reports whether the caller may offer a manual retry for err.
// Auth and rate-limit errors are excluded per policy.
func Retryable(err error) bool {
	switch Classify(err) {
	case KindAuth, KindRateLimit:
		return false
	default:
		return true
	}
}

// statusError builds the typed error for a non-2xx response. body carries
// the backend's error payload, used for the message when decodable.
func statusError(resp *http.Response, body []byte) error {
	msg := backendMessage(body)
	base := fmt.Errorf("%s", msg)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &ErrAuth{Err: base}
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")), Err: base}
	case resp.StatusCode >= 500:
		return &ErrServer{StatusCode: resp.StatusCode, Err: base}
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
}

// backendMessage extracts the "error" field from a JSON error payload,
// falling back to the raw body.
func backendMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	if len(body) == 0 {
		return "no response body"
	}
	const max = 200
	if len(body) > max {
		return string(body[:max])
	}
	return string(body)
}

// parseRetryAfter handles both delta-seconds and HTTP-date forms.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
