package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"auth", &ErrAuth{}, KindAuth},
		{"rate limit", &ErrRateLimit{}, KindRateLimit},
		{"network", &ErrNetwork{Err: errors.New("refused")}, KindNetwork},
		{"server", &ErrServer{StatusCode: 502}, KindServer},
		{"cancelled", context.Canceled, KindNetwork},
		{"deadline", context.DeadlineExceeded, KindNetwork},
		{"wrapped auth", fmt.Errorf("call: %w", &ErrAuth{}), KindAuth},
		{"plain", errors.New("whatever"), KindUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.err); got != tc.want {
			t.Errorf("%s: Classify = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(&ErrAuth{}) {
		t.Error("auth errors must not be retryable")
	}
	if Retryable(&ErrRateLimit{RetryAfter: time.Second}) {
		t.Error("rate limit errors must not be retryable")
	}
	if !Retryable(&ErrServer{StatusCode: 500}) {
		t.Error("server errors should be retryable")
	}
	if !Retryable(&ErrNetwork{}) {
		t.Error("network errors should be retryable")
	}
}

func TestParseRetryAfter_DeltaSeconds(t *testing.T) {
	if got := parseRetryAfter("30"); got != 30*time.Second {
		t.Fatalf("parseRetryAfter(30) = %s", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Fatalf("empty header = %s", got)
	}
	if got := parseRetryAfter("garbage"); got != 0 {
		t.Fatalf("garbage header = %s", got)
	}
}

func TestParseRetryAfter_HTTPDate(t *testing.T) {
	future := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(future)
	if got < 80*time.Second || got > 90*time.Second {
		t.Fatalf("future date = %s", got)
	}

	past := time.Now().Add(-time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(past); got != 0 {
		t.Fatalf("past date = %s", got)
	}
}

func TestBackendMessage(t *testing.T) {
	if got := backendMessage([]byte(`{"error":"bad input"}`)); got != "bad input" {
		t.Fatalf("error field: %q", got)
	}
	if got := backendMessage([]byte(`{"message":"try later"}`)); got != "try later" {
		t.Fatalf("message field: %q", got)
	}
	if got := backendMessage(nil); got != "no response body" {
		t.Fatalf("empty body: %q", got)
	}
	if got := backendMessage([]byte("plain text")); got != "plain text" {
		t.Fatalf("raw body: %q", got)
	}
}

func TestErrorUnwrapChains(t *testing.T) {
	inner := errors.New("root cause")
	wrapped := fmt.Errorf("request failed: %w", &ErrServer{StatusCode: 503, Err: inner})

	if !errors.Is(wrapped, inner) {
		t.Fatal("inner error lost through the chain")
	}
	var srv *ErrServer
	if !errors.As(wrapped, &srv) || srv.StatusCode != 503 {
		t.Fatal("typed error lost through the chain")
	}
}
