package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// memTokenStore is an in-memory TokenStore for tests.
type memTokenStore struct {
	mu      sync.Mutex
	tokens  Tokens
	cleared bool
}

func (m *memTokenStore) Tokens(ctx context.Context) (Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens, nil
}

func (m *memTokenStore) Save(ctx context.Context, t Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = t
	m.cleared = false
	return nil
}

func (m *memTokenStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = Tokens{}
	m.cleared = true
	return nil
}

func authResultJSON(access, refresh string) string {
	return `{"accessToken":"` + access + `","refreshToken":"` + refresh + `","user":{"id":"u1","email":"a@b.co","name":"A","role":"user","emailVerified":true,"createdAt":"2026-01-01T00:00:00Z"}}`
}

func TestClient_ChatSingleRequest(t *testing.T) {
	var calls int
	var gotBody ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path != "/api/chat" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"message":"hello back"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	reply, err := c.Chat(context.Background(), ChatRequest{
		Message:  "hello",
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hello back" {
		t.Fatalf("reply = %q", reply)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
	if gotBody.Message != "hello" || len(gotBody.Messages) != 1 {
		t.Fatalf("body = %+v", gotBody)
	}
}

func TestClient_BearerHeaderAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	ts := &memTokenStore{tokens: Tokens{AccessToken: "tok123", RefreshToken: "ref123"}}
	c := New(srv.URL, time.Second, WithTokenStore(ts))
	if _, err := c.Chat(context.Background(), ChatRequest{Message: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
}

func TestClient_RefreshAndRetryOn401(t *testing.T) {
	var chatCalls, refreshCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat":
			chatCalls++
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"token expired"}`))
				return
			}
			w.Write([]byte(`{"message":"ok"}`))
		case "/api/auth/refresh":
			refreshCalls++
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			if body["refreshToken"] != "ref1" {
				t.Fatalf("refresh token sent: %q", body["refreshToken"])
			}
			w.Write([]byte(authResultJSON("fresh", "ref2")))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	ts := &memTokenStore{tokens: Tokens{AccessToken: "stale", RefreshToken: "ref1"}}
	c := New(srv.URL, time.Second, WithTokenStore(ts))

	reply, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "ok" {
		t.Fatalf("reply = %q", reply)
	}
	if chatCalls != 2 || refreshCalls != 1 {
		t.Fatalf("chat=%d refresh=%d, want 2/1", chatCalls, refreshCalls)
	}
	if ts.tokens.AccessToken != "fresh" || ts.tokens.RefreshToken != "ref2" {
		t.Fatalf("tokens not rotated: %+v", ts.tokens)
	}
}

func TestClient_RefreshRejectedClearsTokensAndSurfacesAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	ts := &memTokenStore{tokens: Tokens{AccessToken: "stale", RefreshToken: "dead"}}
	c := New(srv.URL, time.Second, WithTokenStore(ts))

	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})
	var auth *ErrAuth
	if !errors.As(err, &auth) {
		t.Fatalf("expected ErrAuth, got %T: %v", err, err)
	}
	if !ts.cleared {
		t.Fatal("rejected refresh did not clear stored tokens")
	}
}

func TestClient_RateLimitWithRetryAfter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":"slow down"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})

	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T: %v", err, err)
	}
	if rl.RetryAfter != 7*time.Second {
		t.Fatalf("RetryAfter = %s", rl.RetryAfter)
	}
	if Retryable(err) {
		t.Fatal("rate limit must not be retryable")
	}
}

func TestClient_ServerErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})

	var srvErr *ErrServer
	if !errors.As(err, &srvErr) {
		t.Fatalf("expected ErrServer, got %T: %v", err, err)
	}
	if srvErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", srvErr.StatusCode)
	}
	if !Retryable(err) {
		t.Fatal("server error should be retryable")
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening

	c := New(srv.URL, 100*time.Millisecond)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})

	var netErr *ErrNetwork
	if !errors.As(err, &netErr) {
		t.Fatalf("expected ErrNetwork, got %T: %v", err, err)
	}
	if Classify(err) != KindNetwork {
		t.Fatalf("kind = %s", Classify(err))
	}
}

func TestClient_MalformedPayloadInvalidResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Missing the required "message" field.
		w.Write([]byte(`{"unexpected":"shape"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	_, err := c.Chat(context.Background(), ChatRequest{Message: "hi"})

	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T: %v", err, err)
	}
	if len(invalid.Content) == 0 {
		t.Fatal("offending payload not attached")
	}
}

func TestClient_ContextCancellationPassesThrough(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	c := New(srv.URL, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := c.Chat(ctx, ChatRequest{Message: "hi"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestClient_NextQuestionPhaseComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/questions/next" {
			t.Fatalf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"question":null,"phaseComplete":true,"remaining":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	next, err := c.NextQuestion(context.Background(), StandardS1, PhaseQuick, "a1", []string{"q1", "q2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !next.PhaseComplete || next.Question != nil {
		t.Fatalf("next = %+v", next)
	}
}
