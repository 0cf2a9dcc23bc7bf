package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TokenStore provides and persists the bearer token pair. Implemented by
// the local credential store; a nil TokenStore makes all requests anonymous.
type TokenStore interface {
	// Tokens returns the current pair. Empty access token means logged out.
	Tokens(ctx context.Context) (Tokens, error)

	// Save persists a refreshed pair.
	Save(ctx context.Context, t Tokens) error

	// Clear drops the stored pair (refresh rejected, or explicit logout).
	Clear(ctx context.Context) error
}

// Client talks to the ComplyX backend. All methods take a context and
// return typed errors from errors.go. Responses are schema-validated
// before decoding.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTokenStore attaches a credential store for bearer auth.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

// New creates a Client for the given base URL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// get performs a GET with query parameters and decodes into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, schemaName string, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, schemaName, out, true)
}

// post performs a POST with a JSON body and decodes into out (nil to discard).
func (c *Client) post(ctx context.Context, path string, body any, schemaName string, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, schemaName, out, true)
}

func (c *Client) put(ctx context.Context, path string, body any, schemaName string, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, schemaName, out, true)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, "", nil, true)
}

// do executes one request. On a 401 with a stored refresh token it refreshes
// and retries exactly once; a second 401 surfaces as ErrAuth.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, schemaName string, out any, allowRefresh bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	var access string
	if c.tokens != nil {
		t, err := c.tokens.Tokens(ctx)
		if err != nil {
			return fmt.Errorf("load tokens: %w", err)
		}
		access = t.AccessToken
	}
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ErrNetwork{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrNetwork{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode == http.StatusUnauthorized && allowRefresh && c.tokens != nil {
		if ok := c.tryRefresh(ctx); ok {
			return c.do(ctx, method, path, query, body, schemaName, out, false)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp, raw)
	}

	if out == nil {
		return nil
	}

	if schemaName != "" {
		if err := validatePayload(schemaName, raw); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}

// tryRefresh exchanges the refresh token for a new pair. Returns false when
// no refresh token is stored or the exchange fails; a rejected refresh token
// clears the stored credentials so the next attempt starts clean.
func (c *Client) tryRefresh(ctx context.Context) bool {
	t, err := c.tokens.Tokens(ctx)
	if err != nil || t.RefreshToken == "" {
		return false
	}

	var result AuthResult
	body := map[string]string{"refreshToken": t.RefreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", nil, body, schemaAuthResult, &result, false); err != nil {
		var auth *ErrAuth
		if errors.As(err, &auth) {
			_ = c.tokens.Clear(ctx)
		}
		return false
	}

	if err := c.tokens.Save(ctx, result.Tokens); err != nil {
		return false
	}
	return true
}
