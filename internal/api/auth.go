package api

import "context"

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Organization string `json:"organization,omitempty"`
}

// Register creates an account and returns the initial token pair. The pair
// is persisted to the token store when one is attached.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.post(ctx, "/api/auth/register", req, schemaAuthResult, &result); err != nil {
		return nil, err
	}
	c.saveTokens(ctx, result.Tokens)
	return &result, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and persists the returned token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	req := loginRequest{Email: email, Password: password}
	if err := c.post(ctx, "/api/auth/login", req, schemaAuthResult, &result); err != nil {
		return nil, err
	}
	c.saveTokens(ctx, result.Tokens)
	return &result, nil
}

// Logout invalidates the session server-side and clears stored credentials.
// Local credentials are cleared even when the backend call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/api/auth/logout", nil, "", nil)
	if c.tokens != nil {
		_ = c.tokens.Clear(ctx)
	}
	return err
}

// VerifyEmail confirms an email address with the emailed token.
func (c *Client) VerifyEmail(ctx context.Context, token string) error {
	return c.post(ctx, "/api/auth/verify-email", map[string]string{"token": token}, "", nil)
}

// ForgotPassword requests a password reset email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.post(ctx, "/api/auth/forgot-password", map[string]string{"email": email}, "", nil)
}

// ResetPassword sets a new password using an emailed reset token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	body := map[string]string{"token": token, "password": newPassword}
	return c.post(ctx, "/api/auth/reset-password", body, "", nil)
}

func (c *Client) saveTokens(ctx context.Context, t Tokens) {
	if c.tokens == nil {
		return
	}
	// Persist failure is not fatal for the call itself; the session simply
	// won't survive the process.
	_ = c.tokens.Save(ctx, t)
}
