package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// AdminUsers lists users, paginated. All admin endpoints require a bearer
// token for an admin-role account; the backend enforces the role.
func (c *Client) AdminUsers(ctx context.Context, page, perPage int) (*UserPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		q.Set("perPage", strconv.Itoa(perPage))
	}
	var users UserPage
	if err := c.get(ctx, "/api/admin/users", q, "", &users); err != nil {
		return nil, err
	}
	return &users, nil
}

// AdminUserUpdate is a partial update; zero-valued fields are left unchanged.
type AdminUserUpdate struct {
	Name         string `json:"name,omitempty"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// AdminCreateUser provisions an account.
func (c *Client) AdminCreateUser(ctx context.Context, req RegisterRequest) (*User, error) {
	var user User
	if err := c.post(ctx, "/api/admin/users", req, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminUpdateUser applies a partial update to a user.
func (c *Client) AdminUpdateUser(ctx context.Context, userID string, update AdminUserUpdate) (*User, error) {
	var user User
	path := fmt.Sprintf("/api/admin/users/%s", url.PathEscape(userID))
	if err := c.put(ctx, path, update, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// AdminDeleteUser removes a user.
func (c *Client) AdminDeleteUser(ctx context.Context, userID string) error {
	return c.delete(ctx, fmt.Sprintf("/api/admin/users/%s", url.PathEscape(userID)))
}

// AdminStats fetches platform activity counters.
func (c *Client) AdminStats(ctx context.Context) (*AdminStats, error) {
	var stats AdminStats
	if err := c.get(ctx, "/api/admin/stats", nil, "", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// AdminAnalytics fetches aggregate usage analytics as an opaque document;
// the CLI renders whatever keys the backend returns.
func (c *Client) AdminAnalytics(ctx context.Context) (map[string]any, error) {
	var analytics map[string]any
	if err := c.get(ctx, "/api/admin/analytics", nil, "", &analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

// AdminAuditLogs lists recent audit entries.
func (c *Client) AdminAuditLogs(ctx context.Context, limit int) ([]AuditEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var entries []AuditEntry
	if err := c.get(ctx, "/api/admin/audit-logs", q, "", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// AdminOrganizations lists tenant organizations.
func (c *Client) AdminOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.get(ctx, "/api/admin/organizations", nil, "", &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}
