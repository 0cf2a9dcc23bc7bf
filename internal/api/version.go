package api

import "context"

// Version fetches the backend's client compatibility requirements.
func (c *Client) Version(ctx context.Context) (*VersionInfo, error) {
	var info VersionInfo
	if err := c.get(ctx, "/api/version", nil, schemaVersionInfo, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
