package version

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyx/complyx/internal/api"
)

type fakeChecker struct {
	info *api.VersionInfo
	err  error
}

func (f *fakeChecker) Version(ctx context.Context) (*api.VersionInfo, error) {
	return f.info, f.err
}

func withVersion(t *testing.T, v string) {
	t.Helper()
	old := Version
	Version = v
	t.Cleanup(func() { Version = old })
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		client     string
		min        string
		latest     string
		supported  bool
		updateHint bool
	}{
		{"up to date", "v1.2.0", "1.0.0", "1.2.0", true, false},
		{"older than latest", "v1.1.0", "1.0.0", "1.2.0", true, true},
		{"below minimum", "v0.9.0", "1.0.0", "1.2.0", false, true},
		{"unprefixed versions", "1.2.0", "1.0.0", "1.2.0", true, false},
		{"no requirements", "v1.2.0", "", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, tt.client)
			c := &fakeChecker{info: &api.VersionInfo{
				MinClientVersion: tt.min,
				LatestVersion:    tt.latest,
			}}

			result, err := Check(context.Background(), c)
			require.NoError(t, err)
			assert.Equal(t, tt.supported, result.Supported)
			assert.Equal(t, tt.updateHint, result.UpdateHint)
		})
	}
}

func TestCheck_DevBuildAlwaysSupported(t *testing.T) {
	withVersion(t, "(devel)")
	c := &fakeChecker{info: &api.VersionInfo{MinClientVersion: "99.0.0"}}

	result, err := Check(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, result.Supported)
	assert.False(t, result.UpdateHint)
}

func TestCheck_BackendUnreachable(t *testing.T) {
	c := &fakeChecker{err: errors.New("connection refused")}
	_, err := Check(context.Background(), c)
	require.Error(t, err)
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "v1.2.0", canonical("1.2"))
	assert.Equal(t, "v1.2.3", canonical("v1.2.3"))
	assert.Equal(t, "", canonical("garbage"))
	assert.Equal(t, "", canonical(""))
}
