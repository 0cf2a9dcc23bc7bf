package version

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/complyx/complyx/internal/api"
)

// Version is the client version, injected at build time via
// -ldflags "-X github.com/complyx/complyx/internal/version.Version=v1.2.3".
var Version = "(devel)"

// Current returns the build version, falling back to module build info for
// go-installed binaries.
func Current() string {
	if Version != "(devel)" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// CheckResult describes client/backend version compatibility.
type CheckResult struct {
	Client     string
	MinClient  string
	Latest     string
	Supported  bool
	UpdateHint bool // a newer client exists
}

// Checker asks the backend for its compatibility requirements.
type Checker interface {
	Version(ctx context.Context) (*api.VersionInfo, error)
}

// Check compares the running client against the backend's requirements.
// A dev build is always considered supported.
func Check(ctx context.Context, c Checker) (*CheckResult, error) {
	info, err := c.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch backend version info: %w", err)
	}

	current := Current()
	result := &CheckResult{
		Client:    current,
		MinClient: info.MinClientVersion,
		Latest:    info.LatestVersion,
		Supported: true,
	}
	if current == "(devel)" {
		return result, nil
	}

	cv := canonical(current)
	if min := canonical(info.MinClientVersion); min != "" && cv != "" {
		result.Supported = semver.Compare(cv, min) >= 0
	}
	if latest := canonical(info.LatestVersion); latest != "" && cv != "" {
		result.UpdateHint = semver.Compare(cv, latest) < 0
	}
	return result, nil
}

// canonical normalizes a version to semver "vX.Y.Z" form, "" when invalid.
func canonical(v string) string {
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return semver.Canonical(v)
}
