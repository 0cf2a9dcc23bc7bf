package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
	ErrBelowMinimum  = errors.New("release is below the backend minimum version")
)

// UpdateInput selects the update target. An empty TargetVersion means the
// latest published release. MinVersion, when set, is the backend's minimum
// supported client version; a release below it is refused rather than
// installed and immediately rejected by the backend.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
	MinVersion     string
}

// UpdateProgress reports update stages to the caller for display.
type UpdateProgress struct {
	Stage   string
	Message string
}

// Update downloads the release archive for this platform, verifies it
// against the published checksums.txt, and atomically replaces the running
// binary.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag, err := c.resolveTag(ctx, input, progress)
	if err != nil {
		return err
	}
	if err := checkMinimum(tag, input.MinVersion); err != nil {
		return err
	}

	asset, err := assetNameFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", tag)})
	checksums, err := c.fetchChecksums(ctx, tag)
	if err != nil {
		return err
	}
	want, ok := checksums[asset]
	if !ok {
		return fmt.Errorf("no checksum published for %s", asset)
	}
	archive, err := c.fetch(ctx, c.releaseAssetURL(tag, asset))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	progress(UpdateProgress{Stage: "verify", Message: "Verifying checksum..."})
	if err := verifyChecksum(archive, want); err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "extract", Message: "Extracting binary..."})
	binary, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Applying update..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	sum := sha256.Sum256(binary)
	if err := applyUpdate(binary, target, sum[:]); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

// resolveTag returns the explicit target, or the latest release when none
// was requested.
func (c *Checker) resolveTag(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) (string, error) {
	if input.TargetVersion != "" {
		return input.TargetVersion, nil
	}
	progress(UpdateProgress{Stage: "check", Message: "Checking for latest version..."})
	result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if !result.UpdateAvailable {
		return "", ErrAlreadyLatest
	}
	return result.LatestVersion, nil
}

// checkMinimum refuses releases older than the backend's supported floor.
// Unparseable versions skip the check rather than block the update.
func checkMinimum(tag, min string) error {
	if min == "" {
		return nil
	}
	if !strings.HasPrefix(min, "v") {
		min = "v" + min
	}
	if !semver.IsValid(min) || !semver.IsValid(tag) {
		return nil
	}
	if semver.Compare(tag, min) < 0 {
		return fmt.Errorf("%w: release %s, backend requires %s or newer", ErrBelowMinimum, tag, min)
	}
	return nil
}

// releaseArchs maps GOARCH to the goreleaser archive suffix.
var releaseArchs = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

// assetNameFor maps a platform to its goreleaser archive name. Darwin ships
// a single universal binary.
func assetNameFor(goos, goarch string) (string, error) {
	if goos == "darwin" {
		return "complyx_Darwin_all.tar.gz", nil
	}
	arch, ok := releaseArchs[goarch]
	if !ok {
		return "", fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return "complyx_Linux_" + arch + ".tar.gz", nil
	case "windows":
		return "complyx_Windows_" + arch + ".zip", nil
	}
	return "", fmt.Errorf("unsupported operating system: %s", goos)
}

func (c *Checker) releaseAssetURL(tag, name string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, name)
}

func (c *Checker) fetchChecksums(ctx context.Context, tag string) (map[string]string, error) {
	data, err := c.fetch(ctx, c.releaseAssetURL(tag, "checksums.txt"))
	if err != nil {
		return nil, fmt.Errorf("download checksums: %w", err)
	}
	return parseChecksums(data), nil
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// parseChecksums reads the goreleaser checksums.txt format, "<hex>  <file>"
// per line. Malformed lines are skipped.
func parseChecksums(data []byte) map[string]string {
	out := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		out[fields[1]] = fields[0]
	}
	return out
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if got != wantHex {
		return fmt.Errorf("%w: expected %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

func extractBinary(archive []byte, asset string) ([]byte, error) {
	if strings.HasSuffix(asset, ".zip") {
		return readZip(archive, "complyx.exe")
	}
	return readTarGz(archive, "complyx")
}

func readTarGz(data []byte, name string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

func readZip(data []byte, name string) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range r.File {
		if filepath.Base(f.Name) == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer func() { _ = rc.Close() }()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// applyUpdate writes the new binary to a temp file beside the target,
// re-reads and verifies it, then renames it over the original with the
// original's mode.
func applyUpdate(binary []byte, targetPath string, wantSum []byte) error {
	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(targetPath), ".complyx-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(binary); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	// Re-read and compare before the rename; a mismatch means the bytes on
	// disk are not the bytes that were verified.
	written, err := os.ReadFile(tmp)
	if err != nil {
		return fmt.Errorf("re-read temp file: %w", err)
	}
	sum := sha256.Sum256(written)
	if !bytes.Equal(sum[:], wantSum) {
		return fmt.Errorf("%w: temp file changed after write", ErrChecksum)
	}

	if err := os.Chmod(tmp, info.Mode()); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp, targetPath); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
