// Package selfupdate replaces the running binary with the latest
// GitHub release, verifying checksums before touching anything.
package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

const (
	defaultOwner = "aiken2qti"
	defaultRepo  = "aiken2qti"
)

// Updater checks GitHub releases and applies binary updates.
type Updater struct {
	client          *http.Client
	apiBaseURL      string
	downloadBaseURL string
	owner, repo     string
	execPath        func() (string, error)
}

// Option customizes an Updater.
type Option func(*Updater)

// WithTimeout bounds every HTTP request the updater makes.
func WithTimeout(d time.Duration) Option {
	return func(u *Updater) { u.client.Timeout = d }
}

// WithBaseURLs points the updater at alternative endpoints.
func WithBaseURLs(api, download string) Option {
	return func(u *Updater) {
		u.apiBaseURL = api
		u.downloadBaseURL = download
	}
}

// WithExecPath overrides how the running binary's path is resolved.
func WithExecPath(fn func() (string, error)) Option {
	return func(u *Updater) { u.execPath = fn }
}

// New returns an Updater for the project's release repository.
func New(opts ...Option) *Updater {
	u := &Updater{
		client:          &http.Client{Timeout: 30 * time.Second},
		apiBaseURL:      "https://api.github.com",
		downloadBaseURL: "https://github.com",
		owner:           defaultOwner,
		repo:            defaultRepo,
		execPath:        os.Executable,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// CheckResult reports the outcome of a version check.
type CheckResult struct {
	Current         string
	Latest          string
	UpdateAvailable bool
}

// Check fetches the latest release tag and compares it to current.
func (u *Updater) Check(ctx context.Context, current string) (*CheckResult, error) {
	if current == "(devel)" || current == "dev" {
		return nil, ErrDevBuild
	}

	latest, err := u.latestTag(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}

	cur := current
	if !strings.HasPrefix(cur, "v") {
		cur = "v" + cur
	}
	if !semver.IsValid(cur) {
		return nil, fmt.Errorf("current version %q is not a semantic version", current)
	}

	return &CheckResult{
		Current:         current,
		Latest:          latest,
		UpdateAvailable: semver.Compare(latest, cur) > 0,
	}, nil
}

// Update downloads, verifies, and installs the latest release. report,
// if non-nil, receives progress messages.
func (u *Updater) Update(ctx context.Context, current string, report func(string)) error {
	if report == nil {
		report = func(string) {}
	}

	report("Checking for the latest version...")
	result, err := u.Check(ctx, current)
	if err != nil {
		return err
	}
	if !result.UpdateAvailable {
		return ErrAlreadyLatest
	}
	tag := result.Latest

	asset, err := assetName(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		return err
	}

	report(fmt.Sprintf("Downloading %s...", tag))
	archive, err := u.fetch(ctx, u.releaseURL(tag, asset))
	if err != nil {
		return fmt.Errorf("download %s: %w", asset, err)
	}

	report("Verifying checksum...")
	sums, err := u.fetch(ctx, u.releaseURL(tag, "checksums.txt"))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	want, ok := parseChecksums(sums)[asset]
	if !ok {
		return fmt.Errorf("%w: no entry for %s", ErrChecksum, asset)
	}
	if got := sha256Hex(archive); got != want {
		return fmt.Errorf("%w: want %s, got %s", ErrChecksum, want, got)
	}

	report("Installing...")
	binary, err := extractBinary(archive, asset)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}
	target, err := u.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceBinary(target, binary); err != nil {
		return err
	}

	report(fmt.Sprintf("Updated to %s", tag))
	return nil
}

func (u *Updater) releaseURL(tag, name string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(u.downloadBaseURL, "/"), u.owner, u.repo, tag, name)
}

func (u *Updater) latestTag(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest",
		strings.TrimRight(u.apiBaseURL, "/"), u.owner, u.repo)
	body, err := u.fetch(ctx, url)
	if err != nil {
		return "", err
	}
	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}
	if !semver.IsValid(release.TagName) {
		return "", fmt.Errorf("release tag %q is not a semantic version", release.TagName)
	}
	return release.TagName, nil
}

func (u *Updater) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(resp.Body)
}

// assetName maps a platform to its release archive name. Windows
// releases ship as zip, everything else as tar.gz.
func assetName(goos, goarch string) (string, error) {
	switch goos {
	case "linux", "darwin":
		switch goarch {
		case "amd64", "arm64":
			return fmt.Sprintf("aiken2qti_%s_%s.tar.gz", goos, goarch), nil
		}
	case "windows":
		if goarch == "amd64" {
			return "aiken2qti_windows_amd64.zip", nil
		}
	}
	return "", fmt.Errorf("no release build for %s/%s", goos, goarch)
}

func binaryName(asset string) string {
	if strings.HasSuffix(asset, ".zip") {
		return "aiken2qti.exe"
	}
	return "aiken2qti"
}

// parseChecksums reads the "<hex>  <filename>" lines of checksums.txt.
func parseChecksums(data []byte) map[string]string {
	sums := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(strings.TrimSpace(line))
		if len(fields) == 2 {
			sums[fields[1]] = fields[0]
		}
	}
	return sums
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func extractBinary(archive []byte, asset string) ([]byte, error) {
	name := binaryName(asset)
	if strings.HasSuffix(asset, ".zip") {
		zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
		if err != nil {
			return nil, err
		}
		for _, f := range zr.File {
			if filepath.Base(f.Name) == name {
				rc, err := f.Open()
				if err != nil {
					return nil, err
				}
				defer func() { _ = rc.Close() }()
				return io.ReadAll(rc)
			}
		}
		return nil, fmt.Errorf("%s not found in archive", name)
	}

	gz, err := gzip.NewReader(bytes.NewReader(archive))
	if err != nil {
		return nil, err
	}
	defer func() { _ = gz.Close() }()
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == name {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// replaceBinary swaps target for the new binary via a temp file and
// rename in the same directory, preserving the original file mode.
func replaceBinary(target string, binary []byte) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".aiken2qti-update-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(binary); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, info.Mode()); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("install binary: %w", err)
	}
	return nil
}
