// Package selfupdate checks GitHub releases for newer versions and
// replaces the running binary in place.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultBaseURL         = "https://api.github.com"
	defaultDownloadBaseURL = "https://github.com"
	defaultOwner           = "abhisek"
	defaultRepo            = "sensei"
)

// Checker talks to the GitHub releases API for a fixed repository.
type Checker struct {
	baseURL         string
	downloadBaseURL string
	owner           string
	repo            string
	client          *http.Client
	execPath        func() (string, error)
}

// Option configures a Checker.
type Option func(*Checker)

// WithBaseURL overrides the GitHub API base URL.
func WithBaseURL(url string) Option {
	return func(c *Checker) { c.baseURL = url }
}

// WithDownloadBaseURL overrides the release asset download base URL.
func WithDownloadBaseURL(url string) Option {
	return func(c *Checker) { c.downloadBaseURL = url }
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// withExecPath overrides executable path resolution in tests.
func withExecPath(fn func() (string, error)) Option {
	return func(c *Checker) { c.execPath = fn }
}

// NewChecker creates a Checker with defaults pointing at the public
// sensei repository.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		baseURL:         defaultBaseURL,
		downloadBaseURL: defaultDownloadBaseURL,
		owner:           defaultOwner,
		repo:            defaultRepo,
		client:          &http.Client{Timeout: 30 * time.Second},
		execPath:        os.Executable,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckInput carries the running version for comparison.
type CheckInput struct {
	Version string
}

// CheckResult reports the latest release and whether it is newer.
type CheckResult struct {
	UpdateAvailable bool
	LatestVersion   string
	ReleaseURL      string
}

// Check fetches the latest release tag and compares it against the
// running version using semver ordering.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.baseURL, "/"), c.owner, c.repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	var release struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if release.TagName == "" {
		return nil, errors.New("latest release has no tag name")
	}

	latest := normalizeVersion(release.TagName)
	current := normalizeVersion(input.Version)

	available := semver.IsValid(latest) &&
		(!semver.IsValid(current) || semver.Compare(latest, current) > 0)

	return &CheckResult{
		UpdateAvailable: available,
		LatestVersion:   release.TagName,
		ReleaseURL:      release.HTMLURL,
	}, nil
}

// normalizeVersion adds the "v" prefix semver.Compare requires.
func normalizeVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
