// Package github implements the release feed against a GitHub-style
// releases API: latest-release metadata from the JSON endpoint, artifact
// and checksum bytes from raw download URLs.
package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Artifact names published with every release.
const (
	ArtifactName = "autoclicker"
	ChecksumName = "autoclicker.sha256"
)

const defaultAPIBase = "https://api.github.com"

// artifact downloads are capped so a misbehaving server cannot exhaust
// memory.
const maxArtifactSize = 256 << 20

// Feed talks to one repository's releases.
type Feed struct {
	client    *http.Client
	apiBase   string
	owner     string
	repo      string
	userAgent string
}

// Option configures a Feed.
type Option func(*Feed)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Feed) { f.client = c }
}

// WithAPIBase points the feed at a different API host, used by tests.
func WithAPIBase(base string) Option {
	return func(f *Feed) { f.apiBase = strings.TrimRight(base, "/") }
}

// NewFeed creates a feed for owner/repo. The version is advertised in the
// User-Agent header of every request.
func NewFeed(owner, repo, version string, opts ...Option) *Feed {
	f := &Feed{
		client:    &http.Client{Timeout: 30 * time.Second},
		apiBase:   defaultAPIBase,
		owner:     owner,
		repo:      repo,
		userAgent: "autoclicker/" + version,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// release is the subset of the GitHub release document we read.
type release struct {
	TagName string `json:"tag_name"`
	Body    string `json:"body"`
}

// Latest fetches the latest release. A response without a tag_name yields
// domain.ErrNoVersionTag.
func (f *Feed) Latest(ctx context.Context) (domain.VersionInfo, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", f.apiBase, f.owner, f.repo)
	body, err := f.get(ctx, url, "application/vnd.github+json")
	if err != nil {
		return domain.VersionInfo{}, err
	}
	var rel release
	if err := json.Unmarshal(body, &rel); err != nil {
		return domain.VersionInfo{}, fmt.Errorf("decoding release: %w", err)
	}
	if rel.TagName == "" {
		return domain.VersionInfo{}, domain.ErrNoVersionTag
	}
	return domain.VersionInfo{Tag: rel.TagName, Notes: rel.Body}, nil
}

// Artifact downloads the release binary for a tag.
func (f *Feed) Artifact(ctx context.Context, tag string) ([]byte, error) {
	data, err := f.get(ctx, f.downloadURL(tag, ArtifactName), "application/octet-stream")
	if err != nil {
		return nil, fmt.Errorf("downloading artifact for %s: %w", tag, err)
	}
	return data, nil
}

// Checksum fetches the published digest resource for a tag. A 404 maps to
// domain.ErrChecksumUnavailable so the update pipeline aborts instead of
// installing an unverifiable artifact.
func (f *Feed) Checksum(ctx context.Context, tag string) (string, error) {
	data, err := f.get(ctx, f.downloadURL(tag, ChecksumName), "text/plain")
	if err != nil {
		if isNotFound(err) {
			return "", domain.ErrChecksumUnavailable
		}
		return "", fmt.Errorf("downloading checksum for %s: %w", tag, err)
	}
	return string(data), nil
}

func (f *Feed) downloadURL(tag, name string) string {
	return fmt.Sprintf("%s/repos/%s/%s/releases/download/%s/%s", f.apiBase, f.owner, f.repo, tag, name)
}

// statusError reports a non-2xx HTTP response.
type statusError struct {
	code int
	url  string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.url, e.code)
}

func isNotFound(err error) bool {
	var se *statusError
	return errors.As(err, &se) && se.code == http.StatusNotFound
}

func (f *Feed) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode, url: url}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactSize))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", url, err)
	}
	return data, nil
}
