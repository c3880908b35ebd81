package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Feed is an in-memory ReleaseFeed serving a fixed set of releases.
type Feed struct {
	mu        sync.Mutex
	latest    domain.VersionInfo
	latestErr error
	artifacts map[string][]byte
	checksums map[string]string
}

// NewFeed creates an empty feed. Latest fails with ErrNoVersionTag until a
// release is published.
func NewFeed() *Feed {
	return &Feed{
		artifacts: make(map[string][]byte),
		checksums: make(map[string]string),
	}
}

// Publish registers a release with its artifact and a correct checksum
// resource, and makes it the latest.
func (f *Feed) Publish(tag string, artifact []byte, notes string) {
	sum := sha256.Sum256(artifact)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest = domain.VersionInfo{Tag: tag, Notes: notes}
	f.artifacts[tag] = artifact
	f.checksums[tag] = hex.EncodeToString(sum[:]) + "  artifact"
}

// SetChecksum overrides the checksum resource for a tag, e.g. to serve a
// wrong or malformed digest.
func (f *Feed) SetChecksum(tag, raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.checksums[tag] = raw
}

// DropChecksum removes the checksum resource for a tag.
func (f *Feed) DropChecksum(tag string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.checksums, tag)
}

// FailLatest makes Latest return err.
func (f *Feed) FailLatest(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latestErr = err
}

// Latest returns the most recently published release.
func (f *Feed) Latest(ctx context.Context) (domain.VersionInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latestErr != nil {
		return domain.VersionInfo{}, f.latestErr
	}
	if f.latest.Tag == "" {
		return domain.VersionInfo{}, domain.ErrNoVersionTag
	}
	return f.latest, nil
}

// Artifact returns the artifact bytes for a tag.
func (f *Feed) Artifact(ctx context.Context, tag string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.artifacts[tag]
	if !ok {
		return nil, fmt.Errorf("no artifact for tag %q", tag)
	}
	return append([]byte(nil), data...), nil
}

// Checksum returns the raw checksum resource for a tag.
func (f *Feed) Checksum(ctx context.Context, tag string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.checksums[tag]
	if !ok {
		return "", domain.ErrChecksumUnavailable
	}
	return raw, nil
}
