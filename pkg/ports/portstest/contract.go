// Package portstest holds shared conformance tests for port
// implementations, kept out of pkg/ports so consumers of the interfaces
// do not link test machinery.
package portstest

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

// FeedFixture describes the single release a ReleaseFeed under test is
// seeded with.
type FeedFixture struct {
	Tag      string
	Artifact []byte
	// Checksum is the expected 64-hex digest of Artifact.
	Checksum string
	// MissingTag is a tag for which no checksum resource exists.
	MissingTag string
}

// RunReleaseFeedContract verifies that a ReleaseFeed implementation adheres
// to the interface contract, in particular the fail-closed checksum
// behavior the update pipeline depends on.
func RunReleaseFeedContract(t *testing.T, feed ports.ReleaseFeed, fx FeedFixture) {
	ctx := context.Background()

	t.Run("Latest", func(t *testing.T) {
		info, err := feed.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, fx.Tag, info.Tag)
	})

	t.Run("Artifact", func(t *testing.T) {
		data, err := feed.Artifact(ctx, fx.Tag)
		require.NoError(t, err)
		assert.Equal(t, fx.Artifact, data)
	})

	t.Run("Checksum", func(t *testing.T) {
		raw, err := feed.Checksum(ctx, fx.Tag)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(strings.TrimSpace(raw), fx.Checksum),
			"checksum resource should start with the digest")
	})

	t.Run("Checksum Missing", func(t *testing.T) {
		_, err := feed.Checksum(ctx, fx.MissingTag)
		assert.ErrorIs(t, err, domain.ErrChecksumUnavailable)
	})
}
