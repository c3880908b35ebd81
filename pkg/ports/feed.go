package ports

import (
	"context"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// ReleaseFeed serves release metadata and artifacts for the self-update
// pipeline.
type ReleaseFeed interface {
	// Latest returns the most recently published release. It returns
	// domain.ErrNoVersionTag if the response carries no usable tag.
	Latest(ctx context.Context) (domain.VersionInfo, error)

	// Artifact downloads the release artifact bytes for the given tag.
	Artifact(ctx context.Context, tag string) ([]byte, error)

	// Checksum fetches the raw checksum resource for the given tag
	// (typically "<64-hex> <filename>"). It returns
	// domain.ErrChecksumUnavailable when the resource does not exist.
	Checksum(ctx context.Context, tag string) (string, error)
}
