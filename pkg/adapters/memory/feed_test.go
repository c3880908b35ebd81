package memory_test

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/jj-repository/autoclicker/pkg/adapters/memory"
	"github.com/jj-repository/autoclicker/pkg/ports/portstest"
)

func TestFeed_Contract(t *testing.T) {
	artifact := []byte("binary payload")
	sum := sha256.Sum256(artifact)

	feed := memory.NewFeed()
	feed.Publish("v1.5.0", artifact, "notes")

	portstest.RunReleaseFeedContract(t, feed, portstest.FeedFixture{
		Tag:        "v1.5.0",
		Artifact:   artifact,
		Checksum:   hex.EncodeToString(sum[:]),
		MissingTag: "v0.0.1",
	})
}
