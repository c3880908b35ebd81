package github

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports/portstest"
)

type fakeReleases struct {
	tag      string
	notes    string
	artifact []byte
	// seen records the User-Agent of the last request.
	seen string
}

func (f *fakeReleases) handler(t *testing.T) http.Handler {
	t.Helper()
	sum := sha256.Sum256(f.artifact)
	digest := hex.EncodeToString(sum[:])

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/autoclicker/releases/latest", func(w http.ResponseWriter, r *http.Request) {
		f.seen = r.Header.Get("User-Agent")
		fmt.Fprintf(w, `{"tag_name": %q, "body": %q}`, f.tag, f.notes)
	})
	mux.HandleFunc("/repos/acme/autoclicker/releases/download/", func(w http.ResponseWriter, r *http.Request) {
		f.seen = r.Header.Get("User-Agent")
		prefix := "/repos/acme/autoclicker/releases/download/"
		switch r.URL.Path {
		case prefix + f.tag + "/" + ArtifactName:
			w.Write(f.artifact)
		case prefix + f.tag + "/" + ChecksumName:
			fmt.Fprintf(w, "%s  %s\n", digest, ArtifactName)
		default:
			http.NotFound(w, r)
		}
	})
	return mux
}

func TestFeedContract(t *testing.T) {
	fake := &fakeReleases{tag: "v2.0.0", notes: "notes", artifact: []byte("new binary")}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	feed := NewFeed("acme", "autoclicker", "1.4.0", WithAPIBase(srv.URL))
	sum := sha256.Sum256(fake.artifact)

	portstest.RunReleaseFeedContract(t, feed, portstest.FeedFixture{
		Tag:        "v2.0.0",
		Artifact:   fake.artifact,
		Checksum:   hex.EncodeToString(sum[:]),
		MissingTag: "v9.9.9",
	})
}

func TestFeed_UserAgentCarriesVersion(t *testing.T) {
	fake := &fakeReleases{tag: "v2.0.0", artifact: []byte("bin")}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	feed := NewFeed("acme", "autoclicker", "1.4.0", WithAPIBase(srv.URL))
	_, err := feed.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "autoclicker/1.4.0", fake.seen)
}

func TestFeed_LatestWithoutTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"body": "no tag here"}`)
	}))
	t.Cleanup(srv.Close)

	feed := NewFeed("acme", "autoclicker", "1.4.0", WithAPIBase(srv.URL))
	_, err := feed.Latest(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoVersionTag)
}

func TestFeed_LatestNotes(t *testing.T) {
	fake := &fakeReleases{tag: "v2.1.0", notes: "## Changes\n- faster clicks"}
	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	feed := NewFeed("acme", "autoclicker", "1.4.0", WithAPIBase(srv.URL))
	info, err := feed.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "## Changes\n- faster clicks", info.Notes)
}

func TestFeed_ServerErrorIsNotTreatedAsMissingChecksum(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	feed := NewFeed("acme", "autoclicker", "1.4.0", WithAPIBase(srv.URL))
	_, err := feed.Checksum(context.Background(), "v2.0.0")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrChecksumUnavailable)
}
