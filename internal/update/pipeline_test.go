package update_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jj-repository/autoclicker/internal/update"
	"github.com/jj-repository/autoclicker/pkg/adapters/memory"
	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pipelineFixture struct {
	feed     *memory.Feed
	notifier *memory.Notifier
	pipeline *update.Pipeline
	target   string
	dir      string
}

func newPipelineFixture(t *testing.T, currentVersion string) *pipelineFixture {
	t.Helper()
	dir := t.TempDir()
	target := filepath.Join(dir, "autoclicker")
	require.NoError(t, os.WriteFile(target, []byte("old artifact"), 0o755))

	fx := &pipelineFixture{
		feed:     memory.NewFeed(),
		notifier: memory.NewNotifier(),
		target:   target,
		dir:      dir,
	}
	fx.pipeline = update.New(fx.feed, currentVersion, target,
		update.WithNotifier(fx.notifier))
	return fx
}

func (fx *pipelineFixture) targetBytes(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(fx.target)
	require.NoError(t, err)
	return data
}

func (fx *pipelineFixture) tempFiles(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(fx.dir, ".autoclicker-update-*"))
	require.NoError(t, err)
	return matches
}

func TestCheck(t *testing.T) {
	t.Run("Update Available", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.0.0")
		fx.feed.Publish("v1.1.0", []byte("new"), "notes")

		info, newer, err := fx.pipeline.Check(context.Background())
		require.NoError(t, err)
		assert.True(t, newer)
		assert.Equal(t, "v1.1.0", info.Tag)

		updates := fx.notifier.Updates()
		require.Len(t, updates, 1)
		assert.Equal(t, domain.OutcomeUpdateAvailable, updates[0].Outcome)
	})

	t.Run("Up To Date", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.1.0")
		fx.feed.Publish("v1.1.0", []byte("new"), "")

		_, newer, err := fx.pipeline.Check(context.Background())
		require.NoError(t, err)
		assert.False(t, newer)

		updates := fx.notifier.Updates()
		require.Len(t, updates, 1)
		assert.Equal(t, domain.OutcomeUpToDate, updates[0].Outcome)
	})

	t.Run("Feed Failure", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.0.0")
		fx.feed.FailLatest(errors.New("connection refused"))

		_, _, err := fx.pipeline.Check(context.Background())
		require.Error(t, err)

		updates := fx.notifier.Updates()
		require.Len(t, updates, 1)
		assert.Equal(t, domain.OutcomeFailed, updates[0].Outcome)
	})

	t.Run("No Version Tag", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.0.0")

		_, _, err := fx.pipeline.Check(context.Background())
		assert.ErrorIs(t, err, domain.ErrNoVersionTag)
	})
}

func TestApply_Success(t *testing.T) {
	fx := newPipelineFixture(t, "1.0.0")
	artifact := []byte("brand new artifact bytes")
	fx.feed.Publish("v2.0.0", artifact, "")

	n := fx.pipeline.Apply(context.Background(), domain.VersionInfo{Tag: "v2.0.0"})

	assert.Equal(t, domain.OutcomeApplied, n.Outcome)
	assert.Equal(t, artifact, fx.targetBytes(t), "target replaced with verified bytes")
	assert.NotEmpty(t, n.Checksum)
	assert.Contains(t, n.Checksum, "...", "checksum is a truncated fingerprint")

	backup, err := os.ReadFile(fx.target + update.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, []byte("old artifact"), backup, "backup holds the prior artifact")

	assert.Empty(t, fx.tempFiles(t), "no temp file left after success")

	// Verifying is reported before Applied.
	updates := fx.notifier.Updates()
	require.Len(t, updates, 2)
	assert.Equal(t, domain.OutcomeVerifying, updates[0].Outcome)
	assert.Equal(t, domain.OutcomeApplied, updates[1].Outcome)
}

func TestApply_ChecksumMismatchLeavesTargetUntouched(t *testing.T) {
	fx := newPipelineFixture(t, "1.0.0")
	fx.feed.Publish("v2.0.0", []byte("tampered bytes"), "")
	fx.feed.SetChecksum("v2.0.0", strings.Repeat("a", 64)+"  artifact")

	n := fx.pipeline.Apply(context.Background(), domain.VersionInfo{Tag: "v2.0.0"})

	assert.Equal(t, domain.OutcomeAborted, n.Outcome)
	assert.Contains(t, n.Reason, "checksum verification failed")
	assert.Equal(t, []byte("old artifact"), fx.targetBytes(t),
		"original artifact is byte-for-byte unchanged")
	assert.Empty(t, fx.tempFiles(t), "no stray temp file")
	assert.NoFileExists(t, fx.target+update.BackupSuffix,
		"no backup is made for an aborted update")
}

func TestApply_MissingChecksumFailsClosed(t *testing.T) {
	fx := newPipelineFixture(t, "1.0.0")
	fx.feed.Publish("v2.0.0", []byte("new"), "")
	fx.feed.DropChecksum("v2.0.0")

	n := fx.pipeline.Apply(context.Background(), domain.VersionInfo{Tag: "v2.0.0"})

	assert.Equal(t, domain.OutcomeAborted, n.Outcome)
	assert.Contains(t, n.Reason, "cannot be verified")
	assert.Equal(t, []byte("old artifact"), fx.targetBytes(t))
	assert.Empty(t, fx.tempFiles(t))
}

func TestApply_MalformedChecksumFailsClosed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not hex", "zz" + strings.Repeat("a", 62)},
		{"too short", strings.Repeat("a", 63)},
		{"uppercase", strings.ToUpper(strings.Repeat("ab", 32))},
		{"empty", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newPipelineFixture(t, "1.0.0")
			fx.feed.Publish("v2.0.0", []byte("new"), "")
			fx.feed.SetChecksum("v2.0.0", tc.raw)

			n := fx.pipeline.Apply(context.Background(), domain.VersionInfo{Tag: "v2.0.0"})

			assert.Equal(t, domain.OutcomeAborted, n.Outcome)
			assert.Equal(t, []byte("old artifact"), fx.targetBytes(t))
		})
	}
}

func TestApply_ArtifactDownloadFailure(t *testing.T) {
	fx := newPipelineFixture(t, "1.0.0")
	fx.feed.Publish("v2.0.0", []byte("new"), "")
	// Checksum exists for the tag, but the artifact does not.
	fx.feed.SetChecksum("v3.0.0", strings.Repeat("ab", 32))

	n := fx.pipeline.Apply(context.Background(), domain.VersionInfo{Tag: "v3.0.0"})

	assert.Equal(t, domain.OutcomeFailed, n.Outcome)
	assert.Equal(t, []byte("old artifact"), fx.targetBytes(t))
	assert.Empty(t, fx.tempFiles(t))
}

func TestAutoCheck(t *testing.T) {
	t.Run("Silent On Failure", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.0.0")
		fx.feed.FailLatest(errors.New("offline"))

		fx.pipeline.AutoCheck(context.Background(), 0)

		assert.Empty(t, fx.notifier.Updates(), "background failures are swallowed")
	})

	t.Run("Silent When Up To Date", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.1.0")
		fx.feed.Publish("v1.1.0", []byte("same"), "")

		fx.pipeline.AutoCheck(context.Background(), 0)

		assert.Empty(t, fx.notifier.Updates())
	})

	t.Run("Notifies When Newer", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.0.0")
		fx.feed.Publish("v1.2.0", []byte("new"), "")

		fx.pipeline.AutoCheck(context.Background(), 0)

		updates := fx.notifier.Updates()
		require.Len(t, updates, 1)
		assert.Equal(t, domain.OutcomeUpdateAvailable, updates[0].Outcome)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		fx := newPipelineFixture(t, "1.0.0")
		fx.feed.Publish("v1.2.0", []byte("new"), "")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		fx.pipeline.AutoCheck(ctx, time.Hour)

		assert.Empty(t, fx.notifier.Updates())
	})
}
