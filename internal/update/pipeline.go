package update

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jj-repository/autoclicker/internal/logging"
	"github.com/jj-repository/autoclicker/internal/metrics"
	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

// BackupSuffix is appended to the target path for the pre-replacement copy.
const BackupSuffix = ".backup"

// Pipeline detects and applies newer released versions of the application
// artifact. It never trusts unverified bytes and never mutates the live
// artifact except through one atomic rename.
type Pipeline struct {
	feed     ports.ReleaseFeed
	notifier ports.Notifier
	log      *slog.Logger
	metrics  *metrics.Set

	current string
	target  string

	// applyMu serializes Apply; a user-triggered and a background apply
	// must not interleave file operations on the same target.
	applyMu sync.Mutex
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.log = logger }
}

// WithNotifier sets the sink for update outcome notifications.
func WithNotifier(n ports.Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Set) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// New creates a pipeline that replaces the artifact at targetPath when the
// feed publishes something newer than currentVersion.
func New(feed ports.ReleaseFeed, currentVersion, targetPath string, opts ...Option) *Pipeline {
	p := &Pipeline{
		feed:    feed,
		log:     logging.NewNop(),
		current: currentVersion,
		target:  targetPath,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CheckLatest queries the release feed for the latest published tag.
func (p *Pipeline) CheckLatest(ctx context.Context) (domain.VersionInfo, error) {
	info, err := p.feed.Latest(ctx)
	if err != nil {
		return domain.VersionInfo{}, fmt.Errorf("querying release feed: %w", err)
	}
	if strings.TrimSpace(info.Tag) == "" {
		return domain.VersionInfo{}, domain.ErrNoVersionTag
	}
	return info, nil
}

// Check performs an explicit update check: the outcome, including
// up-to-date and failure, is always reported.
func (p *Pipeline) Check(ctx context.Context) (domain.VersionInfo, bool, error) {
	info, err := p.CheckLatest(ctx)
	if err != nil {
		p.report(domain.UpdateNotification{Outcome: domain.OutcomeFailed, Reason: err.Error()})
		return domain.VersionInfo{}, false, err
	}

	if !IsNewer(info.Tag, p.current) {
		p.report(domain.UpdateNotification{Outcome: domain.OutcomeUpToDate, Version: p.current})
		return info, false, nil
	}
	p.report(domain.UpdateNotification{Outcome: domain.OutcomeUpdateAvailable, Version: info.Tag})
	return info, true, nil
}

// AutoCheck waits for delay, then checks once in the background. Transport
// and feed failures are swallowed (logged at debug); only an available
// update is surfaced.
func (p *Pipeline) AutoCheck(ctx context.Context, delay time.Duration) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(delay):
	}

	info, err := p.CheckLatest(ctx)
	if err != nil {
		p.log.Debug("background update check failed", "error", err)
		return
	}
	if !IsNewer(info.Tag, p.current) {
		return
	}
	p.report(domain.UpdateNotification{Outcome: domain.OutcomeUpdateAvailable, Version: info.Tag})
}

// Apply downloads, verifies, and atomically installs the given release.
// No error escapes: every failure is converted to a reported outcome, and
// in every exit path but success the temporary file is removed. The
// replacement takes effect on restart; the running image is never touched.
func (p *Pipeline) Apply(ctx context.Context, info domain.VersionInfo) domain.UpdateNotification {
	p.applyMu.Lock()
	defer p.applyMu.Unlock()

	// (1) The checksum resource decides whether the release is verifiable
	// at all. Absent or malformed means fail closed, not install unchecked.
	expected, err := p.fetchChecksum(ctx, info.Tag)
	if err != nil {
		if errors.Is(err, domain.ErrChecksumUnavailable) || errors.Is(err, domain.ErrChecksumMalformed) {
			return p.report(domain.UpdateNotification{
				Outcome: domain.OutcomeAborted,
				Version: info.Tag,
				Reason:  fmt.Sprintf("update cannot be verified: %v", err),
			})
		}
		return p.report(domain.UpdateNotification{
			Outcome: domain.OutcomeFailed,
			Version: info.Tag,
			Reason:  fmt.Sprintf("fetching checksum: %v", err),
		})
	}

	// (2) Download into memory; nothing has touched the filesystem yet.
	content, err := p.feed.Artifact(ctx, info.Tag)
	if err != nil {
		return p.report(domain.UpdateNotification{
			Outcome: domain.OutcomeFailed,
			Version: info.Tag,
			Reason:  fmt.Sprintf("downloading artifact: %v", err),
		})
	}

	// (3) Verify the downloaded bytes before any file operation.
	p.report(domain.UpdateNotification{Outcome: domain.OutcomeVerifying, Version: info.Tag})
	actual := hexDigest(content)
	if actual != expected {
		p.log.Error("checksum verification failed",
			"expected", expected, "actual", actual, "tag", info.Tag)
		return p.report(domain.UpdateNotification{
			Outcome: domain.OutcomeAborted,
			Version: info.Tag,
			Reason:  fmt.Sprintf("%v: expected %s, got %s", domain.ErrChecksumMismatch, expected, actual),
		})
	}

	// (4) Write to a temp file in the target's own directory; rename is
	// only atomic within one filesystem.
	tmpPath, err := p.writeTemp(content)
	if err != nil {
		return p.report(domain.UpdateNotification{
			Outcome: domain.OutcomeFailed,
			Version: info.Tag,
			Reason:  fmt.Sprintf("writing update file: %v", err),
		})
	}
	defer func() {
		if tmpPath == "" {
			return
		}
		if rmErr := os.Remove(tmpPath); rmErr != nil {
			p.log.Warn("failed to clean up temp file", "path", tmpPath, "error", rmErr)
		}
	}()

	// (5) Re-read and re-verify what actually landed on disk.
	written, err := os.ReadFile(tmpPath)
	if err != nil || hexDigest(written) != expected {
		return p.report(domain.UpdateNotification{
			Outcome: domain.OutcomeFailed,
			Version: info.Tag,
			Reason:  "written file failed checksum verification",
		})
	}

	// (6) Back up the current artifact before mutating anything in place.
	backupPath := p.target + BackupSuffix
	if err := copyFile(p.target, backupPath); err != nil {
		return p.report(domain.UpdateNotification{
			Outcome: domain.OutcomeFailed,
			Version: info.Tag,
			Reason:  fmt.Sprintf("creating backup: %v", err),
		})
	}

	// (7) The one mutation of the live artifact: an atomic rename.
	if err := os.Rename(tmpPath, p.target); err != nil {
		return p.report(domain.UpdateNotification{
			Outcome:    domain.OutcomeFailed,
			Version:    info.Tag,
			Reason:     fmt.Sprintf("atomic replace failed: %v", err),
			BackupPath: backupPath,
		})
	}
	tmpPath = ""

	// (8) Success. The new artifact runs after restart.
	return p.report(domain.UpdateNotification{
		Outcome:    domain.OutcomeApplied,
		Version:    info.Tag,
		Reason:     "restart required to take effect",
		Checksum:   fingerprint(actual),
		BackupPath: backupPath,
	})
}

// fetchChecksum retrieves and validates the expected digest for a tag.
// The resource format is "<64-hex> [filename]".
func (p *Pipeline) fetchChecksum(ctx context.Context, tag string) (string, error) {
	raw, err := p.feed.Checksum(ctx, tag)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return "", domain.ErrChecksumMalformed
	}
	sum := fields[0]
	if !isLowerHex64(sum) {
		return "", fmt.Errorf("%w: %q", domain.ErrChecksumMalformed, sum)
	}
	return sum, nil
}

func (p *Pipeline) writeTemp(content []byte) (string, error) {
	dir := filepath.Dir(p.target)
	f, err := os.CreateTemp(dir, ".autoclicker-update-*")
	if err != nil {
		return "", err
	}
	tmpPath := f.Name()

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", err
	}
	// Force the bytes to durable storage before trusting the re-read.
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return "", err
	}
	return tmpPath, nil
}

func (p *Pipeline) report(n domain.UpdateNotification) domain.UpdateNotification {
	p.log.Info("update outcome",
		"outcome", string(n.Outcome), "version", n.Version, "reason", n.Reason)
	p.metrics.UpdateCheck(string(n.Outcome))
	if p.notifier != nil {
		p.notifier.UpdateEvent(n)
	}
	return n
}

func hexDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// fingerprint truncates a digest for display, keeping head and tail.
func fingerprint(sum string) string {
	if len(sum) < 24 {
		return sum
	}
	return sum[:16] + "..." + sum[len(sum)-8:]
}

func isLowerHex64(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
