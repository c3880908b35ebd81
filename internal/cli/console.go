package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Console renders engine notifications as colored status lines on a
// terminal. It degrades to plain text when the output is not a TTY.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	profile termenv.Profile
}

// NewConsole wraps out. Color support is probed only when out is a real
// terminal.
func NewConsole(out io.Writer) *Console {
	profile := termenv.Ascii
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		profile = termenv.NewOutput(f).ColorProfile()
	}
	return &Console{out: out, profile: profile}
}

func (c *Console) line(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

func (c *Console) paint(s string, color string) string {
	return termenv.String(s).Foreground(c.profile.Color(color)).String()
}

// SlotStatus prints a slot transition, color-coded by status.
func (c *Console) SlotStatus(slot string, status domain.SlotStatus) {
	label := status.String()
	switch status {
	case domain.StatusRunning:
		label = c.paint(label, "2") // green
	case domain.StatusError:
		label = c.paint(label, "1") // red
	}
	c.line("[%s] %s", slot, label)
}

// CaptureStarted prompts for the key to bind.
func (c *Console) CaptureStarted(target string) {
	c.line("%s", c.paint(fmt.Sprintf("Press a key to bind %s (current binding stays until then)...", target), "3"))
}

// HotkeyBound confirms a completed rebind.
func (c *Console) HotkeyBound(target string, key domain.KeyIdentity) {
	c.line("%s is now bound to %s", target, c.paint(key.String(), "6"))
}

// UpdateEvent prints update-pipeline outcomes.
func (c *Console) UpdateEvent(n domain.UpdateNotification) {
	switch n.Outcome {
	case domain.OutcomeUpToDate:
		c.line("Already up to date")
	case domain.OutcomeUpdateAvailable:
		c.line("Update available: %s", c.paint(n.Version, "2"))
	case domain.OutcomeVerifying:
		c.line("Verifying %s...", n.Version)
	case domain.OutcomeApplied:
		c.line("%s", c.paint(fmt.Sprintf("Updated to %s (%s), restart to apply", n.Version, n.Checksum), "2"))
		if n.BackupPath != "" {
			c.line("Previous binary kept at %s", n.BackupPath)
		}
	case domain.OutcomeAborted:
		c.line("%s", c.paint("Update aborted: "+n.Reason, "3"))
	case domain.OutcomeFailed:
		c.line("%s", c.paint("Update failed: "+n.Reason, "1"))
	}
}

// Degraded warns about a non-fatal loss of function.
func (c *Console) Degraded(reason string) {
	c.line("%s", c.paint("WARNING: "+reason, "1"))
}

// RenderNotes renders markdown release notes for terminal display. On any
// rendering problem the raw markdown is returned as-is.
func RenderNotes(notes string) string {
	if notes == "" {
		return ""
	}
	out, err := glamour.Render(notes, "auto")
	if err != nil {
		return notes
	}
	return out
}
