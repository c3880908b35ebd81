// Package tray renders engine state in a system tray icon.
package tray

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/getlantern/systray"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Notifier shows slot state in the tray menu. systray requires owning the
// main loop, so callers hand their startup logic to Run and the tray
// drives it from there.
type Notifier struct {
	mu       sync.Mutex
	statuses map[string]domain.SlotStatus

	ready   chan struct{}
	status  *systray.MenuItem
	last    *systray.MenuItem
	onQuit  func()
	onCheck func()
}

// New creates a tray notifier. onQuit is invoked when the user picks Quit
// from the menu.
func New(onQuit func()) *Notifier {
	return &Notifier{
		statuses: make(map[string]domain.SlotStatus),
		ready:    make(chan struct{}),
		onQuit:   onQuit,
	}
}

// OnCheckUpdates adds a "Check for updates" menu item invoking fn. Must be
// called before Run.
func (n *Notifier) OnCheckUpdates(fn func()) {
	n.onCheck = fn
}

// Run enters the tray main loop. onReady runs once the icon is up; Run
// blocks until systray.Quit is called.
func (n *Notifier) Run(onReady func()) {
	systray.Run(func() {
		systray.SetTitle("autoclicker")
		systray.SetTooltip("autoclicker: all slots idle")
		n.status = systray.AddMenuItem("All slots idle", "Slot status")
		n.status.Disable()
		n.last = systray.AddMenuItem("", "Last event")
		n.last.Disable()
		n.last.Hide()
		systray.AddSeparator()
		if n.onCheck != nil {
			check := systray.AddMenuItem("Check for updates", "Query the release feed")
			go func() {
				for range check.ClickedCh {
					n.onCheck()
				}
			}()
		}
		quit := systray.AddMenuItem("Quit", "Stop all slots and exit")
		go func() {
			<-quit.ClickedCh
			if n.onQuit != nil {
				n.onQuit()
			}
			systray.Quit()
		}()
		close(n.ready)
		if onReady != nil {
			go onReady()
		}
	}, nil)
}

// Quit tears the tray icon down and unblocks Run.
func (n *Notifier) Quit() {
	systray.Quit()
}

// SlotStatus updates the per-slot summary line.
func (n *Notifier) SlotStatus(slot string, status domain.SlotStatus) {
	n.mu.Lock()
	n.statuses[slot] = status
	line := n.summaryLocked()
	n.mu.Unlock()
	n.setStatus(line)
}

// CaptureStarted announces the pending rebind.
func (n *Notifier) CaptureStarted(target string) {
	n.setLast(fmt.Sprintf("Press a key to bind %s...", target))
}

// HotkeyBound announces the completed rebind.
func (n *Notifier) HotkeyBound(target string, key domain.KeyIdentity) {
	n.setLast(fmt.Sprintf("%s bound to %s", target, key))
}

// UpdateEvent surfaces update-pipeline outcomes.
func (n *Notifier) UpdateEvent(un domain.UpdateNotification) {
	switch un.Outcome {
	case domain.OutcomeUpdateAvailable:
		n.setLast(fmt.Sprintf("Update %s available", un.Version))
	case domain.OutcomeApplied:
		n.setLast(fmt.Sprintf("Updated to %s, restart to apply", un.Version))
	case domain.OutcomeAborted, domain.OutcomeFailed:
		n.setLast(fmt.Sprintf("Update %s: %s", un.Outcome, un.Reason))
	}
}

// Degraded surfaces a non-fatal loss of function.
func (n *Notifier) Degraded(reason string) {
	n.setLast("Degraded: " + reason)
}

func (n *Notifier) summaryLocked() string {
	running := make([]string, 0, len(n.statuses))
	for slot, st := range n.statuses {
		if st == domain.StatusRunning {
			running = append(running, slot)
		}
	}
	if len(running) == 0 {
		return "All slots idle"
	}
	sort.Strings(running)
	return "Running: " + strings.Join(running, ", ")
}

// setStatus is a no-op until the tray loop is up; notifier calls must not
// block on it.
func (n *Notifier) setStatus(line string) {
	select {
	case <-n.ready:
		n.status.SetTitle(line)
		systray.SetTooltip("autoclicker: " + line)
	default:
	}
}

func (n *Notifier) setLast(line string) {
	select {
	case <-n.ready:
		n.last.SetTitle(line)
		n.last.Show()
	default:
	}
}
