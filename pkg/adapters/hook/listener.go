// Package hook adapts the gohook global keyboard hook to the
// HotkeyListener port.
package hook

import (
	"fmt"
	"sync"
	"unicode"

	hook "github.com/robotn/gohook"

	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

// specialByCode inverts gohook's name-to-keycode table for the named
// keys (function keys, space, enter, ...). Single-character names are
// covered by the Keychar path instead.
var specialByCode = func() map[uint16]string {
	m := make(map[uint16]string, len(hook.Keycode))
	for name, code := range hook.Keycode {
		if len(name) < 2 {
			continue
		}
		if _, taken := m[code]; !taken {
			m[code] = name
		}
	}
	return m
}()

// Listener is a single-use global key hook. gohook's hook is process
// global, which matches the one-active-listener rule: the engine never
// starts a second Listener before stopping the first.
type Listener struct {
	mu      sync.Mutex
	started bool
	stopped bool
	done    chan struct{}
}

// NewListener returns an unstarted listener.
func NewListener() *Listener { return &Listener{} }

// Factory returns a ListenerFactory producing fresh hook listeners.
func Factory() ports.ListenerFactory {
	return func() ports.HotkeyListener { return NewListener() }
}

// Start installs the global hook and forwards key-down events to onKey.
func (l *Listener) Start(onKey ports.KeyHandler) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started {
		return fmt.Errorf("hook listener is single-use, already started")
	}
	l.started = true
	l.done = make(chan struct{})

	events := hook.Start()
	go func() {
		defer close(l.done)
		for ev := range events {
			if ev.Kind != hook.KeyDown {
				continue
			}
			if key, ok := translate(ev); ok {
				onKey(key)
			}
		}
	}()
	return nil
}

// Stop removes the hook and blocks until the forwarding goroutine has
// drained, so the next listener cannot overlap with this one.
func (l *Listener) Stop() {
	l.mu.Lock()
	if !l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	done := l.done
	l.mu.Unlock()

	// End closes the event channel, terminating the forwarder.
	hook.End()
	<-done
}

// translate maps a raw hook event to a key identity. Unrecognized keys
// (modifiers held alone, dead keys) are dropped.
func translate(ev hook.Event) (domain.KeyIdentity, bool) {
	if name, ok := specialByCode[ev.Keycode]; ok {
		return domain.Special(name), true
	}
	if ev.Keychar != 0 && unicode.IsPrint(ev.Keychar) && !unicode.IsSpace(ev.Keychar) {
		return domain.Character(ev.Keychar), true
	}
	return domain.KeyIdentity{}, false
}
