package memory

import (
	"sync"

	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

// ListenerHub fabricates single-use listeners and tracks which one is
// active, letting tests emit synthetic key events and assert the
// one-active-listener invariant.
type ListenerHub struct {
	mu       sync.Mutex
	active   *Listener
	started  int
	stopped  int
	startErr error
}

// NewListenerHub creates an empty hub.
func NewListenerHub() *ListenerHub {
	return &ListenerHub{}
}

// Factory returns a ports.ListenerFactory producing listeners bound to
// this hub.
func (h *ListenerHub) Factory() ports.ListenerFactory {
	return func() ports.HotkeyListener {
		return &Listener{hub: h}
	}
}

// Emit delivers a key event through the currently active listener. Events
// emitted while no listener is active are dropped, as a real OS hook
// would.
func (h *ListenerHub) Emit(key domain.KeyIdentity) {
	h.mu.Lock()
	l := h.active
	h.mu.Unlock()
	if l == nil {
		return
	}
	l.mu.Lock()
	onKey := l.onKey
	l.mu.Unlock()
	if onKey != nil {
		onKey(key)
	}
}

// ActiveCount returns how many listeners are currently started. It exceeds
// one only if the engine violates the listener-swap invariant.
func (h *ListenerHub) ActiveCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.active != nil {
		return 1
	}
	return 0
}

// Starts returns how many listeners have ever been started.
func (h *ListenerHub) Starts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.started
}

// FailStarts makes every subsequent listener Start fail with err until
// called again with nil.
func (h *ListenerHub) FailStarts(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.startErr = err
}

// Listener is a single-use in-memory HotkeyListener.
type Listener struct {
	hub   *ListenerHub
	mu    sync.Mutex
	onKey ports.KeyHandler

	// StartErr, when set before Start, makes Start fail.
	StartErr error
}

// Start registers the listener as the hub's active one.
func (l *Listener) Start(onKey ports.KeyHandler) error {
	if l.StartErr != nil {
		return l.StartErr
	}
	l.hub.mu.Lock()
	hubErr := l.hub.startErr
	l.hub.mu.Unlock()
	if hubErr != nil {
		return hubErr
	}
	l.mu.Lock()
	l.onKey = onKey
	l.mu.Unlock()

	l.hub.mu.Lock()
	l.hub.active = l
	l.hub.started++
	l.hub.mu.Unlock()
	return nil
}

// Stop detaches the listener. It is idempotent.
func (l *Listener) Stop() {
	l.mu.Lock()
	l.onKey = nil
	l.mu.Unlock()

	l.hub.mu.Lock()
	if l.hub.active == l {
		l.hub.active = nil
		l.hub.stopped++
	}
	l.hub.mu.Unlock()
}
