package ports

import "github.com/jj-repository/autoclicker/pkg/domain"

// KeyHandler receives one key-press event from a listener. Handlers must
// not block: the engine expects listeners to hand events off and return.
type KeyHandler func(key domain.KeyIdentity)

// HotkeyListener is a global key-press hook. Instances are single-use:
// once stopped, a fresh instance must be created to listen again.
//
// Only one listener may be active process-wide. Overlapping hooks on the
// same input stream produce duplicate and garbled dispatch, so the engine
// fully stops the outgoing listener before starting the next one.
type HotkeyListener interface {
	// Start installs the hook and begins delivering events to onKey from
	// the listener's own goroutine.
	Start(onKey KeyHandler) error

	// Stop removes the hook. It blocks until the underlying OS hook has
	// been released, so that a subsequent Start of another instance cannot
	// overlap with this one.
	Stop()
}

// ListenerFactory creates fresh HotkeyListener instances. The engine uses
// it to swap between its dispatch listener and the temporary capture
// listener used while rebinding a hotkey.
type ListenerFactory func() HotkeyListener
