package ports

import "github.com/jj-repository/autoclicker/pkg/domain"

// Notifier is the sink for user-visible state changes. Implementations
// render to a console, a tray icon, or anything else; the engine does not
// care. Calls may come from multiple goroutines and must not block.
type Notifier interface {
	// SlotStatus reports a slot's status transition.
	SlotStatus(slot string, status domain.SlotStatus)

	// CaptureStarted signals that the next key press will be bound to the
	// named target (a slot name or the emergency-stop binding).
	CaptureStarted(target string)

	// HotkeyBound reports that a capture completed and the target is now
	// bound to key.
	HotkeyBound(target string, key domain.KeyIdentity)

	// UpdateEvent reports an update-pipeline outcome.
	UpdateEvent(n domain.UpdateNotification)

	// Degraded reports a non-fatal loss of function, such as a hotkey
	// listener that failed to restart.
	Degraded(reason string)
}
