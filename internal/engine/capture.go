package engine

import (
	"fmt"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Capturing reports whether a hotkey rebind is in progress.
func (e *Engine) Capturing() bool {
	e.captureMu.Lock()
	defer e.captureMu.Unlock()
	return e.capturing
}

// BeginRebind enters capture mode for the named target (a slot name or
// EmergencyTarget): the dispatch listener is stopped and a capture
// listener takes over, so the next key press binds instead of dispatching.
func (e *Engine) BeginRebind(target string) error {
	if target != EmergencyTarget {
		if _, ok := e.byName[target]; !ok {
			return fmt.Errorf("%w: %q", domain.ErrUnknownSlot, target)
		}
	}

	e.captureMu.Lock()
	if e.capturing {
		e.captureMu.Unlock()
		return domain.ErrAlreadyCapturing
	}
	e.capturing = true
	e.captureTarget = target
	e.captureMu.Unlock()

	e.swapMu.Lock()
	defer e.swapMu.Unlock()

	// The outgoing hook must be fully torn down before the capture hook
	// starts; overlapping listeners garble the shared input stream.
	if e.dispatch != nil {
		e.dispatch.Stop()
		e.dispatch = nil
	}

	l := e.newListener()
	if err := l.Start(e.postCapture); err != nil {
		e.captureMu.Lock()
		e.capturing = false
		e.captureMu.Unlock()
		e.restartDispatchLocked()
		return fmt.Errorf("starting capture listener: %w", err)
	}
	e.capture = l

	e.notifier.CaptureStarted(target)
	return nil
}

// OnCaptured completes a rebind with the captured key. A stray event
// arriving after cancellation is a no-op. The dispatch listener is
// restarted even if persisting the new binding fails, so a save error can
// never leave the engine deaf to hotkeys.
func (e *Engine) OnCaptured(key domain.KeyIdentity) {
	e.captureMu.Lock()
	if !e.capturing {
		e.captureMu.Unlock()
		return
	}
	e.capturing = false
	target := e.captureTarget
	e.captureMu.Unlock()

	e.swapMu.Lock()
	if e.capture != nil {
		e.capture.Stop()
		e.capture = nil
	}

	if target == EmergencyTarget {
		e.bindMu.Lock()
		e.emergency = key
		e.bindMu.Unlock()
	} else if s, ok := e.byName[target]; ok {
		s.setHotkey(key)
	}
	e.log.Info("hotkey bound", "target", target, "key", key.String())
	e.notifier.HotkeyBound(target, key)

	e.savePersisted()
	e.restartDispatchLocked()
	e.swapMu.Unlock()
}

// CancelRebind leaves capture mode without changing any binding and
// restores the dispatch listener.
func (e *Engine) CancelRebind() {
	e.captureMu.Lock()
	if !e.capturing {
		e.captureMu.Unlock()
		return
	}
	e.capturing = false
	e.captureMu.Unlock()

	e.swapMu.Lock()
	if e.capture != nil {
		e.capture.Stop()
		e.capture = nil
	}
	e.restartDispatchLocked()
	e.swapMu.Unlock()
}

// restartDispatchLocked starts a fresh dispatch listener. Callers hold
// swapMu. A failure leaves the engine with no live listener, which is a
// visible degraded state rather than a silent one.
func (e *Engine) restartDispatchLocked() {
	l := e.newListener()
	if err := l.Start(e.postDispatch); err != nil {
		e.log.Error("dispatch listener failed to restart, hotkeys inactive", "error", err)
		e.notifier.Degraded("hotkey listener failed to restart; hotkeys are inactive")
		return
	}
	e.dispatch = l
}
