/*
Package ports defines the driven ports (interfaces) for the automation
engine and the update pipeline.

These interfaces decouple the core logic from platform backends, allowing
the engine to work with different input-injection libraries, hotkey hooks,
release feeds, and notification sinks.

# Key Interfaces

  - InputActuator: emits one simulated click or key press to the OS.
  - HotkeyListener: delivers global key-press events; exactly one instance
    may be active at a time.
  - ReleaseFeed: serves release metadata, artifacts, and checksums.
  - Notifier: receives status changes and update outcomes for display.
*/
package ports
