package ports

// InputActuator emits simulated input to the OS. Implementations are
// called from slot worker goroutines; a returned error is fatal to that
// slot's run and is not retried by the engine.
type InputActuator interface {
	// PerformClick emits a single left mouse click.
	PerformClick() error

	// PerformKeyPress emits a single press of the key identified by the
	// platform key code.
	PerformKeyPress(code int) error
}
