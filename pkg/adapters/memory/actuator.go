package memory

import (
	"sync"
)

// Actuator is an InputActuator that counts actions instead of emitting
// them. It can be armed to fail, exercising the engine's error path.
type Actuator struct {
	mu        sync.Mutex
	clicks    int
	keyCodes  []int
	failNext  error
	failAlway error
}

// NewActuator creates an actuator that always succeeds.
func NewActuator() *Actuator {
	return &Actuator{}
}

// PerformClick records one click.
func (a *Actuator) PerformClick() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeErr(); err != nil {
		return err
	}
	a.clicks++
	return nil
}

// PerformKeyPress records one key press of the given code.
func (a *Actuator) PerformKeyPress(code int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.takeErr(); err != nil {
		return err
	}
	a.keyCodes = append(a.keyCodes, code)
	return nil
}

func (a *Actuator) takeErr() error {
	if a.failAlway != nil {
		return a.failAlway
	}
	if a.failNext != nil {
		err := a.failNext
		a.failNext = nil
		return err
	}
	return nil
}

// FailNext makes the next action return err, then succeed again.
func (a *Actuator) FailNext(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failNext = err
}

// FailAlways makes every action return err.
func (a *Actuator) FailAlways(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failAlway = err
}

// Clicks returns the number of clicks performed.
func (a *Actuator) Clicks() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.clicks
}

// KeyPresses returns the key codes pressed, in order.
func (a *Actuator) KeyPresses() []int {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]int, len(a.keyCodes))
	copy(out, a.keyCodes)
	return out
}
