package engine

import (
	"sync"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// SlotKind selects which actuator call a slot's worker performs.
type SlotKind string

const (
	// KindClicker repeats simulated mouse clicks.
	KindClicker SlotKind = "click"
	// KindKeyPresser repeats simulated presses of a target key.
	KindKeyPresser SlotKind = "keypress"
)

// SlotSpec is the data definition of one actuator slot. The engine is
// parameterized by an ordered list of these: adding a fourth actuator is a
// new spec entry, not new control flow.
type SlotSpec struct {
	Name     string
	Kind     SlotKind
	Group    string
	Hotkey   domain.KeyIdentity
	Interval float64
	// TargetKey is the platform key code a KindKeyPresser slot presses.
	TargetKey int
}

// Slot is one toggleable repeating action. All mutable fields are guarded
// by mu; the worker goroutine re-reads interval and running every
// iteration, so user changes take effect on the next iteration.
type Slot struct {
	name  string
	kind  SlotKind
	group string

	mu        sync.Mutex
	hotkey    domain.KeyIdentity
	interval  float64
	targetKey int
	running   bool
	status    domain.SlotStatus

	// stop is re-created on every start and closed on stop so a sleeping
	// worker wakes promptly instead of finishing its full interval.
	stop chan struct{}
	// done is closed by the worker on exit; Shutdown joins on it.
	done chan struct{}
}

func newSlot(spec SlotSpec) *Slot {
	hotkey := spec.Hotkey
	if hotkey.IsZero() {
		hotkey = domain.DefaultHotkey()
	}
	return &Slot{
		name:      spec.Name,
		kind:      spec.Kind,
		group:     spec.Group,
		hotkey:    hotkey,
		interval:  spec.Interval,
		targetKey: spec.TargetKey,
		status:    domain.StatusIdle,
	}
}

// Name returns the slot's identity.
func (s *Slot) Name() string { return s.name }

// Group returns the slot's mutex-group name.
func (s *Slot) Group() string { return s.group }

// Running reports whether the slot is currently running.
func (s *Slot) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Status returns the slot's display status.
func (s *Slot) Status() domain.SlotStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Hotkey returns the slot's bound hotkey.
func (s *Slot) Hotkey() domain.KeyIdentity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hotkey
}

// Interval returns the slot's current interval in seconds.
func (s *Slot) Interval() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// TargetKey returns the key code a keypresser slot presses.
func (s *Slot) TargetKey() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.targetKey
}

func (s *Slot) setHotkey(key domain.KeyIdentity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hotkey = key
}

// setInterval validates and applies a new interval. On rejection the
// stored value is untouched.
func (s *Slot) setInterval(seconds float64) error {
	if err := domain.ValidateInterval(seconds); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = seconds
	return nil
}

// SlotView is a read-only snapshot of a slot for status surfaces.
type SlotView struct {
	Name     string            `json:"name"`
	Kind     SlotKind          `json:"kind"`
	Group    string            `json:"group"`
	Hotkey   string            `json:"hotkey"`
	Interval float64           `json:"interval"`
	Status   domain.SlotStatus `json:"-"`
	Display  string            `json:"status"`
}

func (s *Slot) view() SlotView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SlotView{
		Name:     s.name,
		Kind:     s.kind,
		Group:    s.group,
		Hotkey:   s.hotkey.String(),
		Interval: s.interval,
		Status:   s.status,
		Display:  s.status.String(),
	}
}
