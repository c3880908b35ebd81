package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jj-repository/autoclicker/internal/logging"
	"github.com/jj-repository/autoclicker/internal/metrics"
	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

// EmergencyTarget is the rebind target name for the emergency-stop hotkey.
const EmergencyTarget = "emergency_stop"

// DefaultJoinTimeout bounds how long Shutdown waits for worker goroutines.
const DefaultJoinTimeout = time.Second

type keyEvent struct {
	key      domain.KeyIdentity
	captured bool
}

// Engine is the single authority for which slots may run concurrently and
// for hotkey-to-action routing. All mutable state lives behind it; nothing
// is ambient.
type Engine struct {
	log         *slog.Logger
	actuator    ports.InputActuator
	notifier    ports.Notifier
	newListener ports.ListenerFactory
	metrics     *metrics.Set
	limiter     *RateLimiter
	joinTimeout time.Duration

	slots  []*Slot
	byName map[string]*Slot
	groups map[string][]*Slot

	// opMu serializes start/stop/toggle orchestration so the mutex-group
	// "stop siblings, then start self" sequence is transactional.
	opMu sync.Mutex

	// bindMu guards the emergency-stop binding.
	bindMu    sync.Mutex
	emergency domain.KeyIdentity

	// captureMu guards the capturing flag and target. It is held only for
	// check-and-update, never across a listener call.
	captureMu     sync.Mutex
	capturing     bool
	captureTarget string

	// swapMu serializes listener teardown/startup so two listeners can
	// never be active at once.
	swapMu   sync.Mutex
	dispatch ports.HotkeyListener
	capture  ports.HotkeyListener

	events   chan keyEvent
	quit     chan struct{}
	done     chan struct{}
	started  bool
	stopOnce sync.Once

	persist func() error
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.log = logger }
}

// WithNotifier sets the sink for status notifications.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Set) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithCooldown overrides the hotkey rate-limit window.
func WithCooldown(d time.Duration) Option {
	return func(e *Engine) { e.limiter = NewRateLimiter(d) }
}

// WithJoinTimeout overrides the bounded wait for workers on Shutdown.
func WithJoinTimeout(d time.Duration) Option {
	return func(e *Engine) { e.joinTimeout = d }
}

// WithEmergencyStop sets the hotkey that unconditionally stops every slot.
func WithEmergencyStop(key domain.KeyIdentity) Option {
	return func(e *Engine) { e.emergency = key }
}

// WithPersist registers the configuration save funnel. The engine calls it
// after hotkey or interval changes; failures are logged, never escalated.
func WithPersist(save func() error) Option {
	return func(e *Engine) { e.persist = save }
}

// New creates an engine owning one slot per spec. Slot order and group
// membership come from the specs; the engine adds no control flow per slot.
func New(actuator ports.InputActuator, listeners ports.ListenerFactory, specs []SlotSpec, opts ...Option) (*Engine, error) {
	if actuator == nil {
		return nil, fmt.Errorf("engine: actuator is required")
	}
	if listeners == nil {
		return nil, fmt.Errorf("engine: listener factory is required")
	}

	e := &Engine{
		log:         logging.NewNop(),
		actuator:    actuator,
		newListener: listeners,
		limiter:     NewRateLimiter(DefaultCooldown),
		joinTimeout: DefaultJoinTimeout,
		byName:      make(map[string]*Slot),
		groups:      make(map[string][]*Slot),
		emergency:   domain.Special("f9"),
		events:      make(chan keyEvent, 16),
		quit:        make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, fmt.Errorf("engine: slot with empty name")
		}
		if _, dup := e.byName[spec.Name]; dup {
			return nil, fmt.Errorf("engine: duplicate slot %q", spec.Name)
		}
		if err := domain.ValidateInterval(spec.Interval); err != nil {
			return nil, fmt.Errorf("engine: slot %q: %w", spec.Name, err)
		}
		s := newSlot(spec)
		e.slots = append(e.slots, s)
		e.byName[spec.Name] = s
		e.groups[s.group] = append(e.groups[s.group], s)
	}
	return e, nil
}

// Start installs the dispatch listener and begins draining key events.
func (e *Engine) Start() error {
	e.swapMu.Lock()
	defer e.swapMu.Unlock()

	l := e.newListener()
	if err := l.Start(e.postDispatch); err != nil {
		return fmt.Errorf("starting dispatch listener: %w", err)
	}
	e.dispatch = l

	e.started = true
	go e.drain()
	return nil
}

// postDispatch is the dispatch listener callback. It hands the event to
// the engine's own goroutine; a full queue drops the event, which the
// rate limiter would most likely do anyway.
func (e *Engine) postDispatch(key domain.KeyIdentity) {
	select {
	case e.events <- keyEvent{key: key}:
	default:
	}
}

func (e *Engine) postCapture(key domain.KeyIdentity) {
	select {
	case e.events <- keyEvent{key: key, captured: true}:
	default:
	}
}

// drain is the single consumer of the event queue. Listener goroutines
// never make mutating engine calls directly.
func (e *Engine) drain() {
	defer close(e.done)
	for {
		select {
		case <-e.quit:
			return
		case ev := <-e.events:
			if ev.captured {
				e.OnCaptured(ev.key)
			} else {
				e.DispatchKey(ev.key)
			}
		}
	}
}

// DispatchKey routes one qualifying key-press event: rate limit, then
// emergency stop, then slot toggle. Unbound keys are ignored.
func (e *Engine) DispatchKey(key domain.KeyIdentity) {
	if !e.limiter.Allow(key, time.Now()) {
		return
	}

	e.bindMu.Lock()
	emergency := e.emergency
	e.bindMu.Unlock()

	if key == emergency {
		e.log.Info("emergency stop", "key", key.String())
		e.StopAll()
		return
	}

	for _, s := range e.slots {
		if s.Hotkey() == key {
			e.toggle(s)
			return
		}
	}
}

// Toggle starts or stops the named slot.
func (e *Engine) Toggle(name string) error {
	s, ok := e.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSlot, name)
	}
	e.toggle(s)
	return nil
}

func (e *Engine) toggle(s *Slot) {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	e.metrics.Toggle(s.name)
	if s.Running() {
		e.stopSlot(s)
	} else {
		e.startSlot(s)
	}
}

// startSlot stops every mutex-group sibling, then starts s. Callers hold
// opMu, so no observer polling status can catch two group members running.
func (e *Engine) startSlot(s *Slot) {
	for _, sibling := range e.groups[s.group] {
		if sibling != s {
			e.stopSlot(sibling)
		}
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.status = domain.StatusRunning
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	stop, done := s.stop, s.done
	s.mu.Unlock()

	go e.worker(s, stop, done)

	e.log.Debug("slot started", "slot", s.name)
	e.metrics.SlotRunning(s.name, true)
	e.notifier.SlotStatus(s.name, domain.StatusRunning)
}

// stopSlot requests a cooperative stop. Idempotent: a second call finds
// running already false and issues no further status transition.
func (e *Engine) stopSlot(s *Slot) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.status = domain.StatusIdle
	close(s.stop)
	s.mu.Unlock()

	e.log.Debug("slot stopped", "slot", s.name)
	e.metrics.SlotRunning(s.name, false)
	e.notifier.SlotStatus(s.name, domain.StatusIdle)
}

// StopAll stops every slot across all groups, unconditionally.
func (e *Engine) StopAll() {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	for _, s := range e.slots {
		e.stopSlot(s)
	}
}

// StartSlot starts the named slot, stopping its group siblings first.
func (e *Engine) StartSlot(name string) error {
	s, ok := e.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSlot, name)
	}
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.startSlot(s)
	return nil
}

// StopSlot stops the named slot.
func (e *Engine) StopSlot(name string) error {
	s, ok := e.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSlot, name)
	}
	e.opMu.Lock()
	defer e.opMu.Unlock()
	e.stopSlot(s)
	return nil
}

// worker is the repeating action loop for one slot. The running flag is
// observed at the top of each iteration; stop is a request, and one
// in-flight action may complete after it.
func (e *Engine) worker(s *Slot, stop, done chan struct{}) {
	defer close(done)
	for {
		s.mu.Lock()
		if !s.running {
			s.mu.Unlock()
			return
		}
		interval := s.interval
		kind := s.kind
		target := s.targetKey
		s.mu.Unlock()

		var err error
		if kind == KindKeyPresser {
			err = e.actuator.PerformKeyPress(target)
		} else {
			err = e.actuator.PerformClick()
		}
		if err != nil {
			s.mu.Lock()
			s.running = false
			s.status = domain.StatusError
			s.mu.Unlock()
			e.log.Warn("actuator failed, slot stopped", "slot", s.name, "error", err)
			e.metrics.SlotRunning(s.name, false)
			e.notifier.SlotStatus(s.name, domain.StatusError)
			return
		}
		e.metrics.Action(s.name)

		select {
		case <-time.After(time.Duration(interval * float64(time.Second))):
		case <-stop:
		}
	}
}

// SetInterval validates and applies a new interval for the named slot. A
// running worker picks it up on its next iteration.
func (e *Engine) SetInterval(name string, seconds float64) error {
	s, ok := e.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownSlot, name)
	}
	if err := s.setInterval(seconds); err != nil {
		return err
	}
	e.savePersisted()
	return nil
}

// Hotkey returns the current hotkey of the named slot.
func (e *Engine) Hotkey(name string) (domain.KeyIdentity, error) {
	s, ok := e.byName[name]
	if !ok {
		return domain.KeyIdentity{}, fmt.Errorf("%w: %q", domain.ErrUnknownSlot, name)
	}
	return s.Hotkey(), nil
}

// EmergencyHotkey returns the current emergency-stop binding.
func (e *Engine) EmergencyHotkey() domain.KeyIdentity {
	e.bindMu.Lock()
	defer e.bindMu.Unlock()
	return e.emergency
}

// Slots returns a status snapshot of every slot, in definition order.
func (e *Engine) Slots() []SlotView {
	views := make([]SlotView, 0, len(e.slots))
	for _, s := range e.slots {
		views = append(views, s.view())
	}
	return views
}

func (e *Engine) savePersisted() {
	if e.persist == nil {
		return
	}
	if err := e.persist(); err != nil {
		e.log.Warn("saving configuration failed", "error", err)
	}
}

// Shutdown stops every slot and the active listener, then joins workers
// with a bounded wait. Stragglers are logged, never escalated.
func (e *Engine) Shutdown() {
	e.StopAll()

	var waits []struct {
		name string
		done chan struct{}
	}
	for _, s := range e.slots {
		s.mu.Lock()
		done := s.done
		s.mu.Unlock()
		if done != nil {
			waits = append(waits, struct {
				name string
				done chan struct{}
			}{s.name, done})
		}
	}

	timer := time.NewTimer(e.joinTimeout)
	defer timer.Stop()
	expired := false
	for _, w := range waits {
		if expired {
			select {
			case <-w.done:
			default:
				e.log.Warn("worker did not exit before deadline", "slot", w.name)
			}
			continue
		}
		select {
		case <-w.done:
		case <-timer.C:
			expired = true
			select {
			case <-w.done:
			default:
				e.log.Warn("worker did not exit before deadline", "slot", w.name)
			}
		}
	}

	e.swapMu.Lock()
	if e.capture != nil {
		e.capture.Stop()
		e.capture = nil
	}
	if e.dispatch != nil {
		e.dispatch.Stop()
		e.dispatch = nil
	}
	started := e.started
	e.swapMu.Unlock()

	e.stopOnce.Do(func() { close(e.quit) })
	if started {
		<-e.done
	}
}

type nopNotifier struct{}

func (nopNotifier) SlotStatus(string, domain.SlotStatus)   {}
func (nopNotifier) CaptureStarted(string)                  {}
func (nopNotifier) HotkeyBound(string, domain.KeyIdentity) {}
func (nopNotifier) UpdateEvent(domain.UpdateNotification)  {}
func (nopNotifier) Degraded(string)                        {}
