package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jj-repository/autoclicker/internal/engine"
	"github.com/jj-repository/autoclicker/pkg/adapters/memory"
	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpecs() []engine.SlotSpec {
	return []engine.SlotSpec{
		{Name: "clicker1", Kind: engine.KindClicker, Group: "clickers", Hotkey: domain.Special("f6"), Interval: 0.01},
		{Name: "clicker2", Kind: engine.KindClicker, Group: "clickers", Hotkey: domain.Special("f7"), Interval: 0.01},
		{Name: "keypresser", Kind: engine.KindKeyPresser, Group: "keys", Hotkey: domain.Special("f8"), Interval: 0.01, TargetKey: 57},
	}
}

type fixture struct {
	engine   *engine.Engine
	actuator *memory.Actuator
	hub      *memory.ListenerHub
	notifier *memory.Notifier
}

func newFixture(t *testing.T, opts ...engine.Option) *fixture {
	t.Helper()
	fx := &fixture{
		actuator: memory.NewActuator(),
		hub:      memory.NewListenerHub(),
		notifier: memory.NewNotifier(),
	}
	base := []engine.Option{
		engine.WithNotifier(fx.notifier),
		engine.WithCooldown(0), // most tests dispatch synthetically, no cooldown
		engine.WithEmergencyStop(domain.Special("f9")),
	}
	eng, err := engine.New(fx.actuator, fx.hub.Factory(), testSpecs(), append(base, opts...)...)
	require.NoError(t, err)
	fx.engine = eng
	t.Cleanup(eng.Shutdown)
	return fx
}

func slotView(t *testing.T, e *engine.Engine, name string) engine.SlotView {
	t.Helper()
	for _, v := range e.Slots() {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("slot %q not found", name)
	return engine.SlotView{}
}

func TestNew_RejectsBadSpecs(t *testing.T) {
	hub := memory.NewListenerHub()

	_, err := engine.New(memory.NewActuator(), hub.Factory(), []engine.SlotSpec{
		{Name: "a", Interval: 0.001},
	})
	assert.ErrorIs(t, err, domain.ErrIntervalOutOfRange)

	_, err = engine.New(memory.NewActuator(), hub.Factory(), []engine.SlotSpec{
		{Name: "a", Interval: 0.1},
		{Name: "a", Interval: 0.1},
	})
	assert.Error(t, err, "duplicate slot names are rejected")
}

func TestEngine_ToggleStartsAndStops(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.engine.Toggle("clicker1"))
	assert.Equal(t, "Running", slotView(t, fx.engine, "clicker1").Display)

	require.Eventually(t, func() bool { return fx.actuator.Clicks() > 0 },
		2*time.Second, 5*time.Millisecond, "worker should perform clicks")

	require.NoError(t, fx.engine.Toggle("clicker1"))
	assert.Equal(t, "Idle", slotView(t, fx.engine, "clicker1").Display)

	// The worker observes the flag and exits; click count settles.
	time.Sleep(50 * time.Millisecond)
	settled := fx.actuator.Clicks()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, fx.actuator.Clicks(), "no clicks after stop")
}

func TestEngine_KeyPresserUsesTargetKey(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.engine.Toggle("keypresser"))
	require.Eventually(t, func() bool { return len(fx.actuator.KeyPresses()) > 0 },
		2*time.Second, 5*time.Millisecond)
	require.NoError(t, fx.engine.StopSlot("keypresser"))

	for _, code := range fx.actuator.KeyPresses() {
		assert.Equal(t, 57, code)
	}
}

func TestEngine_MutexGroupExclusive(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.engine.Toggle("clicker1"))

	// Toggling the sibling stops clicker1 before clicker2 starts.
	require.NoError(t, fx.engine.Toggle("clicker2"))

	v1 := slotView(t, fx.engine, "clicker1")
	v2 := slotView(t, fx.engine, "clicker2")
	assert.Equal(t, "Idle", v1.Display)
	assert.Equal(t, "Running", v2.Display)

	running := 0
	for _, v := range fx.engine.Slots() {
		if v.Group == "clickers" && v.Display == "Running" {
			running++
		}
	}
	assert.LessOrEqual(t, running, 1, "at most one clickers member runs")
}

func TestEngine_GroupsAreIndependent(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.engine.Toggle("clicker1"))
	require.NoError(t, fx.engine.Toggle("keypresser"))

	assert.Equal(t, "Running", slotView(t, fx.engine, "clicker1").Display,
		"starting a slot in another group does not stop clicker1")
	assert.Equal(t, "Running", slotView(t, fx.engine, "keypresser").Display)
}

func TestEngine_EmergencyStop(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.engine.Toggle("clicker1"))
	require.NoError(t, fx.engine.Toggle("keypresser"))

	fx.engine.DispatchKey(domain.Special("f9"))

	for _, v := range fx.engine.Slots() {
		assert.Equal(t, "Idle", v.Display, "slot %s stopped by emergency key", v.Name)
	}
}

func TestEngine_DispatchCooldown(t *testing.T) {
	fx := newFixture(t, engine.WithCooldown(200*time.Millisecond))

	// Two events for the same key in quick succession: the second is
	// dropped, so the slot stays toggled on instead of flapping off.
	fx.engine.DispatchKey(domain.Special("f6"))
	fx.engine.DispatchKey(domain.Special("f6"))

	assert.Equal(t, "Running", slotView(t, fx.engine, "clicker1").Display)
}

func TestEngine_DispatchUnboundKeyIsNoop(t *testing.T) {
	fx := newFixture(t)

	fx.engine.DispatchKey(domain.Character('z'))

	for _, v := range fx.engine.Slots() {
		assert.Equal(t, "Idle", v.Display)
	}
}

func TestEngine_ActuatorErrorMarksSlot(t *testing.T) {
	fx := newFixture(t)
	fx.actuator.FailAlways(errors.New("injection backend gone"))

	require.NoError(t, fx.engine.Toggle("clicker1"))

	require.Eventually(t, func() bool {
		return slotView(t, fx.engine, "clicker1").Display == "Error"
	}, 2*time.Second, 5*time.Millisecond, "failed actuator surfaces as Error status")

	// The failure is fatal to this slot only, not the process or siblings.
	assert.Equal(t, "Idle", slotView(t, fx.engine, "clicker2").Display)

	changes := fx.notifier.StatusChanges("clicker1")
	require.NotEmpty(t, changes)
	assert.Equal(t, domain.StatusError, changes[len(changes)-1])
}

func TestEngine_StopIsIdempotent(t *testing.T) {
	fx := newFixture(t)

	require.NoError(t, fx.engine.StartSlot("clicker1"))
	require.NoError(t, fx.engine.StopSlot("clicker1"))
	require.NoError(t, fx.engine.StopSlot("clicker1"))

	assert.Equal(t, "Idle", slotView(t, fx.engine, "clicker1").Display)
	assert.Equal(t,
		[]domain.SlotStatus{domain.StatusRunning, domain.StatusIdle},
		fx.notifier.StatusChanges("clicker1"),
		"the second stop issues no extra status transition")
}

func TestEngine_SetInterval(t *testing.T) {
	fx := newFixture(t)

	err := fx.engine.SetInterval("clicker1", 120.0)
	assert.ErrorIs(t, err, domain.ErrIntervalOutOfRange)
	assert.InDelta(t, 0.01, slotView(t, fx.engine, "clicker1").Interval, 1e-9,
		"rejected interval leaves stored value unchanged")

	err = fx.engine.SetInterval("clicker1", 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, slotView(t, fx.engine, "clicker1").Interval, 1e-9)

	assert.ErrorIs(t, fx.engine.SetInterval("nope", 0.5), domain.ErrUnknownSlot)
}

func TestEngine_DispatchThroughListener(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.engine.Start())

	assert.Equal(t, 1, fx.hub.ActiveCount(), "dispatch listener active")

	fx.hub.Emit(domain.Special("f6"))
	require.Eventually(t, func() bool {
		return slotView(t, fx.engine, "clicker1").Display == "Running"
	}, 2*time.Second, 5*time.Millisecond, "listener event toggles the slot")
}

func TestEngine_ShutdownJoinsWorkersAndStopsListener(t *testing.T) {
	fx := newFixture(t)
	require.NoError(t, fx.engine.Start())
	require.NoError(t, fx.engine.Toggle("clicker1"))
	require.NoError(t, fx.engine.Toggle("keypresser"))

	fx.engine.Shutdown()

	assert.Equal(t, 0, fx.hub.ActiveCount(), "no listener survives shutdown")
	for _, v := range fx.engine.Slots() {
		assert.NotEqual(t, "Running", v.Display)
	}
}
