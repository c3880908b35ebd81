// Package metrics defines the Prometheus collectors exported by the
// autoclicker. All engine and pipeline instrumentation funnels through the
// Set type, which is nil-safe so tests can run without a registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Set holds every collector the application registers.
type Set struct {
	actions      *prometheus.CounterVec
	toggles      *prometheus.CounterVec
	slotRunning  *prometheus.GaugeVec
	updateChecks *prometheus.CounterVec
}

// New creates the collector set and registers it with reg.
func New(reg prometheus.Registerer) *Set {
	s := &Set{
		actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoclicker_actions_total",
				Help: "Total simulated input actions performed, per slot",
			},
			[]string{"slot"},
		),
		toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoclicker_toggles_total",
				Help: "Total slot toggles dispatched, per slot",
			},
			[]string{"slot"},
		),
		slotRunning: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "autoclicker_slot_running",
				Help: "Whether a slot is currently running (0 or 1)",
			},
			[]string{"slot"},
		),
		updateChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autoclicker_update_checks_total",
				Help: "Total update checks, per outcome",
			},
			[]string{"outcome"},
		),
	}
	reg.MustRegister(s.actions, s.toggles, s.slotRunning, s.updateChecks)
	return s
}

// Action records one performed input action.
func (s *Set) Action(slot string) {
	if s == nil {
		return
	}
	s.actions.WithLabelValues(slot).Inc()
}

// Toggle records one dispatched toggle.
func (s *Set) Toggle(slot string) {
	if s == nil {
		return
	}
	s.toggles.WithLabelValues(slot).Inc()
}

// SlotRunning records a slot's running state.
func (s *Set) SlotRunning(slot string, running bool) {
	if s == nil {
		return
	}
	v := 0.0
	if running {
		v = 1.0
	}
	s.slotRunning.WithLabelValues(slot).Set(v)
}

// UpdateCheck records one update check outcome.
func (s *Set) UpdateCheck(outcome string) {
	if s == nil {
		return
	}
	s.updateChecks.WithLabelValues(outcome).Inc()
}
