// Package cli assembles the application: configuration, slot profile,
// engine, and notifiers, shared by every command.
package cli

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jj-repository/autoclicker/internal/config"
	"github.com/jj-repository/autoclicker/internal/engine"
	"github.com/jj-repository/autoclicker/internal/metrics"
	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/jj-repository/autoclicker/pkg/ports"
)

// Deps are the swappable edges of the application. Tests inject memory
// adapters; the run command injects the real platform ones.
type Deps struct {
	Actuator  ports.InputActuator
	Listeners ports.ListenerFactory
	Notifier  ports.Notifier
	Logger    *slog.Logger

	ConfigPath  string
	ProfilePath string
}

// App is the wired application.
type App struct {
	Log      *slog.Logger
	Store    *config.Store
	Config   *config.Config
	Profile  config.Profile
	Engine   *engine.Engine
	Metrics  *metrics.Set
	Registry *prometheus.Registry

	// mu guards Config during syncConfig; persist triggers can arrive
	// from multiple goroutines at once.
	mu sync.Mutex
}

// NewApp loads config and profile, then builds the engine around them.
func NewApp(deps Deps) (*App, error) {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}

	path := deps.ConfigPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	store := config.NewStore(path, log)
	cfg := store.Load()

	profile, err := config.LoadProfile(deps.ProfilePath)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	set := metrics.New(registry)

	app := &App{
		Log:      log,
		Store:    store,
		Config:   cfg,
		Profile:  profile,
		Metrics:  set,
		Registry: registry,
	}

	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithMetrics(set),
		engine.WithEmergencyStop(cfg.EmergencyStopHotkey),
		engine.WithPersist(app.syncConfig),
	}
	if deps.Notifier != nil {
		opts = append(opts, engine.WithNotifier(deps.Notifier))
	}

	eng, err := engine.New(deps.Actuator, deps.Listeners, BuildSlotSpecs(profile, cfg), opts...)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}
	app.Engine = eng
	return app, nil
}

// BuildSlotSpecs merges persisted per-slot settings onto the profile. The
// three classic slot names are backed by dedicated config fields; any
// other declared slot runs with its profile values.
func BuildSlotSpecs(p config.Profile, cfg *config.Config) []engine.SlotSpec {
	specs := make([]engine.SlotSpec, 0, len(p.Slots))
	for _, s := range p.Slots {
		spec := engine.SlotSpec{
			Name:      s.Name,
			Kind:      engine.SlotKind(s.Kind),
			Group:     s.Group,
			Hotkey:    domain.ParseKey(s.Hotkey),
			Interval:  s.Interval,
			TargetKey: s.TargetKey,
		}
		switch s.Name {
		case "clicker1":
			spec.Interval = cfg.Clicker1Interval
			spec.Hotkey = cfg.Clicker1Hotkey
		case "clicker2":
			spec.Interval = cfg.Clicker2Interval
			spec.Hotkey = cfg.Clicker2Hotkey
		case "keypresser":
			spec.Interval = cfg.KeypresserInterval
			spec.Hotkey = cfg.KeypresserHotkey
			spec.TargetKey = cfg.KeypresserTargetKey
		}
		specs = append(specs, spec)
	}
	return specs
}

// syncConfig copies live engine state back into the config document and
// saves it. Registered as the engine's persist funnel; the engine may
// invoke it from its drain goroutine and from any SetInterval caller
// concurrently, so the whole snapshot-and-save holds a.mu.
func (a *App) syncConfig() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, v := range a.Engine.Slots() {
		key, err := a.Engine.Hotkey(v.Name)
		if err != nil {
			continue
		}
		switch v.Name {
		case "clicker1":
			a.Config.Clicker1Interval = v.Interval
			a.Config.Clicker1Hotkey = key
		case "clicker2":
			a.Config.Clicker2Interval = v.Interval
			a.Config.Clicker2Hotkey = key
		case "keypresser":
			a.Config.KeypresserInterval = v.Interval
			a.Config.KeypresserHotkey = key
		}
	}
	a.Config.EmergencyStopHotkey = a.Engine.EmergencyHotkey()
	return a.Store.Save(a.Config)
}
