// Package config owns the persisted user configuration and the slot
// profile. Loading is best-effort by design: any single malformed field
// falls back to its documented default without aborting the rest of the
// load, so a corrupted config file can never keep the application from
// starting.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/jj-repository/autoclicker/internal/logging"
	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Documented defaults, matching the shipped three-slot profile.
const (
	DefaultClicker1Interval   = 0.1
	DefaultClicker2Interval   = 0.5
	DefaultKeypresserInterval = 0.5

	// DefaultTargetKey is the space bar in evdev key codes.
	DefaultTargetKey = 57

	// MaxTargetKey bounds accepted key codes.
	MaxTargetKey = 0xFFFF
)

// Config is the persisted configuration document. Field names are fixed;
// they are the on-disk compatibility surface.
type Config struct {
	Clicker1Interval   float64 `json:"clicker1_interval"`
	Clicker2Interval   float64 `json:"clicker2_interval"`
	KeypresserInterval float64 `json:"keypresser_interval"`

	Clicker1Hotkey          domain.KeyIdentity `json:"clicker1_hotkey"`
	Clicker1HotkeyDisplay   string             `json:"clicker1_hotkey_display"`
	Clicker2Hotkey          domain.KeyIdentity `json:"clicker2_hotkey"`
	Clicker2HotkeyDisplay   string             `json:"clicker2_hotkey_display"`
	KeypresserHotkey        domain.KeyIdentity `json:"keypresser_hotkey"`
	KeypresserHotkeyDisplay string             `json:"keypresser_hotkey_display"`

	KeypresserTargetKey        int    `json:"keypresser_target_key"`
	KeypresserTargetKeyDisplay string `json:"keypresser_target_key_display"`

	EmergencyStopHotkey        domain.KeyIdentity `json:"emergency_stop_hotkey"`
	EmergencyStopHotkeyDisplay string             `json:"emergency_stop_hotkey_display"`

	AutoCheckUpdates bool `json:"auto_check_updates"`
}

// Default returns the documented default configuration.
func Default() *Config {
	c := &Config{
		Clicker1Interval:    DefaultClicker1Interval,
		Clicker2Interval:    DefaultClicker2Interval,
		KeypresserInterval:  DefaultKeypresserInterval,
		Clicker1Hotkey:      domain.Special("f6"),
		Clicker2Hotkey:      domain.Special("f7"),
		KeypresserHotkey:    domain.Special("f8"),
		KeypresserTargetKey: DefaultTargetKey,
		EmergencyStopHotkey: domain.Special("f9"),
		AutoCheckUpdates:    true,
	}
	c.refreshDisplays()
	return c
}

// refreshDisplays recomputes every display string from its source field,
// so a changed hotkey or target key can never leave a stale label behind.
func (c *Config) refreshDisplays() {
	c.Clicker1HotkeyDisplay = c.Clicker1Hotkey.String()
	c.Clicker2HotkeyDisplay = c.Clicker2Hotkey.String()
	c.KeypresserHotkeyDisplay = c.KeypresserHotkey.String()
	c.EmergencyStopHotkeyDisplay = c.EmergencyStopHotkey.String()
	c.KeypresserTargetKeyDisplay = targetKeyDisplay(c.KeypresserTargetKey)
}

// targetKeyLabels names the evdev key codes slots commonly target.
var targetKeyLabels = map[int]string{
	1: "Escape", 14: "Backspace", 15: "Tab", 28: "Enter", 57: "Space",

	2: "1", 3: "2", 4: "3", 5: "4", 6: "5",
	7: "6", 8: "7", 9: "8", 10: "9", 11: "0",

	16: "Q", 17: "W", 18: "E", 19: "R", 20: "T",
	21: "Y", 22: "U", 23: "I", 24: "O", 25: "P",
	30: "A", 31: "S", 32: "D", 33: "F", 34: "G",
	35: "H", 36: "J", 37: "K", 38: "L",
	44: "Z", 45: "X", 46: "C", 47: "V", 48: "B",
	49: "N", 50: "M",

	59: "F1", 60: "F2", 61: "F3", 62: "F4", 63: "F5",
	64: "F6", 65: "F7", 66: "F8", 67: "F9", 68: "F10",
	87: "F11", 88: "F12",

	103: "Up", 108: "Down", 105: "Left", 106: "Right",
}

func targetKeyDisplay(code int) string {
	if label, ok := targetKeyLabels[code]; ok {
		return label
	}
	return fmt.Sprintf("Key %d", code)
}

// DefaultPath returns the platform config file location
// (e.g. ~/.config/autoclicker/config.json on Linux).
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}
	return filepath.Join(base, "autoclicker", "config.json"), nil
}

// Store funnels all config reads and writes through one path and one
// lock, since saves may be triggered concurrently from multiple toggles.
type Store struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

// NewStore creates a store for the given file path. A nil logger is
// replaced with a no-op one.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{path: path, log: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the config file. It never fails: a missing or corrupted file
// yields defaults, and each field is validated independently so one bad
// value cannot poison the others.
func (s *Store) Load() *Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("cannot read config file, using defaults", "path", s.path, "error", err)
		}
		return cfg
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.log.Warn("config file is corrupted, using defaults", "path", s.path, "error", err)
		return cfg
	}

	cfg.Clicker1Interval = intervalField(raw, "clicker1_interval", DefaultClicker1Interval)
	cfg.Clicker2Interval = intervalField(raw, "clicker2_interval", DefaultClicker2Interval)
	cfg.KeypresserInterval = intervalField(raw, "keypresser_interval", DefaultKeypresserInterval)

	if v, ok := raw["clicker1_hotkey"]; ok {
		cfg.Clicker1Hotkey = domain.DecodeKey(v)
	}
	if v, ok := raw["clicker2_hotkey"]; ok {
		cfg.Clicker2Hotkey = domain.DecodeKey(v)
	}
	if v, ok := raw["keypresser_hotkey"]; ok {
		cfg.KeypresserHotkey = domain.DecodeKey(v)
	}
	if v, ok := raw["emergency_stop_hotkey"]; ok {
		cfg.EmergencyStopHotkey = domain.DecodeKey(v)
	}

	cfg.KeypresserTargetKey = targetKeyField(raw, "keypresser_target_key", DefaultTargetKey)

	if v, ok := raw["auto_check_updates"]; ok {
		if b, decoded := decodeBool(v); decoded {
			cfg.AutoCheckUpdates = b
		}
	}

	cfg.refreshDisplays()
	// Display strings persisted by older versions win when well-formed.
	cfg.Clicker1HotkeyDisplay = stringField(raw, "clicker1_hotkey_display", cfg.Clicker1HotkeyDisplay)
	cfg.Clicker2HotkeyDisplay = stringField(raw, "clicker2_hotkey_display", cfg.Clicker2HotkeyDisplay)
	cfg.KeypresserHotkeyDisplay = stringField(raw, "keypresser_hotkey_display", cfg.KeypresserHotkeyDisplay)
	cfg.EmergencyStopHotkeyDisplay = stringField(raw, "emergency_stop_hotkey_display", cfg.EmergencyStopHotkeyDisplay)

	return cfg
}

// Save writes the config atomically: temp file in the target directory,
// fsync, rename.
func (s *Store) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.refreshDisplays()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	f, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("creating temp config file: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("syncing config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// intervalField decodes and range-validates one interval, falling back to
// def on any violation.
func intervalField(raw map[string]any, key string, def float64) float64 {
	v, ok := raw[key]
	if !ok {
		return def
	}
	f, decoded := decodeFloat(v)
	if !decoded || domain.ValidateInterval(f) != nil {
		return def
	}
	return f
}

func targetKeyField(raw map[string]any, key string, def int) int {
	v, ok := raw[key]
	if !ok {
		return def
	}
	n, decoded := decodeInt(v)
	if !decoded || n < 1 || n > MaxTargetKey {
		return def
	}
	return n
}

func stringField(raw map[string]any, key, def string) string {
	if v, ok := raw[key].(string); ok && v != "" {
		return v
	}
	return def
}

// decodeFloat tolerates numeric strings and integer forms, the way loose
// JSON documents from older versions may carry them.
func decodeFloat(v any) (float64, bool) {
	var f float64
	if err := weakDecode(v, &f); err != nil {
		return 0, false
	}
	return f, true
}

func decodeInt(v any) (int, bool) {
	// JSON numbers arrive as float64; reject fractional key codes.
	if f, ok := v.(float64); ok && f != float64(int(f)) {
		return 0, false
	}
	var n int
	if err := weakDecode(v, &n); err != nil {
		return 0, false
	}
	return n, true
}

func decodeBool(v any) (bool, bool) {
	var b bool
	if err := weakDecode(v, &b); err != nil {
		return false, false
	}
	return b, true
}

func weakDecode(input, result any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
