package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jj-repository/autoclicker/pkg/domain"
)

// Profile describes the actuator slots as data. The shipped default is
// the classic two-clicker-plus-keypresser layout, but any number of
// slots can be declared in a YAML file.
type Profile struct {
	Slots []SlotDef `yaml:"slots"`
}

// SlotDef is one declared slot.
type SlotDef struct {
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"` // "click" or "keypress"
	Group     string  `yaml:"group"`
	Hotkey    string  `yaml:"hotkey"`
	Interval  float64 `yaml:"interval"`
	TargetKey int     `yaml:"target_key"`
}

// DefaultProfile returns the built-in three-slot layout.
func DefaultProfile() Profile {
	return Profile{Slots: []SlotDef{
		{Name: "clicker1", Kind: "click", Group: "clickers", Hotkey: "f6", Interval: DefaultClicker1Interval},
		{Name: "clicker2", Kind: "click", Group: "clickers", Hotkey: "f7", Interval: DefaultClicker2Interval},
		{Name: "keypresser", Kind: "keypress", Group: "keys", Hotkey: "f8", Interval: DefaultKeypresserInterval, TargetKey: DefaultTargetKey},
	}}
}

// LoadProfile reads and validates a profile file. An empty path returns
// the built-in default.
func LoadProfile(path string) (Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("reading profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parsing profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate rejects profiles the engine would refuse at construction.
func (p Profile) Validate() error {
	if len(p.Slots) == 0 {
		return fmt.Errorf("profile declares no slots")
	}
	seen := make(map[string]struct{}, len(p.Slots))
	for i, s := range p.Slots {
		if s.Name == "" {
			return fmt.Errorf("slot %d: name is required", i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("slot %q is declared twice", s.Name)
		}
		seen[s.Name] = struct{}{}
		switch s.Kind {
		case "click":
		case "keypress":
			if s.TargetKey < 1 || s.TargetKey > MaxTargetKey {
				return fmt.Errorf("slot %q: target_key %d is out of range", s.Name, s.TargetKey)
			}
		default:
			return fmt.Errorf("slot %q: unknown kind %q", s.Name, s.Kind)
		}
		if err := domain.ValidateInterval(s.Interval); err != nil {
			return fmt.Errorf("slot %q: %w", s.Name, err)
		}
		if s.Hotkey == "" {
			return fmt.Errorf("slot %q: hotkey is required", s.Name)
		}
	}
	return nil
}
