// Package robotgo emits real OS input via the robotgo library.
package robotgo

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// keyNames maps the evdev-style key codes used in slot profiles to robotgo
// key names. Only codes that slots realistically target are mapped;
// anything else is rejected up front rather than silently tapping the
// wrong key.
var keyNames = map[int]string{
	1:  "escape",
	14: "backspace",
	15: "tab",
	28: "enter",
	57: "space",

	2: "1", 3: "2", 4: "3", 5: "4", 6: "5",
	7: "6", 8: "7", 9: "8", 10: "9", 11: "0",

	16: "q", 17: "w", 18: "e", 19: "r", 20: "t",
	21: "y", 22: "u", 23: "i", 24: "o", 25: "p",
	30: "a", 31: "s", 32: "d", 33: "f", 34: "g",
	35: "h", 36: "j", 37: "k", 38: "l",
	44: "z", 45: "x", 46: "c", 47: "v", 48: "b",
	49: "n", 50: "m",

	59: "f1", 60: "f2", 61: "f3", 62: "f4", 63: "f5",
	64: "f6", 65: "f7", 66: "f8", 67: "f9", 68: "f10",
	87: "f11", 88: "f12",

	103: "up", 108: "down", 105: "left", 106: "right",
}

// Actuator performs clicks and key taps against the real desktop.
type Actuator struct{}

// NewActuator returns the real-input actuator.
func NewActuator() *Actuator { return &Actuator{} }

// PerformClick emits one left mouse click at the current cursor position.
func (a *Actuator) PerformClick() error {
	robotgo.Click("left", false)
	return nil
}

// PerformKeyPress taps the key identified by code.
func (a *Actuator) PerformKeyPress(code int) error {
	name, ok := keyNames[code]
	if !ok {
		return fmt.Errorf("no key mapped for code %d", code)
	}
	return robotgo.KeyTap(name)
}
