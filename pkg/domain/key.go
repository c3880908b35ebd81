package domain

import (
	"encoding/json"
	"strings"
	"unicode"
)

// KeyKind discriminates the two variants of KeyIdentity.
type KeyKind string

const (
	// KindSpecial is a named non-printable key (function keys, space, shift...).
	KindSpecial KeyKind = "special"
	// KindChar is a single printable character key.
	KindChar KeyKind = "char"
)

// KeyIdentity is an opaque, comparable identity for one physical key.
// It is a tagged variant: either a named special key or a single character.
// The zero value is not a valid key; use Special, Character or DefaultHotkey.
type KeyIdentity struct {
	Kind  KeyKind
	Value string
}

// Special returns the identity of a named special key. Names are stored
// lowercase so that "F6" and "f6" compare equal.
func Special(name string) KeyIdentity {
	return KeyIdentity{Kind: KindSpecial, Value: strings.ToLower(strings.TrimSpace(name))}
}

// Character returns the identity of a single printable character key.
func Character(r rune) KeyIdentity {
	return KeyIdentity{Kind: KindChar, Value: string(unicode.ToLower(r))}
}

// DefaultHotkey is the documented fallback used whenever a persisted key
// cannot be decoded.
func DefaultHotkey() KeyIdentity {
	return Special("f6")
}

// IsZero reports whether the identity is unset.
func (k KeyIdentity) IsZero() bool {
	return k.Kind == "" && k.Value == ""
}

// String renders the key for display: function keys as "F<N>", other
// special keys capitalized, character keys uppercase.
func (k KeyIdentity) String() string {
	switch k.Kind {
	case KindSpecial:
		if isFunctionKey(k.Value) {
			return strings.ToUpper(k.Value)
		}
		return capitalize(k.Value)
	case KindChar:
		return strings.ToUpper(k.Value)
	default:
		return "?"
	}
}

func isFunctionKey(name string) bool {
	if len(name) < 2 || name[0] != 'f' {
		return false
	}
	for _, r := range name[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// keyJSON is the persisted tagged form.
type keyJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

// MarshalJSON serializes the key in its tagged form {kind, value}.
func (k KeyIdentity) MarshalJSON() ([]byte, error) {
	return json.Marshal(keyJSON{Kind: string(k.Kind), Value: k.Value})
}

// UnmarshalJSON deserializes the tagged form. A malformed shape never
// fails the surrounding load: the key falls back to DefaultHotkey.
func (k *KeyIdentity) UnmarshalJSON(data []byte) error {
	var raw keyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		*k = DefaultHotkey()
		return nil
	}
	*k = DecodeKey(map[string]any{"kind": raw.Kind, "value": raw.Value})
	return nil
}

// DecodeKey converts an untyped decoded value (typically a map coming out
// of a JSON config document) into a KeyIdentity. Any malformed shape yields
// DefaultHotkey rather than an error, so a single bad field cannot abort a
// config load.
func DecodeKey(v any) KeyIdentity {
	raw, ok := v.(map[string]any)
	if !ok {
		return DefaultHotkey()
	}
	kind, ok := raw["kind"].(string)
	if !ok {
		return DefaultHotkey()
	}
	value, ok := raw["value"].(string)
	if !ok {
		return DefaultHotkey()
	}
	switch KeyKind(kind) {
	case KindSpecial:
		if value == "" {
			return DefaultHotkey()
		}
		return Special(value)
	case KindChar:
		runes := []rune(value)
		if len(runes) != 1 {
			return DefaultHotkey()
		}
		return Character(runes[0])
	default:
		return DefaultHotkey()
	}
}

// ParseKey interprets a human-written key name ("f6", "space", "a") as used
// in slot profiles. Single runes become character keys, anything longer a
// special key. Empty input yields DefaultHotkey.
func ParseKey(s string) KeyIdentity {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	switch {
	case len(runes) == 0:
		return DefaultHotkey()
	case len(runes) == 1:
		return Character(runes[0])
	default:
		return Special(s)
	}
}
