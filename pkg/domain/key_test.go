package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyIdentity_String(t *testing.T) {
	cases := []struct {
		name string
		key  domain.KeyIdentity
		want string
	}{
		{"function key uppercased", domain.Special("f6"), "F6"},
		{"two digit function key", domain.Special("f12"), "F12"},
		{"special key capitalized", domain.Special("space"), "Space"},
		{"special key already mixed case input", domain.Special("Shift"), "Shift"},
		{"character uppercased", domain.Character('a'), "A"},
		{"non letter character", domain.Character('7'), "7"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.key.String())
		})
	}
}

func TestKeyIdentity_Equality(t *testing.T) {
	// KeyIdentity is comparable and usable as a map key.
	assert.Equal(t, domain.Special("F6"), domain.Special("f6"))
	assert.NotEqual(t, domain.Special("f6"), domain.Character('f'))

	seen := map[domain.KeyIdentity]bool{domain.Special("f9"): true}
	assert.True(t, seen[domain.Special("f9")])
}

func TestKeyIdentity_RoundTrip(t *testing.T) {
	for _, key := range []domain.KeyIdentity{
		domain.Special("f6"),
		domain.Special("space"),
		domain.Character('x'),
	} {
		data, err := json.Marshal(key)
		require.NoError(t, err)

		var got domain.KeyIdentity
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, key, got)
	}
}

func TestKeyIdentity_MalformedFallsBack(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not an object", `"f6"`},
		{"missing value", `{"kind":"special"}`},
		{"unknown kind", `{"kind":"combo","value":"ctrl+c"}`},
		{"multi rune char", `{"kind":"char","value":"ab"}`},
		{"empty special name", `{"kind":"special","value":""}`},
		{"numeric value", `{"kind":"char","value":7}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got domain.KeyIdentity
			require.NoError(t, json.Unmarshal([]byte(tc.data), &got))
			assert.Equal(t, domain.DefaultHotkey(), got)
		})
	}
}

func TestDecodeKey(t *testing.T) {
	assert.Equal(t, domain.Special("f7"),
		domain.DecodeKey(map[string]any{"kind": "special", "value": "f7"}))
	assert.Equal(t, domain.Character('q'),
		domain.DecodeKey(map[string]any{"kind": "char", "value": "q"}))
	assert.Equal(t, domain.DefaultHotkey(), domain.DecodeKey("garbage"))
	assert.Equal(t, domain.DefaultHotkey(), domain.DecodeKey(nil))
}

func TestParseKey(t *testing.T) {
	assert.Equal(t, domain.Special("f6"), domain.ParseKey("f6"))
	assert.Equal(t, domain.Special("space"), domain.ParseKey(" space "))
	assert.Equal(t, domain.Character('a'), domain.ParseKey("A"))
	assert.Equal(t, domain.DefaultHotkey(), domain.ParseKey(""))
}

func TestValidateInterval(t *testing.T) {
	assert.NoError(t, domain.ValidateInterval(0.01))
	assert.NoError(t, domain.ValidateInterval(60.0))
	assert.NoError(t, domain.ValidateInterval(0.5))
	assert.ErrorIs(t, domain.ValidateInterval(0.009), domain.ErrIntervalOutOfRange)
	assert.ErrorIs(t, domain.ValidateInterval(60.01), domain.ErrIntervalOutOfRange)
	assert.ErrorIs(t, domain.ValidateInterval(-1), domain.ErrIntervalOutOfRange)
}
