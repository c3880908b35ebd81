package update

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNewer(t *testing.T) {
	cases := []struct {
		remote, local string
		want          bool
	}{
		{"1.4.0", "1.3.0", true},
		{"1.4.0", "1.4.0", false},
		{"1.0.0", "1.0.0", false},
		{"v1.1.0", "1.0.0", true},
		{"1.4.0", "1.4.0-beta", true},
		{"1.4.0-beta", "1.4.0", false},
		{"1.4.0-beta2", "1.4.0-beta1", true},
		{"1.4.0-beta1", "1.4.0-beta2", false},
		{"2.0.0", "1.99.99", true},
		{"1.4", "1.4.0", false},
		{"1.4.1", "1.4", true},
		{"1.4a.0", "1.4.0", false},
		{"1.5a.0", "1.4.9", true},
		{"", "1.0.0", false},
		{"0.0.1", "", true},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%s_vs_%s", tc.remote, tc.local), func(t *testing.T) {
			assert.Equal(t, tc.want, IsNewer(tc.remote, tc.local))
		})
	}
}

func TestIsNewer_StrictOrdering(t *testing.T) {
	// The comparison is a strict ordering: a version is never newer than
	// itself, and newer-than is antisymmetric.
	versions := []string{"1.0.0", "1.0.1", "1.1.0-beta1", "1.1.0-beta2", "1.1.0", "2.0.0"}
	for i, a := range versions {
		assert.False(t, IsNewer(a, a), "%s vs itself", a)
		for _, b := range versions[i+1:] {
			assert.True(t, IsNewer(b, a), "%s should be newer than %s", b, a)
			assert.False(t, IsNewer(a, b), "%s should not be newer than %s", a, b)
		}
	}
}
