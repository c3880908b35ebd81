package engine_test

import (
	"testing"
	"time"

	"github.com/jj-repository/autoclicker/internal/engine"
	"github.com/jj-repository/autoclicker/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_DropsWithinCooldown(t *testing.T) {
	limiter := engine.NewRateLimiter(200 * time.Millisecond)
	key := domain.Special("f6")
	base := time.Now()

	assert.True(t, limiter.Allow(key, base), "first event passes")
	assert.False(t, limiter.Allow(key, base.Add(50*time.Millisecond)),
		"second event 50ms later is dropped")
	assert.True(t, limiter.Allow(key, base.Add(250*time.Millisecond)),
		"event after the cooldown passes")
}

func TestRateLimiter_KeysAreIndependent(t *testing.T) {
	limiter := engine.NewRateLimiter(200 * time.Millisecond)
	base := time.Now()

	assert.True(t, limiter.Allow(domain.Special("f6"), base))
	assert.True(t, limiter.Allow(domain.Special("f7"), base.Add(time.Millisecond)),
		"a different key is not affected by the first key's cooldown")
}

func TestRateLimiter_ZeroCooldownDisables(t *testing.T) {
	limiter := engine.NewRateLimiter(0)
	key := domain.Character('a')
	now := time.Now()

	assert.True(t, limiter.Allow(key, now))
	assert.True(t, limiter.Allow(key, now))
}
