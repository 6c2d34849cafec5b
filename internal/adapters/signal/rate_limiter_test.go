package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestRateLimiter(t *testing.T) {
	rl := NewRequestRateLimiter(2, time.Minute)

	assert.True(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"), "third attempt inside the window is blocked")

	assert.True(t, rl.Allow("u2"), "other seekers are unaffected")
}

func TestRequestRateLimiterWindowExpiry(t *testing.T) {
	rl := NewRequestRateLimiter(1, 10*time.Millisecond)

	assert.True(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, rl.Allow("u1"), "attempts outside the window are forgotten")
}
