package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManagerEnabled(t *testing.T) {
	m := NewManager("trailer_cut=on, storyboard=off, beta_forum=50%, junk, bad=")

	assert.True(t, m.Enabled("trailer_cut", 1))
	assert.True(t, m.Enabled("TRAILER_CUT", 1), "flag names are case-insensitive")
	assert.False(t, m.Enabled("storyboard", 1))
	assert.True(t, m.Enabled("undeclared", 1), "unknown flags default to enabled")

	// Percentage rollout is deterministic per user.
	first := m.Enabled("beta_forum", 42)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, m.Enabled("beta_forum", 42))
	}

	// Roughly half the user base should land in a 50% bucket.
	on := 0
	for uid := uint(0); uid < 1000; uid++ {
		if m.Enabled("beta_forum", uid) {
			on++
		}
	}
	assert.Greater(t, on, 300)
	assert.Less(t, on, 700)
}

func TestManagerBounds(t *testing.T) {
	m := NewManager("all=100%,none=0%,neg=-5%,garbage=maybe")

	assert.True(t, m.Enabled("all", 7))
	assert.False(t, m.Enabled("none", 7))
	assert.False(t, m.Enabled("neg", 7))
	assert.False(t, m.Enabled("garbage", 7))

	var nilManager *Manager
	assert.True(t, nilManager.Enabled("anything", 1))
}
