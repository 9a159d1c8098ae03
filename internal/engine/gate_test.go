package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_Transitions(t *testing.T) {
	var g Gate
	assert.Equal(t, GateIdle, g.State())

	g = g.Arm(5)
	k, ok := g.Candidate()
	assert.True(t, ok)
	assert.Equal(t, 5, k)

	g = g.Arm(6)
	k, _ = g.Candidate()
	assert.Equal(t, 6, k, "last delete intent wins")

	next, key, ok := g.Confirm()
	assert.True(t, ok)
	assert.Equal(t, 6, key)
	assert.False(t, next.Armed())

	_, _, ok = next.Confirm()
	assert.False(t, ok, "confirm while idle")

	assert.False(t, g.Cancel().Armed())
}
