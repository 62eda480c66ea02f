package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidTicker(t *testing.T) {
	assert.True(t, IsValidTicker("XOM"))
	assert.True(t, IsValidTicker("BRK.B"))
	assert.True(t, IsValidTicker("RDS-A"))
	assert.True(t, IsValidTicker("A"))

	assert.False(t, IsValidTicker(""))
	assert.False(t, IsValidTicker("123"))
	assert.False(t, IsValidTicker(".ABC"))
	assert.False(t, IsValidTicker("TOOLONGTICKER"))
	assert.False(t, IsValidTicker("XO M"))
}

func TestIsValidWeight(t *testing.T) {
	assert.True(t, IsValidWeight(0.01))
	assert.True(t, IsValidWeight(100))
	assert.False(t, IsValidWeight(0))
	assert.False(t, IsValidWeight(-5))
	assert.False(t, IsValidWeight(100.01))
}
