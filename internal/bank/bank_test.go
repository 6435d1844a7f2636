package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCycling(t *testing.T) {
	m := NewMachine(Bank0)
	assert.Equal(t, Bank2, m.Previous())

	m = NewMachine(Bank2)
	assert.Equal(t, Bank0, m.Next())

	m = NewMachine(Bank1)
	assert.Equal(t, Bank2, m.Next())
	assert.Equal(t, Bank0, m.Next())
	assert.Equal(t, Bank1, m.Next())
	assert.Equal(t, Bank0, m.Previous())
}

func TestZeroValueStartsOnBank0(t *testing.T) {
	var m Machine
	assert.Equal(t, Bank0, m.Current())
}

func TestWrap(t *testing.T) {
	assert.Equal(t, Bank2, Wrap(-1))
	assert.Equal(t, Bank0, Wrap(3))
	assert.Equal(t, Bank1, Wrap(-5))
}

func TestIndicators(t *testing.T) {
	first, second := Indicators(Bank0)
	assert.True(t, first)
	assert.False(t, second)

	first, second = Indicators(Bank1)
	assert.False(t, first)
	assert.True(t, second)

	first, second = Indicators(Bank2)
	assert.False(t, first)
	assert.False(t, second)
}
