package encoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelative(t *testing.T) {
	for v := 2; v <= 63; v++ {
		assert.Equal(t, -(64 - v), Relative(uint8(v)), "value %d", v)
	}
	for v := 65; v <= 126; v++ {
		assert.Equal(t, v-64, Relative(uint8(v)), "value %d", v)
	}
	assert.Equal(t, 0, Relative(64))
	assert.Equal(t, 0, Relative(0))

	// edges of each range
	assert.Equal(t, -62, Relative(2))
	assert.Equal(t, 1, Relative(65))
	assert.Equal(t, -1, Relative(63))
	assert.Equal(t, 62, Relative(126))
}

func TestRelativeSlowTickIsOneStep(t *testing.T) {
	assert.Equal(t, -1, Relative(1))
	assert.Equal(t, 1, Relative(127))

	assert.InDelta(t, 0.79, Nudge(0.8, Relative(1), LevelStep), 1e-9)
	assert.InDelta(t, 0.81, Nudge(0.8, Relative(127), LevelStep), 1e-9)
}

func TestDirection(t *testing.T) {
	assert.Equal(t, -1, Direction(1))
	assert.Equal(t, -1, Direction(63))
	assert.Equal(t, 0, Direction(64))
	assert.Equal(t, 1, Direction(65))
	assert.Equal(t, 1, Direction(127))
}

func TestNudgeClamps(t *testing.T) {
	assert.InDelta(t, 0.55, Nudge(0.5, 5, LevelStep), 1e-9)
	assert.InDelta(t, 0.45, Nudge(0.5, -5, LevelStep), 1e-9)
	assert.Equal(t, 1.0, Nudge(0.99, 10, LevelStep))
	assert.Equal(t, 0.0, Nudge(0.02, -63, LevelStep))
}

func TestWrap(t *testing.T) {
	for a := 0; a < 128; a++ {
		for b := 0; b < 128; b++ {
			want := ((b-a+64)%128+128)%128 - 64
			got := Wrap(uint8(a), uint8(b))
			// a half-turn difference is +64, not -64
			if got != want && !(got == 64 && want == -64) {
				t.Fatalf("Wrap(%d,%d) = %d, want %d", a, b, got, want)
			}
		}
	}
	assert.Equal(t, -1, Wrap(0, 127))
	assert.Equal(t, 1, Wrap(127, 0))
}

func TestMemoryFirstSampleSeeds(t *testing.T) {
	m := NewMemory()

	_, ok := m.Delta(21, 100)
	assert.False(t, ok)

	d, ok := m.Delta(21, 103)
	require.True(t, ok)
	assert.Equal(t, 3, d)

	d, ok = m.Delta(21, 101)
	require.True(t, ok)
	assert.Equal(t, -2, d)
}

func TestMemoryWrapsAround(t *testing.T) {
	m := NewMemory()
	m.Delta(1, 127)
	d, ok := m.Delta(1, 0)
	require.True(t, ok)
	assert.Equal(t, 1, d)

	d, ok = m.Delta(1, 127)
	require.True(t, ok)
	assert.Equal(t, -1, d)
}

func TestMemoryZeroDeltaIgnored(t *testing.T) {
	m := NewMemory()
	m.Delta(1, 40)
	_, ok := m.Delta(1, 40)
	assert.False(t, ok)
}

func TestMemoryReset(t *testing.T) {
	m := NewMemory()
	m.Delta(1, 10)
	m.Delta(2, 20)
	require.Equal(t, 2, m.Len())

	m.Reset()
	assert.Equal(t, 0, m.Len())
	_, ok := m.Delta(1, 50)
	assert.False(t, ok, "first sample after reset only seeds")
}

func TestTakeoverPickup(t *testing.T) {
	tk := NewTakeover()
	host := 0.5

	// far from the host value: nothing happens
	_, apply := tk.Apply(21, 10, host)
	assert.False(t, apply)
	_, apply = tk.Apply(21, 60, host) // 0.472, diff 0.028
	assert.False(t, apply)
	assert.False(t, tk.Synced(21))

	// 64/127 = 0.5039, within tolerance
	level, apply := tk.Apply(21, 64, host)
	require.True(t, apply)
	assert.InDelta(t, 64.0/127.0, level, 1e-9)
	assert.True(t, tk.Synced(21))

	// once synced every value applies
	level, apply = tk.Apply(21, 0, host)
	require.True(t, apply)
	assert.Equal(t, 0.0, level)
	level, apply = tk.Apply(21, 127, host)
	require.True(t, apply)
	assert.Equal(t, 1.0, level)
}

func TestTakeoverIsPerKnob(t *testing.T) {
	tk := NewTakeover()
	tk.Apply(21, 0, 0)
	assert.True(t, tk.Synced(21))
	assert.False(t, tk.Synced(22))

	_, apply := tk.Apply(22, 127, 0)
	assert.False(t, apply)
}

func TestTakeoverReset(t *testing.T) {
	tk := NewTakeover()
	tk.Apply(21, 127, 1)
	require.True(t, tk.Synced(21))

	tk.Reset()
	assert.False(t, tk.Synced(21))
	_, apply := tk.Apply(21, 0, 1)
	assert.False(t, apply)
}
