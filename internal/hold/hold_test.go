package hold

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestClassifyBoundaries(t *testing.T) {
	assert.Equal(t, Short, Classify(0))
	assert.Equal(t, Short, Classify(490*time.Millisecond))
	assert.Equal(t, Bold, Classify(500*time.Millisecond))
	assert.Equal(t, Bold, Classify(1490*time.Millisecond))
	assert.Equal(t, Long, Classify(1500*time.Millisecond))
	assert.Equal(t, Long, Classify(10*time.Second))
}

func TestPressRelease(t *testing.T) {
	tests := []struct {
		held time.Duration
		want Class
	}{
		{490 * time.Millisecond, Short},
		{500 * time.Millisecond, Bold},
		{1490 * time.Millisecond, Bold},
		{1500 * time.Millisecond, Long},
	}

	for _, tt := range tests {
		t.Run(tt.held.String(), func(t *testing.T) {
			clock := &fakeClock{t: time.Unix(1000, 0)}
			r := NewRegistry(clock.Now)

			r.Press(105)
			require.True(t, r.Pending(105))
			clock.Advance(tt.held)

			class, d, ok := r.Release(105)
			require.True(t, ok)
			assert.Equal(t, tt.want, class)
			assert.Equal(t, tt.held, d)
			assert.False(t, r.Pending(105))
		})
	}
}

func TestSpuriousReleaseIsNoop(t *testing.T) {
	r := NewRegistry(nil)
	_, _, ok := r.Release(74)
	assert.False(t, ok)

	r.Press(74)
	_, _, ok = r.Release(74)
	require.True(t, ok)

	// duplicate release byte
	_, _, ok = r.Release(74)
	assert.False(t, ok)
}

func TestSwitchesAreIndependent(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	r := NewRegistry(clock.Now)

	r.Press(74)
	clock.Advance(time.Second)
	r.Press(75)
	clock.Advance(100 * time.Millisecond)

	class, _, ok := r.Release(75)
	require.True(t, ok)
	assert.Equal(t, Short, class)

	class, _, ok = r.Release(74)
	require.True(t, ok)
	assert.Equal(t, Bold, class)
}

func TestRepressRestartsTimer(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	r := NewRegistry(clock.Now)

	r.Press(74)
	clock.Advance(2 * time.Second)
	r.Press(74)
	clock.Advance(100 * time.Millisecond)

	class, _, ok := r.Release(74)
	require.True(t, ok)
	assert.Equal(t, Short, class)
}

func TestClear(t *testing.T) {
	r := NewRegistry(nil)
	r.Press(1)
	r.Press(2)
	assert.Equal(t, 2, r.Clear())
	assert.False(t, r.Pending(1))
	_, _, ok := r.Release(2)
	assert.False(t, ok)
}
