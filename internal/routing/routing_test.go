package routing

import (
	"testing"

	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter int

func (c *counter) Publish(n host.Notification) bool {
	if n.Topic == host.TopicRoutingChanged {
		*c++
	}
	return true
}

func chains(mixers ...int) []host.Channel {
	out := make([]host.Channel, 0, len(mixers))
	for _, m := range mixers {
		out = append(out, host.Channel{Mixer: m, Chain: string(rune('a' + m))})
	}
	return out
}

func TestLookup(t *testing.T) {
	var pub counter
	l := New(&pub, zerolog.Nop())

	_, ok := l.GetRoutingAt(0)
	assert.False(t, ok)

	require.NoError(t, l.Set(chains(4, 0, 16)))
	assert.Equal(t, 1, int(pub))
	assert.Equal(t, 3, l.Len())

	ch, ok := l.GetRoutingAt(2)
	require.True(t, ok)
	assert.Equal(t, 16, ch.Mixer)

	_, ok = l.GetRoutingAt(3)
	assert.False(t, ok)
	_, ok = l.GetRoutingAt(-1)
	assert.False(t, ok)
}

func TestSetRejectsInvalidChannels(t *testing.T) {
	var pub counter
	l := New(&pub, zerolog.Nop())
	require.NoError(t, l.Set(chains(1)))

	err := l.Set(chains(2, 17))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position 1")
	assert.Equal(t, chains(1), l.Chains())
	assert.Equal(t, 1, int(pub))
}

func TestMove(t *testing.T) {
	var pub counter
	l := New(&pub, zerolog.Nop())
	require.NoError(t, l.Set(chains(0, 1, 2, 3)))

	require.NoError(t, l.Move(0, 2))
	assert.Equal(t, chains(1, 2, 0, 3), l.Chains())

	require.NoError(t, l.Move(3, 0))
	assert.Equal(t, chains(3, 1, 2, 0), l.Chains())

	require.NoError(t, l.Move(1, 1))
	assert.Error(t, l.Move(0, 4))
	assert.Equal(t, 3, int(pub))
}
