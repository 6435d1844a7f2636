package mixer

import (
	"testing"

	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published []host.Notification

func (p *published) Publish(n host.Notification) bool {
	*p = append(*p, n)
	return true
}

func TestDefaults(t *testing.T) {
	m := New(nil, zerolog.Nop())
	strips := m.Strips()
	require.Len(t, strips, host.MaxMixerChannel+1)
	for _, s := range strips {
		assert.Equal(t, Strip{Level: DefaultLevel}, s)
	}
}

func TestSetLevelClampsAndPublishes(t *testing.T) {
	var pub published
	m := New(&pub, zerolog.Nop())

	m.SetLevel(3, 1.7)
	assert.Equal(t, 1.0, m.Level(3))
	m.SetLevel(3, -0.2)
	assert.Equal(t, 0.0, m.Level(3))

	// unchanged values are not published
	m.SetLevel(3, 0)

	require.Len(t, pub, 2)
	assert.Equal(t, host.Notification{Topic: host.TopicMixerChanged, Channel: 3, Symbol: host.SymbolLevel, Value: 1}, pub[0])
	assert.Equal(t, 0.0, pub[1].Value)
}

func TestMuteAndSolo(t *testing.T) {
	var pub published
	m := New(&pub, zerolog.Nop())

	m.SetMute(16, true)
	m.SetSolo(0, true)
	m.SetSolo(0, true)
	m.SetSolo(0, false)

	assert.True(t, m.Mute(16))
	assert.False(t, m.Solo(0))

	require.Len(t, pub, 3)
	assert.Equal(t, host.SymbolMute, pub[0].Symbol)
	assert.Equal(t, 1.0, pub[0].Value)
	assert.Equal(t, host.SymbolSolo, pub[2].Symbol)
	assert.Equal(t, 0.0, pub[2].Value)
}

func TestInvalidChannelIsInert(t *testing.T) {
	var pub published
	m := New(&pub, zerolog.Nop())

	m.SetLevel(17, 0.5)
	m.SetMute(-1, true)
	m.SetSolo(99, true)

	assert.Zero(t, m.Level(17))
	assert.False(t, m.Mute(-1))
	assert.False(t, m.Solo(99))
	assert.Empty(t, pub)
}
