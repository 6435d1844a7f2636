// Package mixer is an in-memory audio mixer model: one strip per chain plus
// the main strip. Every change is published as a mixer-changed notification.
package mixer

import (
	"fmt"
	"sync"

	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/rs/zerolog"
)

// DefaultLevel is the fader position of a fresh strip
const DefaultLevel = 0.8

// Strip is the state of one mixer channel
type Strip struct {
	Level float64
	Mute  bool
	Solo  bool
}

// Mixer implements host.Mixer
type Mixer struct {
	mu     sync.RWMutex
	strips [host.MaxMixerChannel + 1]Strip
	pub    host.Publisher
	logger zerolog.Logger
}

// New creates a mixer with every strip at DefaultLevel. pub may be nil.
func New(pub host.Publisher, logger zerolog.Logger) *Mixer {
	m := &Mixer{pub: pub, logger: logger}
	for i := range m.strips {
		m.strips[i].Level = DefaultLevel
	}
	return m
}

func (m *Mixer) valid(ch int) bool {
	if host.ValidMixerChannel(ch) {
		return true
	}
	host.LogDegraded(m.logger, host.Degraded(host.StateLookupFailure,
		fmt.Sprintf("mixer channel %d out of range", ch)))
	return false
}

// Level returns the fader position of a strip in [0,1]
func (m *Mixer) Level(ch int) float64 {
	if !m.valid(ch) {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strips[ch].Level
}

// SetLevel moves a fader, clamping to [0,1]
func (m *Mixer) SetLevel(ch int, level float64) {
	if !m.valid(ch) {
		return
	}
	level = max(0, min(1, level))

	m.mu.Lock()
	changed := m.strips[ch].Level != level
	m.strips[ch].Level = level
	m.mu.Unlock()

	if changed {
		m.publish(ch, host.SymbolLevel, level)
	}
}

// Mute reports whether a strip is muted
func (m *Mixer) Mute(ch int) bool {
	if !m.valid(ch) {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strips[ch].Mute
}

// SetMute mutes or unmutes a strip
func (m *Mixer) SetMute(ch int, on bool) {
	if !m.valid(ch) {
		return
	}

	m.mu.Lock()
	changed := m.strips[ch].Mute != on
	m.strips[ch].Mute = on
	m.mu.Unlock()

	if changed {
		m.publish(ch, host.SymbolMute, flag(on))
	}
}

// Solo reports whether a strip is soloed
func (m *Mixer) Solo(ch int) bool {
	if !m.valid(ch) {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.strips[ch].Solo
}

// SetSolo solos or unsolos a strip
func (m *Mixer) SetSolo(ch int, on bool) {
	if !m.valid(ch) {
		return
	}

	m.mu.Lock()
	changed := m.strips[ch].Solo != on
	m.strips[ch].Solo = on
	m.mu.Unlock()

	if changed {
		m.publish(ch, host.SymbolSolo, flag(on))
	}
}

// Strips returns a copy of every strip
func (m *Mixer) Strips() []Strip {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Strip(nil), m.strips[:]...)
}

func (m *Mixer) publish(ch int, symbol string, value float64) {
	m.logger.Debug().Int("channel", ch).Str("symbol", symbol).Float64("value", value).Msg("Mixer changed")
	if m.pub == nil {
		return
	}
	m.pub.Publish(host.Notification{
		Topic:   host.TopicMixerChanged,
		Channel: ch,
		Symbol:  symbol,
		Value:   value,
	})
}

func flag(on bool) float64 {
	if on {
		return 1
	}
	return 0
}
