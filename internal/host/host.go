// Package host describes what the bridge needs from the music host: an
// action sink, raw MIDI forwarding, the chain layout, the audio mixer, the
// sequencer bank selector and a notification bus. Implementations are owned
// by the host side; the bridge only depends on these contracts.
package host

import (
	"github.com/google/uuid"
	"gitlab.com/gomidi/midi/v2"
)

// MaxMixerChannel is the highest valid mixer strip index (strip 16 is main)
const MaxMixerChannel = 16

// ValidMixerChannel reports whether n addresses an existing mixer strip
func ValidMixerChannel(n int) bool {
	return n >= 0 && n <= MaxMixerChannel
}

// Channel is the mixer strip backing a chain at a visual position. Routing
// implementations only hand out channels whose Mixer index is valid.
type Channel struct {
	Mixer int
	Chain string
}

// Actions receives fire-and-forget semantic commands
type Actions interface {
	SendAction(name string, args ...any)
}

// Forwarder injects an unmodified MIDI event into the host's own routing
type Forwarder interface {
	ForwardRawEvent(msg midi.Message)
}

// Host is the action and forwarding side of the host
type Host interface {
	Actions
	Forwarder
}

// Routing resolves a visual position to the chain's mixer strip. It returns
// false when no chain with a valid strip sits at that position.
type Routing interface {
	GetRoutingAt(position int) (Channel, bool)
}

// Mixer is the host's audio mixer. Levels are in [0,1].
type Mixer interface {
	Level(channel int) float64
	SetLevel(channel int, level float64)
	Mute(channel int) bool
	SetMute(channel int, muted bool)
	Solo(channel int) bool
	SetSolo(channel int, soloed bool)
}

// Sequencer selects the active pattern bank
type Sequencer interface {
	SelectBank(bank int)
}

// Topic names a class of host state change
type Topic string

const (
	TopicRoutingChanged Topic = "routing-changed"
	TopicMixerChanged   Topic = "mixer-changed"
	TopicScreenChanged  Topic = "screen-changed"
)

// Mixer symbols carried by TopicMixerChanged notifications
const (
	SymbolLevel = "level"
	SymbolMute  = "mute"
	SymbolSolo  = "solo"
)

// Notification describes a host state change
type Notification struct {
	Topic   Topic
	Channel int     // mixer strip, TopicMixerChanged only
	Symbol  string  // mixer parameter, TopicMixerChanged only
	Value   float64 // new parameter value, TopicMixerChanged only
	Screen  string  // TopicScreenChanged only
}

// Notifier delivers notifications to subscribers
type Notifier interface {
	Subscribe(topic Topic, fn func(Notification)) uuid.UUID
	Unsubscribe(id uuid.UUID)
}

// Publisher queues notifications for a Notifier's subscribers
type Publisher interface {
	Publish(n Notification) bool
}
