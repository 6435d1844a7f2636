// Package routing holds the chain layout: which mixer strip backs the chain
// shown at each visual position.
package routing

import (
	"fmt"
	"sync"

	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/rs/zerolog"
)

// Layout implements host.Routing. It only ever holds valid mixer channels.
type Layout struct {
	mu     sync.RWMutex
	chains []host.Channel
	pub    host.Publisher
	logger zerolog.Logger
}

// New creates an empty layout. pub may be nil.
func New(pub host.Publisher, logger zerolog.Logger) *Layout {
	return &Layout{pub: pub, logger: logger}
}

// GetRoutingAt returns the chain at a position
func (l *Layout) GetRoutingAt(position int) (host.Channel, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if position < 0 || position >= len(l.chains) {
		return host.Channel{}, false
	}
	return l.chains[position], true
}

// Len returns the number of chains
func (l *Layout) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.chains)
}

// Chains returns a copy of the layout in position order
func (l *Layout) Chains() []host.Channel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]host.Channel(nil), l.chains...)
}

// Set replaces the whole layout. A layout with an invalid mixer channel is
// rejected and the previous layout kept.
func (l *Layout) Set(chains []host.Channel) error {
	for i, ch := range chains {
		if !host.ValidMixerChannel(ch.Mixer) {
			return fmt.Errorf("chain %q at position %d: mixer channel %d out of range 0-%d",
				ch.Chain, i, ch.Mixer, host.MaxMixerChannel)
		}
	}

	l.mu.Lock()
	l.chains = append([]host.Channel(nil), chains...)
	l.mu.Unlock()

	l.logger.Debug().Int("chains", len(chains)).Msg("Routing updated")
	l.changed()
	return nil
}

// Move relocates the chain at from to position to, shifting the chains in
// between
func (l *Layout) Move(from, to int) error {
	l.mu.Lock()
	n := len(l.chains)
	if from < 0 || from >= n || to < 0 || to >= n {
		l.mu.Unlock()
		return fmt.Errorf("move %d to %d: position out of range 0-%d", from, to, n-1)
	}
	if from == to {
		l.mu.Unlock()
		return nil
	}

	ch := l.chains[from]
	l.chains = append(l.chains[:from], l.chains[from+1:]...)
	l.chains = append(l.chains[:to], append([]host.Channel{ch}, l.chains[to:]...)...)
	l.mu.Unlock()

	l.changed()
	return nil
}

func (l *Layout) changed() {
	if l.pub != nil {
		l.pub.Publish(host.Notification{Topic: host.TopicRoutingChanged})
	}
}
