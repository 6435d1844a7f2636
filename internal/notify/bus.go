// Package notify is a small queued notification bus. Publishers never block;
// subscribers are called one notification at a time from the goroutine
// running Run.
package notify

import (
	"context"
	"sync"

	"github.com/PixPMusic/gopher-launchkey/internal/host"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultQueueSize is used when NewBus is given a non-positive size
const DefaultQueueSize = 64

type subscriber struct {
	id    uuid.UUID
	topic host.Topic
	fn    func(host.Notification)
}

// Bus implements host.Notifier
type Bus struct {
	mu     sync.RWMutex
	subs   []subscriber
	queue  chan host.Notification
	logger zerolog.Logger
}

// NewBus creates a bus with a queue of the given size
func NewBus(size int, logger zerolog.Logger) *Bus {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Bus{
		queue:  make(chan host.Notification, size),
		logger: logger,
	}
}

// Subscribe registers fn for a topic and returns the handle to unsubscribe
// with
func (b *Bus) Subscribe(topic host.Topic, fn func(host.Notification)) uuid.UUID {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New()
	b.subs = append(b.subs, subscriber{id: id, topic: topic, fn: fn})
	return id
}

// Unsubscribe removes a subscription. Unknown handles are ignored.
func (b *Bus) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of live subscriptions
func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Publish queues a notification. It never blocks: when the queue is full
// the notification is dropped and false is returned.
func (b *Bus) Publish(n host.Notification) bool {
	select {
	case b.queue <- n:
		return true
	default:
		b.logger.Warn().Str("topic", string(n.Topic)).Msg("Notification queue full, dropping")
		return false
	}
}

// Run delivers queued notifications until ctx is cancelled
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case n := <-b.queue:
			b.deliver(n)
		}
	}
}

func (b *Bus) deliver(n host.Notification) {
	b.mu.RLock()
	var fns []func(host.Notification)
	for _, s := range b.subs {
		if s.topic == n.Topic {
			fns = append(fns, s.fn)
		}
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		b.call(fn, n)
	}
}

// call isolates the bus from a panicking subscriber
func (b *Bus) call(fn func(host.Notification), n host.Notification) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().Interface("panic", r).Str("topic", string(n.Topic)).Msg("Subscriber panicked")
		}
	}()
	fn(n)
}
