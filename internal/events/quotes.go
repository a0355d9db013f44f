// Package events fans domain events out to in-process subscribers.
package events

import (
	"sync"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

// QuoteBroadcaster fans out published quote tables to all subscribers via
// buffered channels. Slow readers are dropped-from, never blocked-on, so a
// stuck stream cannot stall the price feed.
type QuoteBroadcaster struct {
	mu     sync.RWMutex
	subs   map[chan map[string]domain.Quote]struct{}
	buffer int
}

// NewQuoteBroadcaster creates a broadcaster with the given per-subscriber
// buffer.
func NewQuoteBroadcaster(buffer int) *QuoteBroadcaster {
	if buffer < 1 {
		buffer = 8
	}
	return &QuoteBroadcaster{
		subs:   make(map[chan map[string]domain.Quote]struct{}),
		buffer: buffer,
	}
}

// Publish sends the quote table to all subscribers. The table must not be
// mutated after publishing; the price feed replaces it wholesale each tick.
func (b *QuoteBroadcaster) Publish(quotes map[string]domain.Quote) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- quotes:
		default:
			// drop for slow consumer, the next tick supersedes this one anyway
		}
	}
}

// Subscribe returns a channel that receives every published quote table until
// Unsubscribe is called.
func (b *QuoteBroadcaster) Subscribe() chan map[string]domain.Quote {
	ch := make(chan map[string]domain.Quote, b.buffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the channel and closes it.
func (b *QuoteBroadcaster) Unsubscribe(ch chan map[string]domain.Quote) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
