package events

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

func quotes(price int64) map[string]domain.Quote {
	return map[string]domain.Quote{"s1": {Price: decimal.NewFromInt(price)}}
}

func TestQuoteBroadcaster_FanOut(t *testing.T) {
	b := NewQuoteBroadcaster(4)
	first := b.Subscribe()
	second := b.Subscribe()

	b.Publish(quotes(100))

	got := <-first
	assert.True(t, got["s1"].Price.Equal(decimal.NewFromInt(100)))
	got = <-second
	assert.True(t, got["s1"].Price.Equal(decimal.NewFromInt(100)))

	b.Unsubscribe(first)
	b.Unsubscribe(second)
}

func TestQuoteBroadcaster_SlowConsumerDropped(t *testing.T) {
	b := NewQuoteBroadcaster(1)
	sub := b.Subscribe()
	defer b.Unsubscribe(sub)

	b.Publish(quotes(1))
	b.Publish(quotes(2)) // buffer full, dropped

	got := <-sub
	assert.True(t, got["s1"].Price.Equal(decimal.NewFromInt(1)))

	select {
	case extra := <-sub:
		t.Fatalf("expected the second publish to be dropped, got %v", extra)
	default:
	}
}

func TestQuoteBroadcaster_UnsubscribeCloses(t *testing.T) {
	b := NewQuoteBroadcaster(1)
	sub := b.Subscribe()
	b.Unsubscribe(sub)

	_, ok := <-sub
	assert.False(t, ok)

	// unsubscribing twice is fine
	b.Unsubscribe(sub)

	// publishing with no subscribers is fine
	b.Publish(quotes(5))
}

func TestQuoteBroadcaster_MinimumBuffer(t *testing.T) {
	b := NewQuoteBroadcaster(0)
	require.Equal(t, 8, b.buffer)
}
