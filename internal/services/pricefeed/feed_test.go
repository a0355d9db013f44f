package pricefeed

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashsuryawanshi04/invest-simulator/internal/catalog"
	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	cat, err := catalog.New([]domain.Instrument{
		{
			ID:                 "s1",
			Symbol:             "RELIANCE",
			Name:               "Reliance Industries",
			Sector:             "Energy",
			Class:              domain.AssetClassEquity,
			ReferencePrice:     decimal.NewFromFloat(2456.75),
			ReferenceChangePct: decimal.NewFromFloat(1.2),
		},
		{
			ID:                 "c1",
			Symbol:             "BTC",
			Name:               "Bitcoin",
			Class:              domain.AssetClassCrypto,
			ReferencePrice:     decimal.NewFromInt(5200000),
			ReferenceChangePct: decimal.NewFromFloat(-0.8),
		},
	})
	require.NoError(t, err)
	return cat
}

func TestFeed_EmptyBeforeFirstTick(t *testing.T) {
	feed := New(testCatalog(t), Config{Seed: 1}, nil, nil)

	assert.Empty(t, feed.CurrentQuotes())
	_, ok := feed.Quote("s1")
	assert.False(t, ok)
}

func TestFeed_FirstTickSeedsFromReference(t *testing.T) {
	cat := testCatalog(t)
	feed := New(cat, Config{Seed: 1}, nil, nil)

	feed.Tick()

	quotes := feed.CurrentQuotes()
	require.Len(t, quotes, 2)

	q, ok := feed.Quote("s1")
	require.True(t, ok)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(2456.75)))
	assert.True(t, q.ChangePct.Equal(decimal.NewFromFloat(1.2)))
}

func TestFeed_StepBoundedByVolatility(t *testing.T) {
	cat := testCatalog(t)
	feed := New(cat, Config{Seed: 42}, nil, nil)
	feed.Tick()

	for i := 0; i < 200; i++ {
		before := feed.CurrentQuotes()
		feed.Tick()
		after := feed.CurrentQuotes()

		for _, inst := range cat.List() {
			prev, _ := before[inst.ID].Price.Float64()
			next, _ := after[inst.ID].Price.Float64()

			assert.Greater(t, next, 0.0, "%s price must stay positive", inst.ID)

			vol := DefaultEquityVolatility
			if inst.Class == domain.AssetClassCrypto {
				vol = DefaultCryptoVolatility
			}
			maxDelta := prev * vol * 1.0000001 // float slack
			assert.LessOrEqual(t, next-prev, maxDelta,
				"%s moved more than one volatility step up", inst.ID)
			assert.GreaterOrEqual(t, next-prev, -maxDelta,
				"%s moved more than one volatility step down", inst.ID)
		}
	}
}

func TestFeed_ChangePctAnchoredToReference(t *testing.T) {
	cat := testCatalog(t)
	feed := New(cat, Config{Seed: 7}, nil, nil)
	feed.Tick()
	for i := 0; i < 50; i++ {
		feed.Tick()
	}

	for _, inst := range cat.List() {
		q, ok := feed.Quote(inst.ID)
		require.True(t, ok)

		price, _ := q.Price.Float64()
		ref, _ := inst.ReferencePrice.Float64()
		got, _ := q.ChangePct.Float64()

		assert.InDelta(t, (price-ref)/ref*100, got, 1e-9,
			"%s changePct must track the reference price", inst.ID)
	}
}

func TestFeed_DeterministicWithSeed(t *testing.T) {
	a := New(testCatalog(t), Config{Seed: 99}, nil, nil)
	b := New(testCatalog(t), Config{Seed: 99}, nil, nil)

	for i := 0; i < 10; i++ {
		a.Tick()
		b.Tick()
	}

	qa := a.CurrentQuotes()
	qb := b.CurrentQuotes()
	for id, q := range qa {
		assert.True(t, q.Price.Equal(qb[id].Price), "same seed must walk the same path")
	}
}

func TestFeed_CurrentQuotesReturnsCopy(t *testing.T) {
	feed := New(testCatalog(t), Config{Seed: 1}, nil, nil)
	feed.Tick()

	quotes := feed.CurrentQuotes()
	quotes["s1"] = domain.Quote{Price: decimal.NewFromInt(1)}

	q, ok := feed.Quote("s1")
	require.True(t, ok)
	assert.False(t, q.Price.Equal(decimal.NewFromInt(1)), "mutating the copy must not leak into the feed")
}

func TestFeed_RunReturnsContextErr(t *testing.T) {
	feed := New(testCatalog(t), Config{Seed: 1, Interval: time.Hour}, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	// the immediate first tick fired before the cancel was observed
	assert.NotEmpty(t, feed.CurrentQuotes())
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, 3*time.Second, cfg.Interval)
	assert.Equal(t, DefaultEquityVolatility, cfg.EquityVolatility)
	assert.Equal(t, DefaultCryptoVolatility, cfg.CryptoVolatility)
	assert.Equal(t, DefaultFloorRatio, cfg.FloorRatio)
	assert.NotZero(t, cfg.Seed)
}
