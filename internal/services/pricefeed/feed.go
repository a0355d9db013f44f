// Package pricefeed owns the simulated market. A bounded random walk mutates
// every instrument's price on a fixed cadence and publishes the result as an
// atomically-replaced quote table, so readers never observe a tick in
// progress.
package pricefeed

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akashsuryawanshi04/invest-simulator/internal/catalog"
	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
	"github.com/akashsuryawanshi04/invest-simulator/internal/events"
	"github.com/akashsuryawanshi04/invest-simulator/internal/metrics"
)

const (
	// DefaultInterval cadence of price updates.
	DefaultInterval = 3 * time.Second
	// DefaultEquityVolatility per-tick volatility for equities.
	DefaultEquityVolatility = 0.004
	// DefaultCryptoVolatility per-tick volatility for crypto.
	DefaultCryptoVolatility = 0.008
	// DefaultFloorRatio lower bound of one tick relative to the previous
	// price. The floor is against the previous price, not absolute, so a
	// price can decay toward zero over many ticks but never goes
	// non-positive in a single step.
	DefaultFloorRatio = 0.001
)

// Config tunes the random walk. Zero values fall back to the defaults above.
type Config struct {
	Interval         time.Duration
	EquityVolatility float64
	CryptoVolatility float64
	FloorRatio       float64
	// Seed fixes the random source; 0 seeds from the clock.
	Seed int64
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.EquityVolatility <= 0 {
		c.EquityVolatility = DefaultEquityVolatility
	}
	if c.CryptoVolatility <= 0 {
		c.CryptoVolatility = DefaultCryptoVolatility
	}
	if c.FloorRatio <= 0 {
		c.FloorRatio = DefaultFloorRatio
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Feed generates price quotes for every catalog instrument.
//
// ChangePct stays anchored to the catalog reference price for the whole
// process lifetime, so over a long session it can drift beyond ±100%. That is
// the intended "since session start" reading.
type Feed struct {
	cat       *catalog.Catalog
	cfg       Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
	broadcast *events.QuoteBroadcaster

	mu  sync.Mutex // serializes ticks and guards rnd
	rnd *rand.Rand

	table atomic.Value // map[string]domain.Quote, replaced wholesale each tick
}

// New creates a feed over the given catalog. The quote table is empty until
// the first tick; consumers must tolerate that.
func New(cat *catalog.Catalog, cfg Config, logger *zap.Logger, m *metrics.Metrics) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg = cfg.withDefaults()

	f := &Feed{
		cat:       cat,
		cfg:       cfg,
		logger:    logger,
		metrics:   m,
		broadcast: events.NewQuoteBroadcaster(8),
		rnd:       rand.New(rand.NewSource(cfg.Seed)),
	}
	f.table.Store(map[string]domain.Quote{})
	return f
}

// Run ticks the feed on its configured cadence until ctx is cancelled.
// The first tick fires immediately so consumers get a seeded table without
// waiting a full interval.
func (f *Feed) Run(ctx context.Context) error {
	f.Tick()

	ticker := time.NewTicker(f.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("price feed stopped")
			return ctx.Err()
		case <-ticker.C:
			f.Tick()
		}
	}
}

// Tick advances every instrument by one random-walk step and publishes the
// new quote table. The first call seeds each quote from the instrument's
// reference price and change.
func (f *Feed) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()

	prev := f.table.Load().(map[string]domain.Quote)
	next := make(map[string]domain.Quote, f.cat.Len())

	for _, inst := range f.cat.List() {
		old, ok := prev[inst.ID]
		if !ok {
			next[inst.ID] = domain.Quote{
				Price:     inst.ReferencePrice,
				ChangePct: inst.ReferenceChangePct,
			}
			continue
		}
		next[inst.ID] = f.step(inst, old)
	}

	f.table.Store(next)
	f.metrics.IncPriceTick()
	f.broadcast.Publish(next)
}

func (f *Feed) step(inst domain.Instrument, old domain.Quote) domain.Quote {
	volatility := f.cfg.EquityVolatility
	if inst.Class == domain.AssetClassCrypto {
		volatility = f.cfg.CryptoVolatility
	}

	prevPrice, _ := old.Price.Float64()
	refPrice, _ := inst.ReferencePrice.Float64()

	noise := f.rnd.Float64()*2 - 1
	delta := prevPrice * volatility * noise

	newPrice := prevPrice + delta
	if floor := prevPrice * f.cfg.FloorRatio; newPrice < floor {
		newPrice = floor
	}

	changePct := (newPrice - refPrice) / refPrice * 100

	return domain.Quote{
		Price:     decimal.NewFromFloat(newPrice),
		ChangePct: decimal.NewFromFloat(changePct),
	}
}

// CurrentQuotes returns a copy of the latest published quote table. The copy
// may be empty before the first tick.
func (f *Feed) CurrentQuotes() map[string]domain.Quote {
	table := f.table.Load().(map[string]domain.Quote)
	quotes := make(map[string]domain.Quote, len(table))
	for id, q := range table {
		quotes[id] = q
	}
	return quotes
}

// Quote returns the latest quote for one instrument.
func (f *Feed) Quote(instrumentID string) (domain.Quote, bool) {
	table := f.table.Load().(map[string]domain.Quote)
	q, ok := table[instrumentID]
	return q, ok
}

// Subscribe returns a channel receiving every published quote table.
// Call Unsubscribe when done or the subscription leaks.
func (f *Feed) Subscribe() chan map[string]domain.Quote {
	return f.broadcast.Subscribe()
}

// Unsubscribe removes and closes a subscription channel.
func (f *Feed) Unsubscribe(ch chan map[string]domain.Quote) {
	f.broadcast.Unsubscribe(ch)
}

// Interval returns the configured tick cadence.
func (f *Feed) Interval() time.Duration {
	return f.cfg.Interval
}
