// Package trades keeps an append-only journal of executed transactions in a
// write-ahead log, so the trade history survives restarts independently of
// account snapshots and incremental readers can tail it by index.
package trades

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

const (
	// DefaultDir default journal location.
	DefaultDir = "./wal/trades"

	segmentLimit   = 1000
	maxSegments    = 100
	tradeKeyPrefix = "trade_"
)

// Record is one journaled trade with its WAL index.
type Record struct {
	Index       uint64             `json:"index"`
	Identity    string             `json:"identity"`
	Transaction domain.Transaction `json:"transaction"`
}

type entry struct {
	Identity    string             `json:"identity"`
	Transaction domain.Transaction `json:"transaction"`
}

// Journal persists executed trades in a WAL.
type Journal struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewJournal initializes a WAL-backed trade journal.
func NewJournal(dir string) (*Journal, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "trade_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init trade journal WAL")
	}

	return &Journal{wal: wal}, nil
}

// Append writes one executed transaction to the journal.
func (j *Journal) Append(identity string, tx domain.Transaction) error {
	if j == nil || j.wal == nil {
		return errors.New("trade journal is not initialized")
	}
	if identity == "" {
		return errors.New("trade journal identity is required")
	}

	payload, err := json.Marshal(entry{Identity: identity, Transaction: tx})
	if err != nil {
		return errors.Wrap(err, "marshal trade record")
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	nextIndex := j.wal.CurrentIndex() + 1
	return j.wal.Write(nextIndex, tradeKeyPrefix+identity, payload)
}

// RecordsAfter returns all trades written after the provided WAL index.
func (j *Journal) RecordsAfter(index uint64) ([]Record, error) {
	if j == nil || j.wal == nil {
		return nil, errors.New("trade journal is not initialized")
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	current := j.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]Record, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := j.wal.Get(idx)
		if err != nil || !strings.HasPrefix(key, tradeKeyPrefix) {
			continue
		}

		var e entry
		if err := json.Unmarshal(payload, &e); err != nil {
			return nil, errors.Wrap(err, "decode trade record")
		}

		records = append(records, Record{
			Index:       idx,
			Identity:    e.Identity,
			Transaction: e.Transaction,
		})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (j *Journal) CurrentIndex() uint64 {
	if j == nil || j.wal == nil {
		return 0
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (j *Journal) Close() error {
	if j == nil || j.wal == nil {
		return nil
	}
	return j.wal.Close()
}
