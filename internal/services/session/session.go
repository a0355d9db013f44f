// Package session binds a logged-in identity to the ledger and its
// persistence. Intents are serialized; every applied transition is snapshotted
// to the repository and journaled fire-and-forget, so persistence trouble
// never stalls or reverts a trade.
package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
	"github.com/akashsuryawanshi04/invest-simulator/internal/metrics"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/ledger"
	"github.com/akashsuryawanshi04/invest-simulator/internal/storage/accounts"
	"github.com/akashsuryawanshi04/invest-simulator/internal/storage/trades"
)

var (
	// ErrNoSession an operation requires a logged-in identity.
	ErrNoSession = errors.New("no active session")
	// ErrInvalidStartingCash signup capital is not one of the configured presets.
	ErrInvalidStartingCash = errors.New("starting cash is not an allowed preset")
)

// Session is the lifecycle wrapper around one account at a time. Persisted
// state stays keyed by identity, so identities can take turns on the same
// process.
type Session struct {
	mu       sync.Mutex
	repo     accounts.Repository
	journal  *trades.Journal
	logger   *zap.Logger
	metrics  *metrics.Metrics
	presets  []decimal.Decimal
	identity accounts.Key
	state    *domain.AccountState
}

// New creates a session manager. journal and m may be nil; presets may be
// empty to accept any positive starting cash.
func New(repo accounts.Repository, journal *trades.Journal, presets []decimal.Decimal, logger *zap.Logger, m *metrics.Metrics) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		repo:    repo,
		journal: journal,
		logger:  logger,
		metrics: m,
		presets: presets,
	}
}

// Login binds the identity. Persisted state, when present, is loaded verbatim
// and startingCash is ignored; otherwise a fresh account is funded with
// startingCash, which must be one of the configured presets.
func (s *Session) Login(ctx context.Context, identity string, startingCash decimal.Decimal) (domain.AccountState, error) {
	if identity == "" {
		return domain.AccountState{}, errors.New("identity is required")
	}

	key := accounts.Key(identity)
	persisted, err := s.repo.Load(ctx, key)
	if err != nil {
		return domain.AccountState{}, errors.Wrap(err, "load account state")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if persisted != nil {
		s.identity = key
		s.state = persisted
		s.logger.Info("session restored",
			zap.String("identity", identity),
			zap.String("cash", persisted.CashBalance.String()),
			zap.Int("holdings", len(persisted.Holdings)))
		return persisted.Clone(), nil
	}

	if !s.allowedPreset(startingCash) {
		return domain.AccountState{}, ErrInvalidStartingCash
	}

	fresh := domain.NewAccountState(startingCash)
	s.identity = key
	s.state = &fresh
	s.logger.Info("session created",
		zap.String("identity", identity),
		zap.String("starting_cash", startingCash.String()))
	return fresh.Clone(), nil
}

// Logout discards the in-memory session. Persisted state is untouched.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = ""
	s.state = nil
}

// Identity returns the logged-in identity, empty when logged out.
func (s *Session) Identity() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.String()
}

// State returns a copy of the current account state.
func (s *Session) State() (domain.AccountState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return domain.AccountState{}, ErrNoSession
	}
	return s.state.Clone(), nil
}

// Execute applies one intent through the ledger. On success the new state is
// installed, snapshotted to the repository, and trades are journaled. The
// returned state reflects the applied transition even when persistence fails.
func (s *Session) Execute(ctx context.Context, intent ledger.Intent) (domain.AccountState, *domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return domain.AccountState{}, nil, ErrNoSession
	}

	next, tx, err := ledger.Apply(*s.state, intent)
	if err != nil {
		s.metrics.IncTradeRejection()
		return s.state.Clone(), nil, err
	}

	s.state = &next
	if tx != nil {
		s.metrics.IncTrade(tx.Kind.String())
	}
	s.persist(ctx)
	s.journalTrade(tx)

	return next.Clone(), tx, nil
}

// Reset deletes the persisted state for the logged-in identity and forces a
// logout. Irreversible; confirmation policy belongs to the caller.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == nil {
		return ErrNoSession
	}

	if err := s.repo.Delete(ctx, s.identity); err != nil {
		return errors.Wrap(err, "delete account state")
	}

	s.logger.Info("account reset", zap.String("identity", s.identity.String()))
	s.identity = ""
	s.state = nil
	return nil
}

func (s *Session) allowedPreset(cash decimal.Decimal) bool {
	if len(s.presets) == 0 {
		return cash.IsPositive()
	}
	for _, p := range s.presets {
		if p.Equal(cash) {
			return true
		}
	}
	return false
}

func (s *Session) persist(ctx context.Context) {
	if err := s.repo.Save(ctx, s.identity, *s.state); err != nil {
		s.metrics.IncPersistenceFailure()
		s.logger.Warn("failed to persist account state",
			zap.String("identity", s.identity.String()),
			zap.Error(err))
	}
}

func (s *Session) journalTrade(tx *domain.Transaction) {
	if s.journal == nil || tx == nil {
		return
	}
	if err := s.journal.Append(s.identity.String(), *tx); err != nil {
		s.metrics.IncPersistenceFailure()
		s.logger.Warn("failed to journal trade",
			zap.String("identity", s.identity.String()),
			zap.Error(err))
	}
}
