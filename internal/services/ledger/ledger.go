// Package ledger implements the account state machine. Every transition is a
// pure function over (state, intent): it either returns a new state plus the
// transaction it recorded, or the input state untouched plus a typed reason.
// Transitions never panic and never partially apply.
package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

// Ledger failure reasons. All are local and recoverable; the surrounding
// session decides how to present them.
var (
	// ErrInsufficientFunds buy cost exceeds the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInsufficientQuantity sell quantity exceeds the held quantity.
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	// ErrNoSuchPosition sell on an instrument with no holding.
	ErrNoSuchPosition = errors.New("no such position")
	// ErrInvalidQuantity non-positive or absent quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// IntentKind discriminates user intents.
type IntentKind string

const (
	// IntentBuy buy at the quoted price.
	IntentBuy IntentKind = "BUY"
	// IntentSell sell at the quoted price.
	IntentSell IntentKind = "SELL"
	// IntentToggleWatch flip watchlist membership.
	IntentToggleWatch IntentKind = "TOGGLE_WATCH"
)

// Intent is one user action against the ledger. Price is the quote the trade
// was offered at; the ledger fills at exactly that price.
type Intent struct {
	Kind         IntentKind
	InstrumentID string
	Quantity     decimal.Decimal
	Price        decimal.Decimal
}

// Apply runs one transition. On success it returns the new state and, for
// trades, the appended transaction. On failure it returns the input state
// unchanged, a nil transaction, and the reason.
func Apply(state domain.AccountState, intent Intent) (domain.AccountState, *domain.Transaction, error) {
	switch intent.Kind {
	case IntentBuy:
		return buy(state, intent)
	case IntentSell:
		return sell(state, intent)
	case IntentToggleWatch:
		return toggleWatch(state, intent), nil, nil
	default:
		return state, nil, errors.Errorf("unknown intent kind: %s", intent.Kind)
	}
}

func buy(state domain.AccountState, intent Intent) (domain.AccountState, *domain.Transaction, error) {
	if !intent.Quantity.IsPositive() {
		return state, nil, ErrInvalidQuantity
	}

	cost := intent.Quantity.Mul(intent.Price)
	if cost.GreaterThan(state.CashBalance) {
		return state, nil, ErrInsufficientFunds
	}

	next := state.Clone()
	next.CashBalance = next.CashBalance.Sub(cost)

	holding, ok := next.Holdings[intent.InstrumentID]
	if !ok {
		// a fresh position starts its average at the fill price
		holding = domain.Holding{Quantity: intent.Quantity, AverageCost: intent.Price, CostBasis: cost}
	} else {
		// the basis accumulates exact cash spent; the average is derived
		// from it and may round, so it is never fed back into accounting
		holding.Quantity = holding.Quantity.Add(intent.Quantity)
		holding.CostBasis = holding.CostBasis.Add(cost)
		holding.AverageCost = holding.CostBasis.Div(holding.Quantity)
	}
	next.Holdings[intent.InstrumentID] = holding
	next.TotalInvested = next.TotalInvested.Add(cost)

	tx := newTransaction(domain.TransactionBuy, intent, cost, nil)
	next.Transactions = prepend(next.Transactions, tx)

	return next, &tx, nil
}

func sell(state domain.AccountState, intent Intent) (domain.AccountState, *domain.Transaction, error) {
	if !intent.Quantity.IsPositive() {
		return state, nil, ErrInvalidQuantity
	}

	holding, ok := state.Holdings[intent.InstrumentID]
	if !ok {
		return state, nil, ErrNoSuchPosition
	}
	if intent.Quantity.GreaterThan(holding.Quantity) {
		return state, nil, ErrInsufficientQuantity
	}

	gross := intent.Quantity.Mul(intent.Price)

	// a full exit removes the entire remaining basis, a partial one a
	// pro-rata share of it, so TotalInvested and the holdings stay in exact
	// agreement under rounded divisions
	costBasisRemoved := holding.CostBasis
	if !intent.Quantity.Equal(holding.Quantity) {
		costBasisRemoved = holding.CostBasis.Mul(intent.Quantity).Div(holding.Quantity)
	}
	realized := gross.Sub(costBasisRemoved)

	next := state.Clone()
	next.CashBalance = next.CashBalance.Add(gross)
	next.TotalInvested = next.TotalInvested.Sub(costBasisRemoved)

	holding.Quantity = holding.Quantity.Sub(intent.Quantity)
	holding.CostBasis = holding.CostBasis.Sub(costBasisRemoved)
	if holding.Quantity.IsZero() {
		// a full exit discards the average; the next buy starts fresh
		delete(next.Holdings, intent.InstrumentID)
	} else {
		next.Holdings[intent.InstrumentID] = holding
	}

	tx := newTransaction(domain.TransactionSell, intent, gross, &realized)
	next.Transactions = prepend(next.Transactions, tx)

	return next, &tx, nil
}

func toggleWatch(state domain.AccountState, intent Intent) domain.AccountState {
	next := state.Clone()
	if next.Watching(intent.InstrumentID) {
		watchlist := next.Watchlist[:0]
		for _, id := range next.Watchlist {
			if id != intent.InstrumentID {
				watchlist = append(watchlist, id)
			}
		}
		next.Watchlist = watchlist
	} else {
		next.Watchlist = append(next.Watchlist, intent.InstrumentID)
	}
	return next
}

func newTransaction(kind domain.TransactionKind, intent Intent, gross decimal.Decimal, realized *decimal.Decimal) domain.Transaction {
	return domain.Transaction{
		ID:           uuid.NewString(),
		Kind:         kind,
		InstrumentID: intent.InstrumentID,
		Quantity:     intent.Quantity,
		FillPrice:    intent.Price,
		GrossAmount:  gross,
		RealizedPnL:  realized,
		Timestamp:    time.Now().UTC(),
	}
}

func prepend(transactions []domain.Transaction, tx domain.Transaction) []domain.Transaction {
	out := make([]domain.Transaction, 0, len(transactions)+1)
	out = append(out, tx)
	return append(out, transactions...)
}
