package web

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/akashsuryawanshi04/invest-simulator/internal/services/ledger"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/session"
)

type loginRequest struct {
	Identity     string          `json:"identity"`
	StartingCash decimal.Decimal `json:"startingCash"`
}

type tradeRequest struct {
	InstrumentID string          `json:"instrumentId"`
	Kind         string          `json:"kind"`
	Quantity     decimal.Decimal `json:"quantity"`
}

type watchRequest struct {
	InstrumentID string `json:"instrumentId"`
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Catalog.List())
}

func (s *Server) handleQuotes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Feed.CurrentQuotes())
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Identity == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "identity is required")
		return
	}

	state, err := s.Session.Login(r.Context(), req.Identity, req.StartingCash)
	if err != nil {
		if errors.Is(err, session.ErrInvalidStartingCash) {
			writeError(w, http.StatusUnprocessableEntity, "invalid_starting_cash",
				"starting cash must be one of the configured presets")
			return
		}
		writeError(w, http.StatusInternalServerError, "login_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Session.Logout()
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	state, err := s.Session.State()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session", "log in first")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	state, err := s.Session.State()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session", "log in first")
		return
	}
	writeJSON(w, http.StatusOK, ledger.Valuate(state, s.Feed.CurrentQuotes()))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	state, err := s.Session.State()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "no_session", "log in first")
		return
	}

	transactions := state.Transactions
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "limit must be a non-negative integer")
			return
		}
		if limit < len(transactions) {
			transactions = transactions[:limit]
		}
	}

	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	var kind ledger.IntentKind
	switch req.Kind {
	case "BUY":
		kind = ledger.IntentBuy
	case "SELL":
		kind = ledger.IntentSell
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "kind must be BUY or SELL")
		return
	}

	if _, ok := s.Catalog.Get(req.InstrumentID); !ok {
		writeError(w, http.StatusNotFound, "unknown_instrument", "no such instrument: "+req.InstrumentID)
		return
	}

	quote, ok := s.Feed.Quote(req.InstrumentID)
	if !ok {
		writeError(w, http.StatusServiceUnavailable, "no_quote", "no quote yet, try again after the first tick")
		return
	}

	state, tx, err := s.Session.Execute(r.Context(), ledger.Intent{
		Kind:         kind,
		InstrumentID: req.InstrumentID,
		Quantity:     req.Quantity,
		Price:        quote.Price,
	})
	if err != nil {
		s.writeTradeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transaction": tx,
		"account":     state,
	})
}

func (s *Server) handleToggleWatch(w http.ResponseWriter, r *http.Request) {
	var req watchRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if _, ok := s.Catalog.Get(req.InstrumentID); !ok {
		writeError(w, http.StatusNotFound, "unknown_instrument", "no such instrument: "+req.InstrumentID)
		return
	}

	state, _, err := s.Session.Execute(r.Context(), ledger.Intent{
		Kind:         ledger.IntentToggleWatch,
		InstrumentID: req.InstrumentID,
	})
	if err != nil {
		s.writeTradeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"watchlist": state.Watchlist,
		"watching":  state.Watching(req.InstrumentID),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		writeError(w, http.StatusBadRequest, "confirmation_required",
			"account reset is irreversible, pass confirm=true")
		return
	}

	if err := s.Session.Reset(r.Context()); err != nil {
		if errors.Is(err, session.ErrNoSession) {
			writeError(w, http.StatusUnauthorized, "no_session", "log in first")
			return
		}
		writeError(w, http.StatusInternalServerError, "reset_failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "account reset"})
}

// writeTradeError maps ledger and session failures onto HTTP statuses. Ledger
// rejections are well-formed requests the accounting refused, hence 422.
func (s *Server) writeTradeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrNoSession):
		writeError(w, http.StatusUnauthorized, "no_session", "log in first")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_funds", "buy cost exceeds cash balance")
	case errors.Is(err, ledger.ErrInsufficientQuantity):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_quantity", "sell quantity exceeds held quantity")
	case errors.Is(err, ledger.ErrNoSuchPosition):
		writeError(w, http.StatusUnprocessableEntity, "no_such_position", "nothing held in this instrument")
	case errors.Is(err, ledger.ErrInvalidQuantity):
		writeError(w, http.StatusUnprocessableEntity, "invalid_quantity", "quantity must be positive")
	default:
		writeError(w, http.StatusInternalServerError, "trade_failed", err.Error())
	}
}
