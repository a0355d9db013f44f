package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/akashsuryawanshi04/invest-simulator/internal/catalog"
	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
	"github.com/akashsuryawanshi04/invest-simulator/internal/metrics"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/pricefeed"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/session"
	"github.com/akashsuryawanshi04/invest-simulator/internal/storage/accounts"
)

func newTestServer(t *testing.T) (*Server, *pricefeed.Feed) {
	t.Helper()

	cat := catalog.Default()
	m := metrics.New()
	feed := pricefeed.New(cat, pricefeed.Config{Seed: 1}, zap.NewNop(), m)

	repo, err := accounts.NewFileStore(t.TempDir())
	require.NoError(t, err)

	sess := session.New(repo, nil, nil, zap.NewNop(), m)
	return NewServer(":0", feed, sess, cat, m, zap.NewNop()), feed
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func login(t *testing.T, handler http.Handler, cash int64) {
	t.Helper()
	rec := doJSON(t, handler, http.MethodPost, "/api/login", map[string]any{
		"identity":     "trader@example.com",
		"startingCash": decimal.NewFromInt(cash),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestServer_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_Metrics(t *testing.T) {
	srv, feed := newTestServer(t)
	feed.Tick()

	rec := doJSON(t, srv.Router(), http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "investsim_price_ticks_total")
}

func TestServer_Instruments(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/instruments", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var instruments []domain.Instrument
	decode(t, rec, &instruments)
	assert.Len(t, instruments, 45)
}

func TestServer_QuotesEmptyBeforeFirstTick(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := doJSON(t, srv.Router(), http.MethodGet, "/api/quotes", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var quotes map[string]domain.Quote
	decode(t, rec, &quotes)
	assert.Empty(t, quotes)
}

func TestServer_FullTradeFlow(t *testing.T) {
	srv, feed := newTestServer(t)
	router := srv.Router()
	feed.Tick()

	login(t, router, 1_000_000)

	// buy
	rec := doJSON(t, router, http.MethodPost, "/api/trade", map[string]any{
		"instrumentId": "s1",
		"kind":         "BUY",
		"quantity":     decimal.NewFromInt(10),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var tradeResp struct {
		Transaction domain.Transaction  `json:"transaction"`
		Account     domain.AccountState `json:"account"`
	}
	decode(t, rec, &tradeResp)
	assert.Equal(t, domain.TransactionBuy, tradeResp.Transaction.Kind)
	assert.Nil(t, tradeResp.Transaction.RealizedPnL)
	assert.True(t, tradeResp.Account.Holdings["s1"].Quantity.Equal(decimal.NewFromInt(10)))
	assert.True(t, tradeResp.Account.CashBalance.LessThan(decimal.NewFromInt(1_000_000)))

	// portfolio values the position
	rec = doJSON(t, router, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var valuation struct {
		Positions   int             `json:"positions"`
		TotalEquity decimal.Decimal `json:"totalEquity"`
	}
	decode(t, rec, &valuation)
	assert.Equal(t, 1, valuation.Positions)
	assert.True(t, valuation.TotalEquity.Equal(decimal.NewFromInt(1_000_000)),
		"equity is conserved when selling nothing, got %s", valuation.TotalEquity)

	// sell half
	rec = doJSON(t, router, http.MethodPost, "/api/trade", map[string]any{
		"instrumentId": "s1",
		"kind":         "SELL",
		"quantity":     decimal.NewFromInt(5),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &tradeResp)
	assert.Equal(t, domain.TransactionSell, tradeResp.Transaction.Kind)
	require.NotNil(t, tradeResp.Transaction.RealizedPnL)

	// history newest first
	rec = doJSON(t, router, http.MethodGet, "/api/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []domain.Transaction
	decode(t, rec, &history)
	require.Len(t, history, 2)
	assert.Equal(t, domain.TransactionSell, history[0].Kind)

	rec = doJSON(t, router, http.MethodGet, "/api/history?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &history)
	assert.Len(t, history, 1)
}

func TestServer_TradeErrors(t *testing.T) {
	srv, feed := newTestServer(t)
	router := srv.Router()
	feed.Tick()

	tests := []struct {
		name      string
		setup     func(t *testing.T)
		body      map[string]any
		wantCode  int
		wantError string
	}{
		{
			name:      "no session",
			body:      map[string]any{"instrumentId": "s1", "kind": "BUY", "quantity": decimal.NewFromInt(1)},
			wantCode:  http.StatusUnauthorized,
			wantError: "no_session",
		},
		{
			name:      "unknown instrument",
			setup:     func(t *testing.T) { login(t, router, 1000) },
			body:      map[string]any{"instrumentId": "s99", "kind": "BUY", "quantity": decimal.NewFromInt(1)},
			wantCode:  http.StatusNotFound,
			wantError: "unknown_instrument",
		},
		{
			name:      "bad kind",
			body:      map[string]any{"instrumentId": "s1", "kind": "SHORT", "quantity": decimal.NewFromInt(1)},
			wantCode:  http.StatusBadRequest,
			wantError: "invalid_request",
		},
		{
			name:      "insufficient funds",
			body:      map[string]any{"instrumentId": "s1", "kind": "BUY", "quantity": decimal.NewFromInt(100000)},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "insufficient_funds",
		},
		{
			name:      "sell with no position",
			body:      map[string]any{"instrumentId": "c1", "kind": "SELL", "quantity": decimal.NewFromInt(1)},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "no_such_position",
		},
		{
			name:      "zero quantity",
			body:      map[string]any{"instrumentId": "s1", "kind": "BUY", "quantity": decimal.Zero},
			wantCode:  http.StatusUnprocessableEntity,
			wantError: "invalid_quantity",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setup != nil {
				tc.setup(t)
			}
			rec := doJSON(t, router, http.MethodPost, "/api/trade", tc.body)
			assert.Equal(t, tc.wantCode, rec.Code, rec.Body.String())

			var resp struct {
				Error string `json:"error"`
			}
			decode(t, rec, &resp)
			assert.Equal(t, tc.wantError, resp.Error)
		})
	}
}

func TestServer_TradeBeforeFirstTick(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()
	login(t, router, 1000)

	rec := doJSON(t, router, http.MethodPost, "/api/trade", map[string]any{
		"instrumentId": "s1",
		"kind":         "BUY",
		"quantity":     decimal.NewFromInt(1),
	})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_WatchlistToggle(t *testing.T) {
	srv, feed := newTestServer(t)
	router := srv.Router()
	feed.Tick()
	login(t, router, 1000)

	rec := doJSON(t, router, http.MethodPost, "/api/watchlist/toggle", map[string]any{"instrumentId": "s3"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Watchlist []string `json:"watchlist"`
		Watching  bool     `json:"watching"`
	}
	decode(t, rec, &resp)
	assert.True(t, resp.Watching)
	assert.Equal(t, []string{"s3"}, resp.Watchlist)

	rec = doJSON(t, router, http.MethodPost, "/api/watchlist/toggle", map[string]any{"instrumentId": "s3"})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	assert.False(t, resp.Watching)
	assert.Empty(t, resp.Watchlist)
}

func TestServer_ResetRequiresConfirmation(t *testing.T) {
	srv, feed := newTestServer(t)
	router := srv.Router()
	feed.Tick()
	login(t, router, 1000)

	rec := doJSON(t, router, http.MethodDelete, "/api/account", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/account?confirm=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// the session is gone
	rec = doJSON(t, router, http.MethodGet, "/api/account", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_LoginValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	router := srv.Router()

	rec := doJSON(t, router, http.MethodPost, "/api/login", map[string]any{
		"startingCash": decimal.NewFromInt(1000),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// missing content type
	req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewReader([]byte(`{}`)))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestServer_AccountAfterRelogin(t *testing.T) {
	srv, feed := newTestServer(t)
	router := srv.Router()
	feed.Tick()
	login(t, router, 1_000_000)

	rec := doJSON(t, router, http.MethodPost, "/api/trade", map[string]any{
		"instrumentId": "c1",
		"kind":         "BUY",
		"quantity":     decimal.NewFromFloat(0.01),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// the snapshot survives logout
	login(t, router, 1_000_000)
	rec = doJSON(t, router, http.MethodGet, "/api/account", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state domain.AccountState
	decode(t, rec, &state)
	assert.Contains(t, state.Holdings, "c1")
}
