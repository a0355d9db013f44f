// Package web exposes the simulator over HTTP: REST endpoints for the UI
// collaborator, an SSE and a WebSocket quote stream, and Prometheus metrics.
package web

import (
	"bufio"
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/akashsuryawanshi04/invest-simulator/internal/catalog"
	"github.com/akashsuryawanshi04/invest-simulator/internal/metrics"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/pricefeed"
	"github.com/akashsuryawanshi04/invest-simulator/internal/services/session"
)

// Server serves the simulator API.
type Server struct {
	Addr    string
	Feed    *pricefeed.Feed
	Session *session.Session
	Catalog *catalog.Catalog
	Metrics *metrics.Metrics

	logger *zap.Logger
}

// NewServer creates a new web server instance.
func NewServer(addr string, feed *pricefeed.Feed, sess *session.Session, cat *catalog.Catalog, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Addr:    addr,
		Feed:    feed,
		Session: sess,
		Catalog: cat,
		Metrics: m,
		logger:  logger,
	}
}

// Router builds the chi router with all routes registered.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(s.requestLogging)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())

	r.Get("/api/instruments", s.handleInstruments)
	r.Get("/api/quotes", s.handleQuotes)
	r.Get("/api/quotes/stream", s.handleQuoteStream)
	r.Get("/ws/quotes", s.handleQuotesWS)

	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)
	r.Get("/api/account", s.handleAccount)
	r.Get("/api/portfolio", s.handlePortfolio)
	r.Get("/api/history", s.handleHistory)
	r.Post("/api/trade", s.handleTrade)
	r.Post("/api/watchlist/toggle", s.handleToggleWatch)
	r.Delete("/api/account", s.handleReset)

	return r
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("web server listening", zap.String("addr", s.Addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

// Flush passes SSE flushes through the status wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack lets the websocket upgrade take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking unsupported")
	}
	return hj.Hijack()
}
