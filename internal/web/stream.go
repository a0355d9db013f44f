package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/akashsuryawanshi04/invest-simulator/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the UI collaborator may be served from anywhere, auth is out of scope
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleQuoteStream pushes every published quote table over SSE, with a
// comment heartbeat so proxies keep the connection open.
func (s *Server) handleQuoteStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	sub := s.Feed.Subscribe()
	defer s.Feed.Unsubscribe(sub)

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	send := func(quotes map[string]domain.Quote) error {
		payload, err := json.Marshal(quotes)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	// the current table first, then tick-driven updates
	if err := send(s.Feed.CurrentQuotes()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case quotes, ok := <-sub:
			if !ok {
				return
			}
			if err := send(quotes); err != nil {
				return
			}
		}
	}
}

// handleQuotesWS pushes every published quote table over a websocket. Reads
// are drained only to notice the peer going away.
func (s *Server) handleQuotesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sub := s.Feed.Subscribe()
	defer s.Feed.Unsubscribe(sub)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(s.Feed.CurrentQuotes()); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-closed:
			return
		case quotes, ok := <-sub:
			if !ok {
				return
			}
			if err := conn.WriteJSON(quotes); err != nil {
				return
			}
		}
	}
}
