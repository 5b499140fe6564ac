// Package server provides the HTTP server for the Mudra motion tracking
// system.
package server

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// liveFeed is the subscription surface the live endpoint consumes.
// *app.App implements it.
type liveFeed interface {
	Subscribe() (<-chan app.Update, func())
}

// LiveHandler forwards per-frame tracking updates to WebSocket clients. Each
// client gets its own pipeline subscription; the pipeline never blocks on a
// slow client.
type LiveHandler struct {
	feed liveFeed
}

// NewLiveHandler creates a new LiveHandler fed by the given source.
func NewLiveHandler(feed liveFeed) *LiveHandler {
	return &LiveHandler{feed: feed}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	updates, cancel := h.feed.Subscribe()
	defer cancel()

	// Drain client messages so pings and close frames are processed.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(u); err != nil {
				return
			}
		}
	}
}
