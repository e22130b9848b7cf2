// Package telemetry streams per-tick engine decisions to websocket observers.
package telemetry

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans messages out to every connected websocket client. Clients that
// fail a write are dropped.
type Hub struct {
	log     zerolog.Logger
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// NewHub builds an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*websocket.Conn]bool),
	}
}

// Broadcast writes the message to all connected clients.
func (h *Hub) Broadcast(msg []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if err := client.WriteMessage(websocket.TextMessage, msg); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

// Handler upgrades HTTP requests to websocket subscriptions on the hub.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		h.mu.Lock()
		h.clients[conn] = true
		h.mu.Unlock()
	}
}

// Serve exposes the hub at /ws on the given address.
func Serve(hub *Hub, addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", hub.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
