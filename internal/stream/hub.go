package stream

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// DefaultPingInterval keeps idle proxies from dropping the connection.
const DefaultPingInterval = 25 * time.Second

// clientBuffer is how many frames a slow client may fall behind before
// it is pruned from the fan-out set.
const clientBuffer = 32

// Payload is one SSE frame body. Exactly one of the optional fields is
// set, according to Type.
type Payload struct {
	Type    string      `json:"type"`
	Events  interface{} `json:"events,omitempty"`
	Event   interface{} `json:"event,omitempty"`
	EventID string      `json:"eventId,omitempty"`
	At      int64       `json:"at,omitempty"`
}

// Hub fans event-catalog changes out to every connected SSE client.
// Clients register explicitly and are pruned explicitly on disconnect
// or when their buffer fills; the keep-alive ticker only runs while at
// least one client is connected.
type Hub struct {
	mu           sync.Mutex
	clients      map[string]chan []byte
	pingInterval time.Duration
	stopPing     chan struct{}
}

// NewHub creates a hub with the given keep-alive interval
func NewHub(pingInterval time.Duration) *Hub {
	if pingInterval <= 0 {
		pingInterval = DefaultPingInterval
	}
	return &Hub{
		clients:      make(map[string]chan []byte),
		pingInterval: pingInterval,
	}
}

// Register adds a client and returns its receive channel
func (h *Hub) Register(id string) <-chan []byte {
	ch := make(chan []byte, clientBuffer)

	h.mu.Lock()
	h.clients[id] = ch
	if len(h.clients) == 1 {
		h.startPingLocked()
	}
	h.mu.Unlock()

	return ch
}

// Unregister removes a client; safe to call twice
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	if ch, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(ch)
	}
	if len(h.clients) == 0 {
		h.stopPingLocked()
	}
	h.mu.Unlock()
}

// Broadcast delivers a payload to every connected client. A client that
// cannot keep up is dropped so it never blocks delivery to the others.
func (h *Hub) Broadcast(payload Payload) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("stream: failed to marshal payload: %v", err)
		return
	}

	h.mu.Lock()
	for id, ch := range h.clients {
		select {
		case ch <- data:
		default:
			delete(h.clients, id)
			close(ch)
			log.Printf("stream: dropped slow client %s", id)
		}
	}
	if len(h.clients) == 0 {
		h.stopPingLocked()
	}
	h.mu.Unlock()
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) startPingLocked() {
	if h.stopPing != nil {
		return
	}
	stop := make(chan struct{})
	h.stopPing = stop

	go func() {
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				h.Broadcast(Payload{Type: "ping", At: time.Now().UnixMilli()})
			}
		}
	}()
}

func (h *Hub) stopPingLocked() {
	if h.stopPing != nil {
		close(h.stopPing)
		h.stopPing = nil
	}
}
