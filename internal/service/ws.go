package service

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/metrics"
	"github.com/u47108/La-Mafia-del-Hardware-Bot/internal/model"
)

const clientSendBuffer = 256

// Broadcaster fans dashboard events out to observers.
type Broadcaster interface {
	Publish(eventType string, payload any) int
}

type WSClient struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewWSClient(conn *websocket.Conn) *WSClient {
	return &WSClient{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, clientSendBuffer),
	}
}

// TrySend queues data without blocking. It returns false when the client
// is closed or its queue is full.
func (c *WSClient) TrySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close marks the client closed and ends its writer. Safe to call twice.
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

func (c *WSClient) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// WSHub owns the set of connected dashboard clients.
type WSHub struct {
	clients map[*WSClient]struct{}
	mu      sync.RWMutex
	log     zerolog.Logger
}

func NewWSHub(logger zerolog.Logger) *WSHub {
	return &WSHub{
		clients: make(map[*WSClient]struct{}),
		log:     logger.With().Str("component", "ws-hub").Logger(),
	}
}

func (h *WSHub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()

	metrics.DashboardObservers.Set(float64(total))
	h.log.Info().Str("client_id", client.ID).Int("total", total).Msg("dashboard connected")
}

func (h *WSHub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, ok := h.clients[client]
	delete(h.clients, client)
	total := len(h.clients)
	h.mu.Unlock()

	client.Close()
	if ok {
		metrics.DashboardObservers.Set(float64(total))
		h.log.Info().Str("client_id", client.ID).Int("total", total).Msg("dashboard disconnected")
	}
}

// Broadcast sends event to every open client and returns how many
// accepted it. Closed or saturated clients are skipped silently.
func (h *WSHub) Broadcast(event *model.WSEvent) int {
	data, err := json.Marshal(event)
	if err != nil {
		return 0
	}

	delivered := 0
	for _, client := range h.snapshot() {
		if client.TrySend(data) {
			delivered++
		}
	}
	metrics.EventsBroadcast.WithLabelValues(event.Type).Inc()
	return delivered
}

// Publish encodes payload and broadcasts it.
func (h *WSHub) Publish(eventType string, payload any) int {
	event, err := model.NewWSEvent(eventType, payload)
	if err != nil {
		h.log.Warn().Err(err).Str("type", eventType).Msg("event encode failed")
		return 0
	}
	return h.Broadcast(event)
}

// SendTo queues an event for a single client.
func (h *WSHub) SendTo(client *WSClient, eventType string, payload any) bool {
	event, err := model.NewWSEvent(eventType, payload)
	if err != nil {
		return false
	}
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}
	return client.TrySend(data)
}

func (h *WSHub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Shutdown closes every client.
func (h *WSHub) Shutdown() {
	h.mu.Lock()
	clients := make([]*WSClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*WSClient]struct{})
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
	metrics.DashboardObservers.Set(0)
}

func (h *WSHub) snapshot() []*WSClient {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*WSClient, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	return out
}
