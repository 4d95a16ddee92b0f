// Package realtime pushes events to connected clients over websockets.
// Delivery is best-effort: the durable record is the notification document,
// the push is a convenience. Users with no open connection are skipped.
package realtime

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/NaseemShaik-Mic/CampusConnect/internal/metrics"
)

// Frame is the wire format in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub is the registry from user identity to live connections. A user may
// hold several connections (tabs, devices); each joins the room named after
// the user id. The registry is process-scoped: on restart it starts empty
// and clients reconnect.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub creates an empty registry.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Client]struct{})}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.userID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[c.userID] = room
	}
	room[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.userID]
	if room == nil {
		return
	}
	if _, ok := room[c]; ok {
		delete(room, c)
		close(c.send)
	}
	if len(room) == 0 {
		delete(h.rooms, c.userID)
	}
}

// Connections reports how many connections a user currently holds.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID])
}

// SendToUser publishes an event to every connection in a user's room.
// Sends never block: a client with a full buffer drops the frame.
func (h *Hub) SendToUser(userID, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("realtime: marshal %s payload failed: %v", event, err)
		return
	}
	frame, err := json.Marshal(Frame{Event: event, Data: payload})
	if err != nil {
		log.Printf("realtime: marshal frame failed: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	room := h.rooms[userID]
	if len(room) == 0 {
		metrics.RealtimePushes.WithLabelValues("dropped").Inc()
		return
	}
	for c := range room {
		select {
		case c.send <- frame:
			metrics.RealtimePushes.WithLabelValues("delivered").Inc()
		default:
			metrics.RealtimePushes.WithLabelValues("dropped").Inc()
		}
	}
}

// SendToUsers publishes the same event to several users' rooms.
func (h *Hub) SendToUsers(userIDs []string, event string, data any) {
	for _, id := range userIDs {
		h.SendToUser(id, event, data)
	}
}
