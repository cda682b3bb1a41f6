// Package realtime pushes task change notifications to a user's open
// websocket connections so their calendar view can be rebuilt.
package realtime

import (
	"encoding/json"
	"sync"

	"calendar-planner-api/internal/logging"
)

// Event types published after a task mutation.
const (
	EventTaskCreated = "task_created"
	EventTaskUpdated = "task_updated"
	EventTaskMoved   = "task_moved"
	EventTaskDeleted = "task_deleted"
)

// Event is the message clients receive.
type Event struct {
	Type    string `json:"type"`
	TaskID  string `json:"taskId"`
	UserID  string `json:"userId"`
	Version int    `json:"version"`
}

// Client represents a single websocket client connection.
// The network connection itself is managed by the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub maintains active user connections and broadcasts events to them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[Client]struct{})}
}

var (
	hubInstance *Hub
	once        sync.Once
)

// GetHub returns the process-wide hub.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]struct{})
	}
	h.clients[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, userID)
		}
	}
}

// Connections returns how many clients userID has open.
func (h *Hub) Connections(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast sends a message to all clients of a user and returns how many
// accepted it. Failed clients are cleaned up by their handler.
func (h *Hub) Broadcast(userID string, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.clients[userID] {
		if c.Send(message) {
			sent++
		}
	}
	return sent
}

// Publish encodes a task event and broadcasts it to the user's clients.
func (h *Hub) Publish(userID, eventType, taskID string) {
	msg, err := json.Marshal(Event{Type: eventType, TaskID: taskID, UserID: userID, Version: 1})
	if err != nil {
		logging.Error().Err(err).Str("type", eventType).Msg("failed to encode event")
		return
	}
	sent := h.Broadcast(userID, msg)
	logging.Debug().
		Str("type", eventType).
		Str("task_id", taskID).
		Str("user_id", userID).
		Int("clients", sent).
		Msg("event published")
}
