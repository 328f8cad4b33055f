package realtime

import (
	"encoding/json"
	"sync"
)

// Client represents a single websocket client connection.
// We keep it minimal here; the actual network conn is managed in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// TaskEvent is the payload broadcast when a task changes.
type TaskEvent struct {
	Type   string `json:"type"`
	TaskID string `json:"taskId"`
	UserID string `json:"userId"`
}

// Event types broadcast to connected clients.
const (
	EventTaskCreated       = "task_created"
	EventTaskUpdated       = "task_updated"
	EventTaskStatusChanged = "task_status_changed"
	EventTaskDeleted       = "task_deleted"
)

// Hub maintains active user connections and broadcasts events to them.
type Hub struct {
	mu              sync.RWMutex
	userIDToClients map[string]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = &Hub{
			userIDToClients: make(map[string]map[Client]struct{}),
		}
	})
	return hubInstance
}

// Register adds a client under a user ID.
func (h *Hub) Register(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.userIDToClients[userID]; !ok {
		h.userIDToClients[userID] = make(map[Client]struct{})
	}
	h.userIDToClients[userID][client] = struct{}{}
}

// Unregister removes a client; if user has no more clients, cleans up map.
func (h *Hub) Unregister(userID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.userIDToClients[userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.userIDToClients, userID)
		}
	}
}

// Broadcast sends a message to all clients of a user.
func (h *Hub) Broadcast(userID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := h.userIDToClients[userID]
	for c := range clients {
		// write failures are cleaned up by the connection handler
		_ = c.Send(message)
	}
}

// PublishTaskEvent marshals and broadcasts a task event to a user's clients.
func (h *Hub) PublishTaskEvent(userID, eventType, taskID string) {
	evt := TaskEvent{Type: eventType, TaskID: taskID, UserID: userID}
	payload, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(userID, payload)
}
