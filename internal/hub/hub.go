package hub

import (
	"encoding/json"
	"sync"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single client connection (one open event stream for
// an account). It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Hub manages the event streams of all connected accounts.
type Hub struct {
	accounts map[uint]map[Client]bool
	mu       sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		accounts: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client stream for an account.
func (h *Hub) Subscribe(accountID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.accounts[accountID]; !ok {
		h.accounts[accountID] = make(map[Client]bool)
	}
	h.accounts[accountID][client] = true
}

// Unsubscribe removes a client stream.
func (h *Hub) Unsubscribe(accountID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.accounts[accountID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			if len(clients) == 0 {
				delete(h.accounts, accountID)
			}
		}
	}
}

// Publish sends an event to all open streams of one account.
func (h *Hub) Publish(accountID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.accounts[accountID]; ok {
		messageBytes, err := json.Marshal(event)
		if err != nil {
			return
		}

		for client := range clients {
			// Use a non-blocking send to prevent a slow client from blocking the hub.
			select {
			case client <- messageBytes:
			default:
				// Client channel is full, maybe they are disconnected or slow.
				// The unsubscribe logic will handle cleaning this up eventually.
			}
		}
	}
}
