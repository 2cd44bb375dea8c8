package main

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
)

type Hub struct {
	mu               sync.Mutex
	clients          map[*Client]struct{}
	broadcastStatus  chan StatusResponse
	broadcastHistory chan historyPayload
	broadcastReset   chan resetPayload
}

type Client struct {
	ID   string
	hub  *Hub
	send chan []byte
}

func newClient(hub *Hub) *Client {
	return &Client{
		ID:   uuid.NewString(),
		hub:  hub,
		send: make(chan []byte, 64),
	}
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type historyPayload struct {
	History []historyEntryDTO `json:"history"`
}

type resetPayload struct {
	BoardSize int    `json:"board_size"`
	WinLength int    `json:"win_length"`
	Black     string `json:"black"`
	White     string `json:"white"`
}

func NewHub() *Hub {
	return &Hub{
		clients:          make(map[*Client]struct{}),
		broadcastStatus:  make(chan StatusResponse, 32),
		broadcastHistory: make(chan historyPayload, 32),
		broadcastReset:   make(chan resetPayload, 8),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcastStatus:
			h.broadcast(wsMessage{Type: "status", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastHistory:
			h.broadcast(wsMessage{Type: "history", Payload: mustMarshal(payload)})
		case payload := <-h.broadcastReset:
			h.broadcast(wsMessage{Type: "reset", Payload: mustMarshal(payload)})
		}
	}
}

func (h *Hub) broadcast(msg wsMessage) {
	h.mu.Lock()
	for client := range h.clients {
		client.sendJSON(msg)
	}
	h.mu.Unlock()
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	log.Printf("ws: client %s connected (%d online)", c.ID, count)
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	removed := false
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		removed = true
	}
	count := len(h.clients)
	h.mu.Unlock()
	if removed {
		log.Printf("ws: client %s disconnected (%d online)", c.ID, count)
	}
}

func (h *Hub) HasClients() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients) > 0
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}
