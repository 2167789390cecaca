// Package network exposes the engine to UI clients: a WebSocket hub for
// live events and commands, a REST bridge for hosts without WS, and the
// session replay export.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaomun/dnaminer/server/internal/engine"
	"github.com/shaomun/dnaminer/server/internal/events"
	"github.com/shaomun/dnaminer/server/internal/platform/logger"
	"github.com/shaomun/dnaminer/server/internal/platform/metrics"
)

// Client represents an active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	engine     *engine.Engine
	logger     *logger.Logger
	sendBuffer int
	actionGap  time.Duration
}

// NewHub initializes a new WebSocket Hub bound to the engine.
func NewHub(eng *engine.Engine, log *logger.Logger, sendBuffer int, actionGap time.Duration) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		engine:     eng,
		logger:     log,
		sendBuffer: sendBuffer,
		actionGap:  actionGap,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// envelope is the framing for every message pushed to clients.
type envelope struct {
	Kind    string      `json:"kind"` // "event" or "snapshot"
	Payload interface{} `json:"payload"`
}

// BroadcastEvent serializes a GameEvent and sends it to all clients.
func (h *Hub) BroadcastEvent(event events.GameEvent) {
	payload, err := json.Marshal(envelope{Kind: "event", Payload: event})
	if err != nil {
		h.logger.Errorf("Failed to serialize GameEvent for WebSocket broadcast: %v", err)
		return
	}
	h.broadcast <- payload
}

// BroadcastSnapshot pushes a full state snapshot to all clients.
func (h *Hub) BroadcastSnapshot(snap engine.Snapshot) {
	payload, err := json.Marshal(envelope{Kind: "snapshot", Payload: snap})
	if err != nil {
		h.logger.Errorf("Failed to serialize Snapshot for WebSocket broadcast: %v", err)
		return
	}
	h.broadcast <- payload
}

// StartEventPoller spawns a goroutine that polls the EventLog and pushes new
// events to the Hub, followed by a refreshed snapshot. This keeps the Hub
// independent from the engine's command paths while observing everything
// they emit.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		cursor := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				newEvents, next := eventLog.Since(cursor)
				if len(newEvents) == 0 {
					continue
				}
				for _, event := range newEvents {
					h.BroadcastEvent(event)
				}
				cursor = next
				h.BroadcastSnapshot(h.engine.Snapshot())
			}
		}
	}()
}
