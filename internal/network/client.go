package network

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shaomun/dnaminer/server/internal/domain/player"
	"github.com/shaomun/dnaminer/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.sendBuffer),
	}
}

// PlayerAction represents an incoming command from the frontend.
type PlayerAction struct {
	Type    string          `json:"type"` // "TAP", "BUY_BOOSTER", "BUY_MINER", ...
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ActionResponse is sent back to the issuing client for every action.
type ActionResponse struct {
	Kind   string      `json:"kind"` // always "result"
	Action string      `json:"action"`
	Result interface{} `json:"result"`
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps actions from the websocket connection into the engine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Errorf("websocket read error: %v", err)
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var action PlayerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("Failed to parse PlayerAction from WebSocket: " + err.Error())
			continue
		}

		c.handlePlayerAction(action)
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handlePlayerAction(action PlayerAction) {
	// Rate limiting: taps are the whole game, so the gap is short, but a
	// floored client loop cannot outrun the engine.
	if c.hub.actionGap > 0 && time.Since(c.lastActionTime) < c.hub.actionGap {
		c.hub.logger.Warn("Rate limit exceeded for client action " + action.Type)
		return
	}
	c.lastActionTime = time.Now()

	eng := c.hub.engine

	switch action.Type {
	case "TAP":
		c.respond(action.Type, eng.Tap())
	case "BUY_BOOSTER":
		var p struct {
			Key player.BoosterKey `json:"key"`
		}
		if !c.parse(action, &p) {
			return
		}
		c.respond(action.Type, eng.PurchaseBooster(p.Key))
	case "BUY_MINER":
		var p struct {
			ID string `json:"id"`
		}
		if !c.parse(action, &p) {
			return
		}
		c.respond(action.Type, eng.PurchaseMiner(p.ID))
	case "CLAIM_DAILY":
		c.respond(action.Type, eng.ClaimDailyReward())
	case "CLAIM_ENERGY":
		c.respond(action.Type, eng.ClaimEnergyRecharge())
	case "COMPLETE_TASK":
		var p struct {
			Task player.TaskKey `json:"task"`
		}
		if !c.parse(action, &p) {
			return
		}
		c.respond(action.Type, eng.CompleteTask(p.Task))
	case "CANCEL_TASK":
		c.respond(action.Type, map[string]bool{"canceled": eng.CancelVerification()})
	case "GET_STATE":
		c.respond(action.Type, eng.Snapshot())
	default:
		c.hub.logger.Warn("Unknown PlayerAction type: " + action.Type)
	}
}

func (c *Client) parse(action PlayerAction, into interface{}) bool {
	if err := json.Unmarshal(action.Payload, into); err != nil {
		c.hub.logger.Error("Bad payload for " + action.Type + ": " + err.Error())
		return false
	}
	return true
}

func (c *Client) respond(action string, result interface{}) {
	msg, err := json.Marshal(ActionResponse{Kind: "result", Action: action, Result: result})
	if err != nil {
		c.hub.logger.Errorf("Failed to serialize ActionResponse: %v", err)
		return
	}
	select {
	case c.send <- msg:
		metrics.Get().RecordWSMessage(false)
	default:
		metrics.Get().RecordWSError()
	}
}
