package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gather/server/internal/models"
	"github.com/gather/server/internal/observability"
)

// Message types sent over the realtime channel
const (
	WSTypeNotification = "notification"
	WSTypePing         = "ping"
	WSTypePong         = "pong"
	WSTypeError        = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// WSClient is one authenticated WebSocket connection
type WSClient struct {
	ID         string
	UserID     string
	Conn       *websocket.Conn
	Send       chan []byte
	hub        *WebSocketHub
	closedOnce sync.Once
}

// WebSocketHub fans notifications out to the live connections of each user
type WebSocketHub struct {
	clients    map[*WSClient]bool
	userConns  map[string]map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	broadcast  chan *userMessage
	done       chan struct{}
	mu         sync.RWMutex
}

// userMessage targets every connection of userID, or only client when set
type userMessage struct {
	userID  string
	client  *WSClient
	message []byte
}

// NewWebSocketHub creates a new WebSocket hub
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*WSClient]bool),
		userConns:  make(map[string]map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		broadcast:  make(chan *userMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run is the hub's main loop; it returns when ctx is done
func (h *WebSocketHub) Run(ctx context.Context) {
	log := observability.WithField("component", "websocket")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				h.removeLocked(client)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			if h.userConns[client.UserID] == nil {
				h.userConns[client.UserID] = make(map[*WSClient]bool)
			}
			h.userConns[client.UserID][client] = true
			h.mu.Unlock()
			log.WithField("user_id", client.UserID).Debugf("Client connected: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
			log.WithField("user_id", client.UserID).Debugf("Client disconnected: %s", client.ID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if msg.client != nil {
				if h.clients[msg.client] {
					h.deliver(msg.client, msg.message)
				}
			} else {
				for client := range h.userConns[msg.userID] {
					h.deliver(client, msg.message)
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *WebSocketHub) deliver(client *WSClient, message []byte) {
	select {
	case client.Send <- message:
	default:
		// Slow reader: drop the connection rather than block the hub
		go h.Unregister(client)
	}
}

func (h *WebSocketHub) removeLocked(client *WSClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	if conns, ok := h.userConns[client.UserID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.userConns, client.UserID)
		}
	}
	close(client.Send)
}

// Register adds a client to the hub
func (h *WebSocketHub) Register(client *WSClient) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(client *WSClient) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser queues msg for every connection of userID
func (h *WebSocketHub) SendToUser(userID string, msg WSMessage) {
	h.enqueue(&userMessage{userID: userID}, msg)
}

// SendToClient queues msg for a single connection. The hub owns the send
// queue, so delivery goes through it and is skipped once the client is gone.
func (h *WebSocketHub) SendToClient(client *WSClient, msg WSMessage) {
	h.enqueue(&userMessage{userID: client.UserID, client: client}, msg)
}

func (h *WebSocketHub) enqueue(target *userMessage, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		observability.Errorf("Error marshaling WebSocket message: %v", err)
		return
	}
	target.message = data
	select {
	case h.broadcast <- target:
	case <-h.done:
	default:
		observability.Warnf("WebSocket broadcast queue full, dropping %s message", msg.Type)
	}
}

// NotifyUser pushes a stored notification to its recipient
func (h *WebSocketHub) NotifyUser(userID string, n *models.Notification) {
	h.SendToUser(userID, WSMessage{Type: WSTypeNotification, Payload: n})
}

// ConnectionCount returns the number of live connections of a user
func (h *WebSocketHub) ConnectionCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userConns[userID])
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// NewClient creates a client for an authenticated user's connection
func (h *WebSocketHub) NewClient(id, userID string, conn *websocket.Conn) *WSClient {
	return &WSClient{
		ID:     id,
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 64),
		hub:    h,
	}
}

// Close unregisters the client and closes its connection
func (c *WSClient) Close() {
	c.closedOnce.Do(func() {
		c.hub.Unregister(c)
		c.Conn.Close()
	})
}

// WritePump pumps messages from the hub to the websocket connection
func (c *WSClient) WritePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump reads client messages until the connection closes. Only
// application-level pings are answered; everything else is ignored.
func (c *WSClient) ReadPump() {
	defer c.Close()

	c.Conn.SetReadLimit(4 * 1024)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				observability.WithField("user_id", c.UserID).WithError(err).Warn("WebSocket read error")
			}
			return
		}

		c.handle(data)
	}
}

// handle answers an application-level ping on this connection only
func (c *WSClient) handle(data []byte) {
	var msg WSMessage
	if json.Unmarshal(data, &msg) == nil && msg.Type == WSTypePing {
		c.hub.SendToClient(c, WSMessage{Type: WSTypePong})
	}
}
