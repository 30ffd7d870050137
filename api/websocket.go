package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Event channels clients may subscribe to
const (
	ChannelOrders = "orders"
	ChannelBids   = "bids"
	ChannelLeases = "leases"
	ChannelEscrow = "escrow"
	ChannelBlocks = "blocks"
)

var wsChannels = map[string]bool{
	ChannelOrders: true,
	ChannelBids:   true,
	ChannelLeases: true,
	ChannelEscrow: true,
	ChannelBlocks: true,
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 512
)

// WebSocketHub fans marketplace events out to subscribed clients.
type WebSocketHub struct {
	clients    map[*WebSocketClient]bool
	broadcast  chan WSMessage
	register   chan *WebSocketClient
	unregister chan *WebSocketClient
	mu         sync.RWMutex
}

// WebSocketClient is one connected subscriber.
type WebSocketClient struct {
	hub           *WebSocketHub
	conn          *websocket.Conn
	send          chan WSMessage
	subscriptions map[string]bool
	mu            sync.RWMutex
}

// NewWebSocketHub creates an empty hub. Call Run in a goroutine to start
// dispatching.
func NewWebSocketHub() *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*WebSocketClient]bool),
		broadcast:  make(chan WSMessage, 256),
		register:   make(chan *WebSocketClient),
		unregister: make(chan *WebSocketClient),
	}
}

// Run dispatches registrations and broadcasts until the hub is closed.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			gatewayWSConnections.Inc()

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			h.dispatch(message)
		}
	}
}

// dispatch delivers a message to every subscribed client. Clients whose
// send buffer is full are dropped; a consumer that slow would only fall
// further behind.
func (h *WebSocketHub) dispatch(message WSMessage) {
	var stale []*WebSocketClient

	h.mu.RLock()
	for client := range h.clients {
		if message.Channel != "" && !client.subscribed(message.Channel) {
			continue
		}
		select {
		case client.send <- message:
		default:
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range stale {
		h.drop(client)
	}
}

func (h *WebSocketHub) drop(client *WebSocketClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		gatewayWSConnections.Dec()
	}
}

// Broadcast queues a message for delivery. Drops it when the hub's queue
// is saturated rather than blocking the caller.
func (h *WebSocketHub) Broadcast(message WSMessage) {
	select {
	case h.broadcast <- message:
	default:
		fmt.Println("Warning: Broadcast channel is full")
	}
}

// BroadcastToChannel sends data to every client subscribed to channel.
func (h *WebSocketHub) BroadcastToChannel(channel string, data interface{}) {
	h.Broadcast(WSMessage{
		Type:    channel + "_update",
		Channel: channel,
		Data:    data,
	})
}

// BroadcastTxEvent fans a broadcast transaction out to the channel that
// tracks its message type
func (h *WebSocketHub) BroadcastTxEvent(channel, action string, data interface{}) {
	h.Broadcast(WSMessage{
		Type:    action,
		Channel: channel,
		Data:    data,
	})
}

// GetConnectedClients returns the number of connected clients.
func (h *WebSocketHub) GetConnectedClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and shuts the hub down.
func (h *WebSocketHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.conn.Close()
		delete(h.clients, client)
	}

	close(h.broadcast)
	close(h.register)
	close(h.unregister)
}

// handleWebSocket upgrades the request and registers the client with the
// hub. Origins are checked against the gateway's CORS allowlist.
func (s *Server) handleWebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range s.config.CORSOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		fmt.Printf("WebSocket upgrade error: %v\n", err)
		return
	}

	client := &WebSocketClient{
		hub:           s.wsHub,
		conn:          conn,
		send:          make(chan WSMessage, 256),
		subscriptions: make(map[string]bool),
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *WebSocketClient) subscribed(channel string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.subscriptions[channel]
}

// readPump consumes subscribe and unsubscribe requests from the peer and
// keeps the read deadline fresh off pongs.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("WebSocket error: %v\n", err)
			}
			return
		}

		var msg WSSubscribeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		c.handleMessage(msg)
	}
}

// writePump delivers hub messages and pings. Exits when the hub closes
// the send channel or a write fails.
func (c *WebSocketClient) writePump() {
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
			if err := c.conn.WriteJSON(message); err != nil {
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

func (c *WebSocketClient) handleMessage(msg WSSubscribeMessage) {
	switch msg.Type {
	case "subscribe":
		c.subscribe(msg.Channel)
	case "unsubscribe":
		c.unsubscribe(msg.Channel)
	default:
		fmt.Printf("Unknown message type: %s\n", msg.Type)
	}
}

func (c *WebSocketClient) subscribe(channel string) {
	if !wsChannels[channel] {
		c.reply(WSMessage{
			Type:    "error",
			Channel: channel,
			Data:    map[string]interface{}{"error": "unknown channel"},
		})
		return
	}

	c.mu.Lock()
	c.subscriptions[channel] = true
	c.mu.Unlock()

	c.reply(WSMessage{
		Type:    "subscribed",
		Channel: channel,
		Data: map[string]interface{}{
			"channel": channel,
			"status":  "subscribed",
		},
	})
}

func (c *WebSocketClient) unsubscribe(channel string) {
	c.mu.Lock()
	delete(c.subscriptions, channel)
	c.mu.Unlock()

	c.reply(WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
		Data: map[string]interface{}{
			"channel": channel,
			"status":  "unsubscribed",
		},
	})
}

// reply queues a message for this client only.
func (c *WebSocketClient) reply(msg WSMessage) {
	select {
	case c.send <- msg:
	default:
		fmt.Println("Warning: Client send channel is full")
	}
}
