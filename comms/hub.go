package comms

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Hub tracks connected websocket clients and fans broadcasts out to them.
// A client that cannot keep up is dropped.
type Hub struct {
	name       string
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.RWMutex
	l          hclog.Logger
}

func NewHub(name string, l hclog.Logger) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		l:          l.Named("hub").With("hub", name),
	}
}

func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for client := range h.clients {
			delete(h.clients, client)
			close(client.send)
		}
		h.mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.mu.Unlock()
			h.l.Info("client connected", "clients", count)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.l.Info("client disconnected", "clients", count)

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					close(client.send)
					delete(h.clients, client)
					h.l.Warn("dropped slow client")
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues msg for every client. It drops msg if the hub is behind.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	default:
		h.l.Debug("broadcast channel full, dropping message")
	}
}

func (h *Hub) BroadcastJSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(b)
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client is one websocket connection. Only writePump writes to conn.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	onMessage func([]byte) []byte
}

// Serve registers conn with the hub and pumps it until it closes. Every
// frame read from the client is passed to onMessage, and a non-nil result is
// sent back to that client only.
func (h *Hub) Serve(conn *websocket.Conn, onMessage func([]byte) []byte) {
	c := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		onMessage: onMessage,
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.l.Debug("read failed", "error", err)
			}
			return
		}

		if c.onMessage == nil {
			continue
		}
		if reply := c.onMessage(msg); reply != nil {
			c.reply(reply)
		}
	}
}

// reply goes through the hub lock so it never races the hub closing send.
func (c *Client) reply(msg []byte) {
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if !c.hub.clients[c] {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
