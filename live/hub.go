// Package live pushes record-change events to connected clients so open
// grids know to refetch. Delivery is best-effort: the write path never
// waits on a client, and slow clients are skipped.
package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	events     chan []byte

	clients map[*Client]bool
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan []byte, 64),
		clients:    make(map[*Client]bool),
		logger:     logger,
	}
}

// Run owns the client set; call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.mu.Lock()
				if !client.closed {
					close(client.send)
					client.closed = true
				}
				client.mu.Unlock()
			}

		case message := <-h.events:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Client is not keeping up; drop the event.
				}
			}
		}
	}
}

// Broadcast queues a change event for every connected client. It never
// blocks the caller: if the hub itself is backed up the event is dropped
// and the next refetch catches the change.
func (h *Hub) Broadcast(event string) {
	payload, err := json.Marshal(Event{Type: event, At: time.Now().UTC()})
	if err != nil {
		h.logger.Error("failed to marshal live event", slog.String("event", event), slog.Any("error", err))
		return
	}
	select {
	case h.events <- payload:
	default:
		h.logger.Warn("live event queue full, dropping event", slog.String("event", event))
	}
}

// NewClient wraps an upgraded connection and registers it with the hub.
func (h *Hub) NewClient(conn *websocket.Conn) *Client {
	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 16),
	}
	h.register <- client
	return client
}

// ReadPump drains (and ignores) client messages until the connection dies,
// keeping pong handling alive.
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
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// WritePump forwards queued events to the connection and pings on idle.
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
