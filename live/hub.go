// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package live

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	readLimit    = 512
)

// client is one websocket subscriber. gorilla connections allow one
// concurrent writer, hence the lock.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Hub fans JSON messages out to websocket subscribers grouped by channel.
type Hub struct {
	mu       sync.RWMutex
	channels map[string]map[*client]struct{}
	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectator pages may be served from any origin, same as CORS.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the request and keeps the connection subscribed to channel
// until the peer goes away. Incoming messages are discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, channel string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &client{conn: conn}
	h.subscribe(channel, c)
	defer func() {
		h.unsubscribe(channel, c)
		conn.Close()
	}()

	slog.Debug("spectator connected", "channel", channel, "subscribers", h.Subscribers(channel))

	conn.SetReadLimit(readLimit)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go h.ping(c, stop)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("spectator read failed", "channel", channel, "error", err)
			}
			return nil
		}
	}
}

func (h *Hub) ping(c *client, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-stop:
			return
		}
	}
}

// Broadcast sends v as JSON to every subscriber of channel and returns how
// many received it. Subscribers that fail to receive are disconnected.
func (h *Hub) Broadcast(channel string, v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal broadcast", "channel", channel, "error", err)
		return 0
	}

	h.mu.RLock()
	receivers := make([]*client, 0, len(h.channels[channel]))
	for c := range h.channels[channel] {
		receivers = append(receivers, c)
	}
	h.mu.RUnlock()

	sent := 0
	for _, c := range receivers {
		if err := c.write(websocket.TextMessage, data); err != nil {
			slog.Warn("dropping spectator", "channel", channel, "error", err)
			h.unsubscribe(channel, c)
			c.conn.Close()
			continue
		}
		sent++
	}
	return sent
}

// Subscribers returns the number of connections on channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for channel, clients := range h.channels {
		for c := range clients {
			c.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			c.conn.Close()
		}
		delete(h.channels, channel)
	}
}

func (h *Hub) subscribe(channel string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.channels[channel] == nil {
		h.channels[channel] = make(map[*client]struct{})
	}
	h.channels[channel][c] = struct{}{}
}

func (h *Hub) unsubscribe(channel string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.channels[channel]
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.channels, channel)
	}
}
