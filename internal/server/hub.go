// internal/server/hub.go
package server

import (
	"context"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/jason-s-yu/stack/internal/game"
	"github.com/sirupsen/logrus"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// client is one live websocket connection bound to a player.
type client struct {
	playerID uuid.UUID
	conn     *websocket.Conn
	send     chan game.GameEvent
}

// writePump drains the send queue onto the socket until the queue is closed
// or a write fails.
func (c *client) writePump(ctx context.Context, log *logrus.Entry) {
	for ev := range c.send {
		wctx, cancel := context.WithTimeout(ctx, writeTimeout)
		err := wsjson.Write(wctx, c.conn, ev)
		cancel()
		if err != nil {
			log.WithError(err).WithField("player", c.playerID).Debug("write failed")
			_ = c.conn.Close(websocket.StatusInternalError, "write failed")
			return
		}
	}
}

// Hub routes outbound events to the connection of each player. A player has
// at most one live connection; registering again replaces the old one.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	log     *logrus.Entry
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		log:     logrus.WithField("component", "hub"),
	}
}

// Register binds conn to playerID and starts its writer.
func (h *Hub) Register(ctx context.Context, playerID uuid.UUID, conn *websocket.Conn) *client {
	c := &client{playerID: playerID, conn: conn, send: make(chan game.GameEvent, sendBuffer)}

	h.mu.Lock()
	old := h.clients[playerID]
	h.clients[playerID] = c
	if old != nil {
		close(old.send)
	}
	h.mu.Unlock()

	if old != nil {
		h.log.WithField("player", playerID).Info("connection replaced")
		_ = old.conn.Close(websocket.StatusPolicyViolation, "replaced by a newer connection")
	}
	go c.writePump(ctx, h.log)
	return c
}

// Unregister removes c if it is still the player's current connection and
// reports whether it was.
func (h *Hub) Unregister(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.playerID] != c {
		return false
	}
	delete(h.clients, c.playerID)
	close(c.send)
	return true
}

// SendTo queues ev for playerID. Events for unknown players, or for a client
// whose queue is full, are dropped.
func (h *Hub) SendTo(playerID uuid.UUID, ev game.GameEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[playerID]
	if !ok {
		return
	}
	select {
	case c.send <- ev:
	default:
		h.log.WithFields(logrus.Fields{"player": playerID, "event": ev.Type}).Warn("send queue full, event dropped")
	}
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
