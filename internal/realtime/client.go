package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Connection tuning.  Pings keep intermediaries from closing idle
// sockets; the pong deadline detects dead peers.
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	egressBufSize  = 64
)

// subscribeCmd is the only inbound message shape the bridge accepts.
type subscribeCmd struct {
	Action string `json:"action"` // subscribe | unsubscribe
	Table  string `json:"table"`
	Filter string `json:"filter,omitempty"`
}

// Client is one connected WebSocket peer with its subscription set.
type Client struct {
	ID     string
	UserID uint64

	hub    *Hub
	conn   *websocket.Conn
	egress chan Event
	done   chan struct{}

	mu   sync.RWMutex
	subs map[Subscription]struct{}

	closeOnce sync.Once
}

// Register wires a new client into the hub and starts its read and
// write pumps.  The caller hands over ownership of conn.
func (h *Hub) Register(userID uint64, conn *websocket.Conn) *Client {
	c := &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		hub:    h,
		conn:   conn,
		egress: make(chan Event, egressBufSize),
		done:   make(chan struct{}),
		subs:   make(map[Subscription]struct{}),
	}
	h.add(c)
	go c.readPump()
	go c.writePump()
	return c
}

// Subscribe registers interest in (table, filter) for this client.
func (c *Client) Subscribe(table, filter string) {
	c.mu.Lock()
	c.subs[Subscription{Table: table, Filter: filter}] = struct{}{}
	c.mu.Unlock()
}

// Unsubscribe drops a previously registered interest.
func (c *Client) Unsubscribe(table, filter string) {
	c.mu.Lock()
	delete(c.subs, Subscription{Table: table, Filter: filter})
	c.mu.Unlock()
}

// match reports whether any of the client's subscriptions cover a
// change, returning the matched filter for the outgoing event.
func (c *Client) match(table string, filters []string) (bool, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for sub := range c.subs {
		if Matches(sub, table, filters) {
			return true, sub.Filter
		}
	}
	return false, ""
}

// close tears the client down exactly once.  The egress channel is
// never closed: Signal may be racing a send, so shutdown is signalled
// through done instead.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.hub.remove(c)
		close(c.done)
		_ = c.conn.Close()
	})
}

// readPump consumes subscribe/unsubscribe commands until the peer goes
// away.  It also services the pong deadline.
func (c *Client) readPump() {
	defer c.close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("realtime: read error for client %s: %v", c.ID, err)
			}
			return
		}
		var cmd subscribeCmd
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Printf("realtime: bad command from client %s: %v", c.ID, err)
			continue
		}
		if cmd.Table == "" {
			continue
		}
		switch cmd.Action {
		case "subscribe":
			c.Subscribe(cmd.Table, cmd.Filter)
		case "unsubscribe":
			c.Unsubscribe(cmd.Table, cmd.Filter)
		default:
			log.Printf("realtime: unknown action %q from client %s", cmd.Action, c.ID)
		}
	}
}

// writePump delivers queued events and periodic pings to the peer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case ev := <-c.egress:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
