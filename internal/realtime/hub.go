// Package realtime implements the change-signal bridge between
// mutating handlers and connected clients.  Clients subscribe to
// (table, filter) pairs over a WebSocket; whenever a handler mutates a
// matching row it calls Hub.Signal and every interested client
// receives a small change event.  Events carry no row data: the
// contract is re-fetch-on-change, which keeps clients free of merge
// logic at the cost of a redundant query.
package realtime

import (
	"fmt"
	"log"
	"sync"
)

// Event is the payload pushed to a subscribed client.  Op is one of
// insert, update or delete.
type Event struct {
	Event  string `json:"event"`
	Table  string `json:"table"`
	Op     string `json:"op"`
	Filter string `json:"filter,omitempty"`
}

// Subscription identifies one registered interest.  An empty Filter
// matches every change on the table.
type Subscription struct {
	Table  string `json:"table"`
	Filter string `json:"filter"`
}

// Filter constructors keep the key grammar in one place; handlers and
// clients must agree on these strings.
func UserFilter(userID uint64) string { return fmt.Sprintf("user:%d", userID) }
func BookingFilter(bookingID uint64) string { return fmt.Sprintf("booking:%d", bookingID) }
func ConversationFilter(convID string) string { return "conversation:" + convID }

// Matches reports whether a subscription covers a change on table
// carrying the given filter keys.
func Matches(sub Subscription, table string, filters []string) bool {
	if sub.Table != table {
		return false
	}
	if sub.Filter == "" {
		return true
	}
	for _, f := range filters {
		if f == sub.Filter {
			return true
		}
	}
	return false
}

// Hub tracks connected clients and fans change signals out to them.
// All methods are safe for concurrent use.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Signal notifies every client whose subscriptions cover a change on
// table.  filters lists the keys the change is addressed to (for a
// booking update: the booking key plus both parties' user keys).  A
// client whose egress buffer is full has the event dropped rather than
// blocking the mutating request; the client will catch up on its next
// re-fetch.
func (h *Hub) Signal(table, op string, filters ...string) {
	if h == nil {
		return
	}
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		matched, filter := c.match(table, filters)
		if !matched {
			continue
		}
		ev := Event{Event: "change", Table: table, Op: op, Filter: filter}
		select {
		case <-c.done:
		case c.egress <- ev:
		default:
			log.Printf("realtime: egress full for client %s, dropping %s/%s", c.ID, table, op)
		}
	}
}
