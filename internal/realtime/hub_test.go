package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatches(t *testing.T) {
	cases := []struct {
		name    string
		sub     Subscription
		table   string
		filters []string
		want    bool
	}{
		{"table-wide subscription", Subscription{Table: "bookings"}, "bookings", []string{UserFilter(7)}, true},
		{"wrong table", Subscription{Table: "bookings"}, "messages", []string{UserFilter(7)}, false},
		{"filter hit", Subscription{Table: "notifications", Filter: UserFilter(7)}, "notifications", []string{UserFilter(7)}, true},
		{"filter miss", Subscription{Table: "notifications", Filter: UserFilter(7)}, "notifications", []string{UserFilter(8)}, false},
		{"booking filter among several keys", Subscription{Table: "bookings", Filter: BookingFilter(12)}, "bookings", []string{BookingFilter(12), UserFilter(3), UserFilter(9)}, true},
		{"conversation filter", Subscription{Table: "typing_indicators", Filter: ConversationFilter("3:9")}, "typing_indicators", []string{ConversationFilter("3:9")}, true},
		{"unkeyed typing event misses filtered subscription", Subscription{Table: "typing_indicators", Filter: ConversationFilter("3:9")}, "typing_indicators", nil, false},
		{"no filters on event", Subscription{Table: "feed_activities", Filter: UserFilter(1)}, "feed_activities", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Matches(tc.sub, tc.table, tc.filters))
		})
	}
}

func TestFilterGrammar(t *testing.T) {
	assert.Equal(t, "user:42", UserFilter(42))
	assert.Equal(t, "booking:9", BookingFilter(9))
	assert.Equal(t, "conversation:3:9", ConversationFilter("3:9"))
}

func TestSignalWithoutClients(t *testing.T) {
	h := NewHub()
	// must not panic or block with nobody listening
	h.Signal("bookings", "update", BookingFilter(1))
	assert.Equal(t, 0, h.ClientCount())
}

func TestNilHubSignal(t *testing.T) {
	var h *Hub
	// mutating handlers call Signal unconditionally; a nil hub is a no-op
	h.Signal("bookings", "update")
}
