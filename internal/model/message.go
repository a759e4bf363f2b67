package model

import (
	"fmt"
	"time"
)

// Message mirrors a row of the `messages` table.  A conversation is the
// full exchange between two users; its identifier is derived from the
// pair so both sides compute the same value.
//
// Fields:
//  ID             – primary key identifier.
//  ConversationID – derived pair key, see ConversationID().
//  SenderID       – author of the message.
//  RecipientID    – the other party.
//  Body           – message text.
//  Read           – whether the recipient has opened the conversation since.
type Message struct {
	ID             uint64    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       uint64    `json:"sender_id"`
	RecipientID    uint64    `json:"recipient_id"`
	Body           string    `json:"body"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}

// ConversationID derives the canonical conversation key for a pair of
// users.  The lower ID always comes first, so both participants arrive
// at the same key regardless of who initiates.
func ConversationID(a, b uint64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

// TypingIndicator mirrors a row of the `typing_indicators` table.  The
// table holds at most one row per (conversation_id, user_id) pair via
// upsert; rows are deleted when the user stops typing or sends, and the
// read path ignores rows older than TypingStaleAfter.
type TypingIndicator struct {
	ConversationID string    `json:"conversation_id"`
	UserID         uint64    `json:"user_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ActiveAt reports whether the indicator is still trusted at the given
// instant.  Rows are stamped with the application clock on upsert, so
// now must come from that same clock; the database server's time zone
// never enters the comparison.
func (t TypingIndicator) ActiveAt(now time.Time) bool {
	return now.Sub(t.UpdatedAt) < TypingStaleAfter
}

// TypingStaleAfter bounds how long a typing row is trusted.  Clients
// clear their indicator optimistically after a few seconds; this cap
// keeps a crashed client from appearing to type forever.
const TypingStaleAfter = 10 * time.Second
