package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mella-app/mella/internal/model"
)

// MessageRepo provides access to the `messages` table.  Messages are
// grouped by a derived conversation key (see model.ConversationID) so
// either participant lands on the same thread.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// Create inserts a message and populates its generated ID and
// timestamp.
func (r *MessageRepo) Create(ctx context.Context, m *model.Message) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (conversation_id, sender_id, recipient_id, body) VALUES (?,?,?,?)",
		m.ConversationID, m.SenderID, m.RecipientID, m.Body)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx, "SELECT created_at FROM messages WHERE id=?", m.ID).Scan(&m.CreatedAt)
}

// ConversationSummary describes one thread in the inbox list: the
// counterpart, the latest message and the unread count.
type ConversationSummary struct {
	ConversationID string    `json:"conversation_id"`
	OtherUserID    uint64    `json:"other_user_id"`
	OtherUserName  string    `json:"other_user_name"`
	LastBody       string    `json:"last_message"`
	LastAt         time.Time `json:"last_message_at"`
	Unread         int       `json:"unread"`
}

// ListConversations returns the user's threads ordered by most recent
// message.
func (r *MessageRepo) ListConversations(ctx context.Context, userID uint64) ([]ConversationSummary, error) {
	// Latest message per conversation involving the user, plus the
	// counterpart's name and the user's unread count in that thread.
	const q = `SELECT m.conversation_id,
	                  IF(m.sender_id = ?, m.recipient_id, m.sender_id) AS other_id,
	                  u.full_name, m.body, m.created_at,
	                  (SELECT COUNT(*) FROM messages um
	                   WHERE um.conversation_id = m.conversation_id
	                     AND um.recipient_id = ? AND um.is_read = 0) AS unread
	           FROM messages m
	           JOIN (SELECT conversation_id, MAX(id) AS max_id FROM messages
	                 WHERE sender_id = ? OR recipient_id = ?
	                 GROUP BY conversation_id) latest
	             ON latest.max_id = m.id
	           JOIN users u ON u.id = IF(m.sender_id = ?, m.recipient_id, m.sender_id)
	           ORDER BY m.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID, userID, userID, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ConversationSummary, 0)
	for rows.Next() {
		var s ConversationSummary
		if err := rows.Scan(&s.ConversationID, &s.OtherUserID, &s.OtherUserName, &s.LastBody, &s.LastAt, &s.Unread); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListMessages returns a conversation's messages oldest first and
// marks the caller's incoming messages as read in the same call, which
// is what opening the thread means.
func (r *MessageRepo) ListMessages(ctx context.Context, conversationID string, userID uint64, limit int) ([]model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, conversation_id, sender_id, recipient_id, body, is_read, created_at
		 FROM messages WHERE conversation_id=? ORDER BY id DESC LIMIT ?`,
		conversationID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	msgs := make([]model.Message, 0)
	for rows.Next() {
		var m model.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// reverse to oldest-first for display
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE messages SET is_read=1 WHERE conversation_id=? AND recipient_id=? AND is_read=0",
		conversationID, userID)
	return msgs, err
}
