package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mella-app/mella/internal/model"
)

// TypingRepo provides access to the ephemeral `typing_indicators`
// table.  The composite primary key (conversation_id, user_id) plus
// ON DUPLICATE KEY UPDATE gives the at-most-one-row-per-pair upsert
// semantics; rows are deleted on stop/send and reaped when stale.
// All timestamps are written from the application clock in UTC, so
// staleness never depends on the MySQL server's time zone.
type TypingRepo struct {
	db *sql.DB
}

// NewTypingRepo returns a new TypingRepo bound to the given database.
func NewTypingRepo(db *sql.DB) *TypingRepo { return &TypingRepo{db: db} }

// Upsert creates or refreshes the caller's typing row for a
// conversation.
func (r *TypingRepo) Upsert(ctx context.Context, conversationID string, userID uint64) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO typing_indicators (conversation_id, user_id, updated_at)
		 VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE updated_at = ?`,
		conversationID, userID, now, now)
	return err
}

// Delete removes the caller's typing row.  Deleting a row that is
// already gone is a no-op.
func (r *TypingRepo) Delete(ctx context.Context, conversationID string, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM typing_indicators WHERE conversation_id=? AND user_id=?",
		conversationID, userID)
	return err
}

// ListActive returns the non-stale typing rows for a conversation.  A
// row older than model.TypingStaleAfter belongs to a client that went
// away without cleaning up and is not reported.  The staleness check
// runs in Go against the same clock Upsert stamps rows with.
func (r *TypingRepo) ListActive(ctx context.Context, conversationID string) ([]model.TypingIndicator, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT conversation_id, user_id, updated_at FROM typing_indicators WHERE conversation_id=?",
		conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	now := time.Now().UTC()
	out := make([]model.TypingIndicator, 0)
	for rows.Next() {
		var t model.TypingIndicator
		if err := rows.Scan(&t.ConversationID, &t.UserID, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if t.ActiveAt(now) {
			out = append(out, t)
		}
	}
	return out, rows.Err()
}

// DeleteStale removes rows older than the staleness cutoff and returns
// the conversations that lost rows, so the reaper can signal each one.
func (r *TypingRepo) DeleteStale(ctx context.Context) ([]string, error) {
	cutoff := time.Now().UTC().Add(-model.TypingStaleAfter)
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT conversation_id FROM typing_indicators WHERE updated_at <= ?", cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	convs := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		convs = append(convs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(convs) == 0 {
		return nil, nil
	}
	_, err = r.db.ExecContext(ctx,
		"DELETE FROM typing_indicators WHERE updated_at <= ?", cutoff)
	return convs, err
}
