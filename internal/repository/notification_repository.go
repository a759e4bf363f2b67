package repository

import (
	"context"
	"database/sql"

	"github.com/mella-app/mella/internal/model"
)

// NotificationRepo provides access to the `notifications` table.
// Rows are inserted once by the fan-out layer and only ever mutated to
// flip the read flag; there is no delete path.
type NotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepo returns a new NotificationRepo bound to the
// given database.
func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create inserts a notification row and populates the generated ID.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO notifications (user_id, type, title, message, data) VALUES (?,?,?,?,?)",
		n.UserID, n.Type, n.Title, n.Message, n.Data)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	n.ID = uint64(id)
	return nil
}

// ListByUser returns the user's newest notifications, capped at limit.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uint64, limit int) ([]model.Notification, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, type, title, message, is_read, data, created_at
		 FROM notifications WHERE user_id=? ORDER BY created_at DESC, id DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Notification, 0)
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Read, &n.Data, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// MarkRead flips the read flag on a single notification owned by
// userID.  Marking an already-read notification is a no-op, not an
// error.  sql.ErrNoRows is returned when the id does not belong to the
// user.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx, "SELECT user_id FROM notifications WHERE id=?", id).Scan(&owner)
	if err != nil {
		return err
	}
	if owner != userID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "UPDATE notifications SET is_read=1 WHERE id=?", id)
	return err
}

// MarkAllRead flips the read flag on every unread notification the
// user has.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE notifications SET is_read=1 WHERE user_id=? AND is_read=0", userID)
	return err
}

// CountUnread returns the user's unread notification count for the
// badge.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0", userID).Scan(&n)
	return n, err
}
