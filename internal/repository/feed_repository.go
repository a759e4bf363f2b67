package repository

import (
	"context"
	"database/sql"

	"github.com/mella-app/mella/internal/model"
)

// FeedRepo provides access to the append-only `feed_activities`
// table.  Activities are write-once; nothing updates or deletes them.
type FeedRepo struct {
	db *sql.DB
}

// NewFeedRepo returns a new FeedRepo bound to the given database.
func NewFeedRepo(db *sql.DB) *FeedRepo { return &FeedRepo{db: db} }

// Create inserts an activity row and populates the generated ID.
func (r *FeedRepo) Create(ctx context.Context, a *model.FeedActivity) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO feed_activities (user_id, activity_type, content, visibility) VALUES (?,?,?,?)",
		a.UserID, a.ActivityType, a.Content, a.Visibility)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// FeedItem is an activity joined with its actor's display name.
type FeedItem struct {
	model.FeedActivity
	ActorName string `json:"actor_name"`
}

// ListVisible returns the newest activities a viewer is allowed to
// see: public rows plus the viewer's own private rows.  A nil viewerID
// (anonymous caller) sees public rows only.
func (r *FeedRepo) ListVisible(ctx context.Context, viewerID *uint64, limit int) ([]FeedItem, error) {
	query := `SELECT f.id, f.user_id, f.activity_type, f.content, f.visibility, f.created_at, u.full_name
	          FROM feed_activities f JOIN users u ON u.id = f.user_id
	          WHERE f.visibility = ?`
	args := []interface{}{model.VisibilityPublic}
	if viewerID != nil {
		query += " OR f.user_id = ?"
		args = append(args, *viewerID)
	}
	query += " ORDER BY f.created_at DESC, f.id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]FeedItem, 0)
	for rows.Next() {
		var it FeedItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ActivityType, &it.Content, &it.Visibility, &it.CreatedAt, &it.ActorName); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
