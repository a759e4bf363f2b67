package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mella-app/mella/internal/model"
)

// ReviewRepo provides access to the `reviews` table.  The unique key
// on booking_id makes "one review per booking" a database guarantee
// rather than an application check.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a new ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts a review and populates the generated ID.  A second
// review for the same booking surfaces as ErrConflict.
func (r *ReviewRepo) Create(ctx context.Context, rev *model.Review) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (ad_id, booking_id, reviewer_id, worker_id, rating, comment) VALUES (?,?,?,?,?,?)",
		rev.AdID, rev.BookingID, rev.ReviewerID, rev.WorkerID, rev.Rating, rev.Comment)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rev.ID = uint64(id)
	return nil
}

// ReviewItem is a review joined with its author's display name.
type ReviewItem struct {
	model.Review
	ReviewerName string `json:"reviewer_name"`
}

// ListByAd returns an ad's reviews newest first plus the average
// rating.  The average is 0 when no reviews exist.
func (r *ReviewRepo) ListByAd(ctx context.Context, adID uint64) ([]ReviewItem, float64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT rv.id, rv.ad_id, rv.booking_id, rv.reviewer_id, rv.worker_id, rv.rating, rv.comment, rv.created_at, u.full_name
		 FROM reviews rv JOIN users u ON u.id = rv.reviewer_id
		 WHERE rv.ad_id=? ORDER BY rv.created_at DESC`, adID)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]ReviewItem, 0)
	for rows.Next() {
		var it ReviewItem
		if err := rows.Scan(&it.ID, &it.AdID, &it.BookingID, &it.ReviewerID, &it.WorkerID, &it.Rating, &it.Comment, &it.CreatedAt, &it.ReviewerName); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx,
		"SELECT AVG(rating) FROM reviews WHERE ad_id=?", adID).Scan(&avg); err != nil {
		return nil, 0, err
	}
	return items, avg.Float64, nil
}
