package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mella-app/mella/internal/model"
)

// AdRepo provides CRUD operations for service listings.  Browse
// queries return active ads only; owners see their inactive ads
// through ListByOwner.
type AdRepo struct {
	db *sql.DB
}

// NewAdRepo returns a new AdRepo bound to the given database.
func NewAdRepo(db *sql.DB) *AdRepo { return &AdRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *AdRepo) DB() *sql.DB { return r.db }

// ErrAdNotFound is returned when an ad id does not resolve to a row.
var ErrAdNotFound = errors.New("ad not found")

const adColumns = "id, user_id, title, description, category, price_cents, lat, lng, is_active, created_at, updated_at"

func scanAd(row interface{ Scan(...interface{}) error }) (model.Ad, error) {
	var a model.Ad
	err := row.Scan(&a.ID, &a.UserID, &a.Title, &a.Description, &a.Category,
		&a.PriceCents, &a.Lat, &a.Lng, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Create inserts a new ad and populates the generated ID.
func (r *AdRepo) Create(ctx context.Context, a *model.Ad) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ads (user_id, title, description, category, price_cents, lat, lng, is_active)
		 VALUES (?,?,?,?,?,?,?,1)`,
		a.UserID, a.Title, a.Description, a.Category, a.PriceCents, a.Lat, a.Lng)
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

// GetByID returns an ad regardless of active flag.  ErrAdNotFound is
// returned when no row exists.
func (r *AdRepo) GetByID(ctx context.Context, id uint64) (model.Ad, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+adColumns+" FROM ads WHERE id=?", id)
	a, err := scanAd(row)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrAdNotFound
	}
	return a, err
}

// GetByIDTx is GetByID within an existing transaction.  Bookings read
// the ad inside their creation transaction so the owner snapshot and
// price cannot drift between read and insert.
func (r *AdRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Ad, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+adColumns+" FROM ads WHERE id=?", id)
	a, err := scanAd(row)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrAdNotFound
	}
	return a, err
}

// Update overwrites the mutable listing fields of an ad owned by
// ownerID.  ErrForbidden is returned when the ad belongs to someone
// else, ErrAdNotFound when it does not exist.
func (r *AdRepo) Update(ctx context.Context, id, ownerID uint64, title, description, category string, priceCents uint32, lat, lng float64) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE ads SET title=?, description=?, category=?, price_cents=?, lat=?, lng=? WHERE id=?`,
		title, description, category, priceCents, lat, lng, id)
	return err
}

// SetActive flips the visibility flag of an ad owned by ownerID.
func (r *AdRepo) SetActive(ctx context.Context, id, ownerID uint64, active bool) error {
	owner, err := r.ownerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "UPDATE ads SET is_active=? WHERE id=?", active, id)
	return err
}

func (r *AdRepo) ownerOf(ctx context.Context, id uint64) (uint64, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx, "SELECT user_id FROM ads WHERE id=?", id).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAdNotFound
	}
	return owner, err
}

// ListActive returns active ads, optionally filtered by category and a
// case-insensitive text match on title/description, newest first.
// Radius filtering happens in the handler because it needs the
// caller's position.
func (r *AdRepo) ListActive(ctx context.Context, category, q string, limit int) ([]model.Ad, error) {
	query := "SELECT " + adColumns + " FROM ads WHERE is_active=1"
	args := []interface{}{}
	if category != "" {
		query += " AND category=?"
		args = append(args, category)
	}
	if q = strings.TrimSpace(q); q != "" {
		query += " AND (title LIKE ? OR description LIKE ?)"
		like := "%" + q + "%"
		args = append(args, like, like)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ads := make([]model.Ad, 0)
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}

// ListByOwner returns every ad belonging to ownerID, newest first,
// including deactivated ones.
func (r *AdRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Ad, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+adColumns+" FROM ads WHERE user_id=? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ads := make([]model.Ad, 0)
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, err
		}
		ads = append(ads, a)
	}
	return ads, rows.Err()
}
