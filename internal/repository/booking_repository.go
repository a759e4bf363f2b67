package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mella-app/mella/internal/model"
)

// BookingRepo provides access to the `bookings` table and its
// append-only `booking_status_history` companion.  Status changes are
// written through UpdateStatusTx, which appends the history row in the
// same transaction as the status update; the two can never diverge and
// no history entry can be lost to a concurrent writer.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// ErrBookingNotFound is returned when a booking id does not resolve to
// a row.
var ErrBookingNotFound = errors.New("booking not found")

const bookingColumns = `id, ad_id, customer_id, worker_id, status, message, service_date,
	provider_location_lat, provider_location_lng, eta_minutes,
	emergency_contact_name, emergency_contact_phone,
	payment_status, payment_method, total_amount_cents, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
	var (
		b           model.Booking
		serviceDate sql.NullTime
		lat, lng    sql.NullFloat64
		eta         sql.NullInt64
		ecName      sql.NullString
		ecPhone     sql.NullString
	)
	err := row.Scan(&b.ID, &b.AdID, &b.CustomerID, &b.WorkerID, &b.Status, &b.Message,
		&serviceDate, &lat, &lng, &eta, &ecName, &ecPhone,
		&b.PaymentStatus, &b.PaymentMethod, &b.TotalAmountCents, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return b, err
	}
	if serviceDate.Valid {
		t := serviceDate.Time
		b.ServiceDate = &t
	}
	if lat.Valid && lng.Valid {
		la, ln := lat.Float64, lng.Float64
		b.ProviderLat, b.ProviderLng = &la, &ln
	}
	if eta.Valid {
		e := uint32(eta.Int64)
		b.ETAMinutes = &e
	}
	if ecName.Valid && ecPhone.Valid {
		n, p := ecName.String, ecPhone.String
		b.EmergencyContactName, b.EmergencyContactPhone = &n, &p
	}
	return b, nil
}

// CreateTx inserts a new booking and its initial `pending` history row
// within the provided transaction, populating the generated ID and
// timestamps on the record.  The caller must commit or roll back.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (ad_id, customer_id, worker_id, status, message, service_date,
		   payment_status, payment_method, total_amount_cents)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		b.AdID, b.CustomerID, b.WorkerID, b.Status, b.Message, b.ServiceDate,
		b.PaymentStatus, b.PaymentMethod, b.TotalAmountCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	if err := appendHistoryTx(ctx, tx, b.ID, b.Status, b.CustomerID); err != nil {
		return err
	}
	row := tx.QueryRowContext(ctx, "SELECT created_at, updated_at FROM bookings WHERE id=?", b.ID)
	return row.Scan(&b.CreatedAt, &b.UpdatedAt)
}

// LockTx loads a booking inside the transaction with a row lock, so a
// transition is validated against a status no concurrent writer can
// change underneath it.  ErrBookingNotFound is returned when the id
// does not exist.
func (r *BookingRepo) LockTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? FOR UPDATE", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatusTx moves a locked booking from `from` to `to` and appends
// the matching history row, all inside the provided transaction.  The
// UPDATE carries a `status = from` guard: even if the lock were ever
// bypassed, a stale transition cannot overwrite a newer status, and the
// loser surfaces ErrConcurrentModification instead of silently dropping
// a history entry.  When lat/lng are non-nil the worker's position is
// stored alongside the status (the en_route case).
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.BookingStatus, updatedBy uint64, lat, lng *float64) error {
	var (
		res sql.Result
		err error
	)
	if lat != nil && lng != nil {
		res, err = tx.ExecContext(ctx,
			"UPDATE bookings SET status=?, provider_location_lat=?, provider_location_lng=? WHERE id=? AND status=?",
			to, *lat, *lng, id, from)
	} else {
		res, err = tx.ExecContext(ctx,
			"UPDATE bookings SET status=? WHERE id=? AND status=?",
			to, id, from)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConcurrentModification
	}
	return appendHistoryTx(ctx, tx, id, to, updatedBy)
}

func appendHistoryTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status model.BookingStatus, updatedBy uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO booking_status_history (booking_id, status, updated_by) VALUES (?,?,?)",
		bookingID, status, updatedBy)
	return err
}

// History returns the ordered status trail of a booking, oldest first.
// The list is reconstructed from the append-only sub-table; there is no
// serialized array to race on.
func (r *BookingRepo) History(ctx context.Context, bookingID uint64) ([]model.StatusHistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT status, created_at, updated_by FROM booking_status_history WHERE booking_id=? ORDER BY id",
		bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]model.StatusHistoryEntry, 0)
	for rows.Next() {
		var e model.StatusHistoryEntry
		if err := rows.Scan(&e.Status, &e.Timestamp, &e.UpdatedBy); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetByID returns a booking without locking.  ErrBookingNotFound is
// returned when the id does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookingColumns+" FROM bookings WHERE id=?", id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrBookingNotFound
	}
	return b, err
}

// UpdateETA overwrites eta_minutes on a booking owned by workerID.
func (r *BookingRepo) UpdateETA(ctx context.Context, id, workerID uint64, etaMinutes uint32) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.WorkerID != workerID {
		return ErrForbidden
	}
	_, err = r.db.ExecContext(ctx, "UPDATE bookings SET eta_minutes=? WHERE id=?", etaMinutes, id)
	return err
}

// UpdateLocation overwrites the provider position while the booking is
// en_route; any other status yields ErrConflict so a finished job
// cannot keep broadcasting a live position.
func (r *BookingRepo) UpdateLocation(ctx context.Context, id, workerID uint64, lat, lng float64) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.WorkerID != workerID {
		return ErrForbidden
	}
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET provider_location_lat=?, provider_location_lng=? WHERE id=? AND status=?",
		lat, lng, id, model.BookingStatusEnRoute)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// SetEmergencyContact attaches an emergency contact to a booking the
// customer owns.  The status column is untouched.  Terminal bookings
// reject the attach with ErrConflict.
func (r *BookingRepo) SetEmergencyContact(ctx context.Context, id, customerID uint64, name, phone string) error {
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.CustomerID != customerID {
		return ErrForbidden
	}
	if b.Status.Terminal() {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx,
		"UPDATE bookings SET emergency_contact_name=?, emergency_contact_phone=? WHERE id=?",
		name, phone, id)
	return err
}

// BookingDetail carries a booking together with display fields and its
// full status history for the detail and list endpoints.
type BookingDetail struct {
	model.Booking
	AdTitle      string                     `json:"ad_title"`
	CustomerName string                     `json:"customer_name"`
	WorkerName   string                     `json:"worker_name"`
	History      []model.StatusHistoryEntry `json:"status_history,omitempty"`
}

const detailQuery = `SELECT b.id, b.ad_id, b.customer_id, b.worker_id, b.status, b.message, b.service_date,
	b.provider_location_lat, b.provider_location_lng, b.eta_minutes,
	b.emergency_contact_name, b.emergency_contact_phone,
	b.payment_status, b.payment_method, b.total_amount_cents, b.created_at, b.updated_at,
	a.title, cu.full_name, wu.full_name
	FROM bookings b
	JOIN ads a ON a.id = b.ad_id
	JOIN users cu ON cu.id = b.customer_id
	JOIN users wu ON wu.id = b.worker_id`

func scanBookingDetail(row interface{ Scan(...interface{}) error }) (BookingDetail, error) {
	var (
		d           BookingDetail
		serviceDate sql.NullTime
		lat, lng    sql.NullFloat64
		eta         sql.NullInt64
		ecName      sql.NullString
		ecPhone     sql.NullString
	)
	err := row.Scan(&d.ID, &d.AdID, &d.CustomerID, &d.WorkerID, &d.Status, &d.Message,
		&serviceDate, &lat, &lng, &eta, &ecName, &ecPhone,
		&d.PaymentStatus, &d.PaymentMethod, &d.TotalAmountCents, &d.CreatedAt, &d.UpdatedAt,
		&d.AdTitle, &d.CustomerName, &d.WorkerName)
	if err != nil {
		return d, err
	}
	if serviceDate.Valid {
		t := serviceDate.Time
		d.ServiceDate = &t
	}
	if lat.Valid && lng.Valid {
		la, ln := lat.Float64, lng.Float64
		d.ProviderLat, d.ProviderLng = &la, &ln
	}
	if eta.Valid {
		e := uint32(eta.Int64)
		d.ETAMinutes = &e
	}
	if ecName.Valid && ecPhone.Valid {
		n, p := ecName.String, ecPhone.String
		d.EmergencyContactName, d.EmergencyContactPhone = &n, &p
	}
	return d, nil
}

// GetDetail returns a booking with display fields and history for
// either party.  A caller who is neither the customer nor the worker
// gets ErrForbidden.
func (r *BookingRepo) GetDetail(ctx context.Context, id, callerID uint64) (*BookingDetail, error) {
	row := r.db.QueryRowContext(ctx, detailQuery+" WHERE b.id=?", id)
	d, err := scanBookingDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.CustomerID != callerID && d.WorkerID != callerID {
		return nil, ErrForbidden
	}
	d.History, err = r.History(ctx, id)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByCustomer returns the caller's bookings as a customer, newest
// first, without the history trail (the detail endpoint loads it).
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID uint64) ([]BookingDetail, error) {
	return r.list(ctx, detailQuery+" WHERE b.customer_id=? ORDER BY b.created_at DESC", customerID)
}

// ListByWorker returns bookings addressed to the worker, newest first.
func (r *BookingRepo) ListByWorker(ctx context.Context, workerID uint64) ([]BookingDetail, error) {
	return r.list(ctx, detailQuery+" WHERE b.worker_id=? ORDER BY b.created_at DESC", workerID)
}

func (r *BookingRepo) list(ctx context.Context, query string, arg uint64) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]BookingDetail, 0)
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// CountActiveForWorker reports how many non-terminal bookings a worker
// currently has.  Used by the worker dashboard.
func (r *BookingRepo) CountActiveForWorker(ctx context.Context, workerID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bookings WHERE worker_id=? AND status IN (?,?,?,?)",
		workerID, model.BookingStatusPending, model.BookingStatusAccepted,
		model.BookingStatusEnRoute, model.BookingStatusInProgress).Scan(&n)
	return n, err
}
