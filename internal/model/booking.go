package model

import (
	"fmt"
	"time"
)

// BookingStatus enumerates the lifecycle states of a booking.  The
// string values are persisted in the `bookings.status` column and in
// every `booking_status_history` row, so they must never change once
// data exists.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusAccepted   BookingStatus = "accepted"
	BookingStatusRejected   BookingStatus = "rejected"
	BookingStatusEnRoute    BookingStatus = "en_route"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
)

// Valid reports whether s is one of the known booking statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusAccepted, BookingStatusRejected,
		BookingStatusEnRoute, BookingStatusInProgress, BookingStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s BookingStatus) Terminal() bool {
	return s == BookingStatusRejected || s == BookingStatusCompleted
}

// transitions encodes the only status changes a booking may undergo.
// Every transition listed here is performed by the worker; customers
// create bookings (which enter `pending`) and may attach an emergency
// contact, but never move the status.
var transitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusAccepted, BookingStatusRejected},
	BookingStatusAccepted:   {BookingStatusEnRoute},
	BookingStatusEnRoute:    {BookingStatusInProgress},
	BookingStatusInProgress: {BookingStatusCompleted},
}

// CanTransition reports whether a booking in state `from` may move to
// state `to`.
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError is returned when a status update names a
// (from, to) pair outside the transition table.  Handlers translate it
// into an HTTP 409 response.
type InvalidTransitionError struct {
	From BookingStatus
	To   BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid booking transition %s -> %s", e.From, e.To)
}

// Booking mirrors a row of the `bookings` table.  A booking is a
// customer's request to engage a specific ad; the worker is always the
// ad's owner at creation time.  Bookings are permanent records: no
// delete path exists.
//
// Fields:
//  ID                   – primary key identifier.
//  AdID                 – ad being booked.
//  CustomerID           – user who created the booking.
//  WorkerID             – owner of the ad at creation time.
//  Status               – current lifecycle state.
//  Message              – customer's note, immutable after creation.
//  ServiceDate          – requested service date (nullable).
//  ProviderLat/Lng      – worker's last reported position (nullable).
//  ETAMinutes           – worker's estimated arrival in minutes (nullable).
//  EmergencyContactName – attached emergency contact name (nullable).
//  EmergencyContactPhone– attached emergency contact phone (nullable).
//  PaymentStatus        – unpaid|paid|refunded.
//  PaymentMethod        – cash|telebirr|cbe_birr.
//  TotalAmountCents     – price snapshot taken from the ad.
type Booking struct {
	ID                    uint64        `json:"id"`
	AdID                  uint64        `json:"ad_id"`
	CustomerID            uint64        `json:"customer_id"`
	WorkerID              uint64        `json:"worker_id"`
	Status                BookingStatus `json:"status"`
	Message               string        `json:"message"`
	ServiceDate           *time.Time    `json:"service_date,omitempty"`
	ProviderLat           *float64      `json:"provider_location_lat,omitempty"`
	ProviderLng           *float64      `json:"provider_location_lng,omitempty"`
	ETAMinutes            *uint32       `json:"eta_minutes,omitempty"`
	EmergencyContactName  *string       `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string       `json:"emergency_contact_phone,omitempty"`
	PaymentStatus         string        `json:"payment_status"`
	PaymentMethod         string        `json:"payment_method"`
	TotalAmountCents      uint32        `json:"total_amount_cents"`
	CreatedAt             time.Time     `json:"created_at"`
	UpdatedAt             time.Time     `json:"updated_at"`
}

// StatusHistoryEntry is one row of the append-only
// `booking_status_history` table.  Entries are written in the same
// transaction as the status update itself, so the newest entry always
// matches the booking's current status.
//
// Fields:
//  Status    – status the booking entered.
//  Timestamp – when the transition was recorded.
//  UpdatedBy – user who performed the transition.
type StatusHistoryEntry struct {
	Status    BookingStatus `json:"status"`
	Timestamp time.Time     `json:"timestamp"`
	UpdatedBy uint64        `json:"updated_by"`
}
