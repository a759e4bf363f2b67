// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingLifecycleEvent is published on every booking creation and
// status transition.  It carries enough context for downstream
// consumers to log, notify or feed analytics without querying the
// primary database.
type BookingLifecycleEvent struct {
	BookingID        uint64 `json:"booking_id"`
	AdID             uint64 `json:"ad_id"`
	AdTitle          string `json:"ad_title"`
	CustomerID       uint64 `json:"customer_id"`
	WorkerID         uint64 `json:"worker_id"`
	FromStatus       string `json:"from_status,omitempty"`
	ToStatus         string `json:"to_status"`
	TotalAmountCents uint32 `json:"total_amount_cents"`
	OccurredAt       string `json:"occurred_at"`
}
