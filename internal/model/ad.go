package model

import "time"

// Ad represents a service or product listing published by a worker.
// Ads carry a fixed coordinate so browse requests can filter by
// distance from the caller.  Deactivated ads stay in the table because
// bookings keep referencing them.
//
// Fields:
//  ID          – primary key identifier.
//  UserID      – owner (worker) of the listing.
//  Title       – listing headline.
//  Description – free-form description.
//  Category    – one of the marketplace categories (plumbing, tutoring, ...).
//  PriceCents  – asking price in cents.
//  Lat/Lng     – listing location.
//  IsActive    – whether the ad is visible in browse results.
type Ad struct {
	ID          uint64    `json:"id"`
	UserID      uint64    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	PriceCents  uint32    `json:"price_cents"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
