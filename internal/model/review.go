package model

import "time"

// Review mirrors a row of the `reviews` table.  A customer may leave
// exactly one review per completed booking; the unique key on
// booking_id enforces this at the database level.
//
// Fields:
//  ID         – primary key identifier.
//  AdID       – reviewed listing.
//  BookingID  – completed booking the review belongs to.
//  ReviewerID – customer who wrote it.
//  WorkerID   – worker being rated.
//  Rating     – 1..5 stars.
//  Comment    – optional free text.
type Review struct {
	ID         uint64    `json:"id"`
	AdID       uint64    `json:"ad_id"`
	BookingID  uint64    `json:"booking_id"`
	ReviewerID uint64    `json:"reviewer_id"`
	WorkerID   uint64    `json:"worker_id"`
	Rating     uint8     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}
