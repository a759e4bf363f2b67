package model

import "time"

// ActivityType enumerates the events surfaced on the social feed.  The
// value selects the shape of the Content payload.
type ActivityType string

const (
	ActivityNewService       ActivityType = "new_service"
	ActivityNewBooking       ActivityType = "new_booking"
	ActivityCompletedBooking ActivityType = "completed_booking"
	ActivityReceivedReview   ActivityType = "received_review"
	ActivitySentMessage      ActivityType = "sent_message"
)

// Feed visibility values.  Private activities are shown only to the
// actor themselves; public activities appear in everyone's feed.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// FeedActivity mirrors a row of the `feed_activities` table.  Rows are
// write-once and append-only; nothing in the system mutates or deletes
// them.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – actor who caused the event.
//  ActivityType – content discriminator.
//  Content      – serialized payload matching ActivityType.
//  Visibility   – public or private.
type FeedActivity struct {
	ID           uint64       `json:"id"`
	UserID       uint64       `json:"user_id"`
	ActivityType ActivityType `json:"activity_type"`
	Content      []byte       `json:"content,omitempty"`
	Visibility   string       `json:"visibility"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewServiceContent describes a freshly published ad.
type NewServiceContent struct {
	AdID       uint64 `json:"ad_id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	PriceCents uint32 `json:"price"`
}

// BookingActivityContent describes a booking event (new_booking,
// completed_booking).
type BookingActivityContent struct {
	BookingID    uint64 `json:"booking_id"`
	AdID         uint64 `json:"ad_id"`
	ServiceTitle string `json:"service_title"`
}

// ReviewActivityContent describes a received_review event.
type ReviewActivityContent struct {
	AdID         uint64 `json:"ad_id"`
	ServiceTitle string `json:"service_title"`
	Rating       uint8  `json:"rating"`
}

// MessageActivityContent describes a sent_message event.  Message
// bodies are not copied into the feed.
type MessageActivityContent struct {
	ConversationID string `json:"conversation_id"`
	RecipientID    uint64 `json:"recipient_id"`
}
