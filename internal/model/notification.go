package model

import "time"

// NotificationType enumerates the kinds of notification a user can
// receive.  The value selects the shape of the Data payload.
type NotificationType string

const (
	NotificationTypeMessage         NotificationType = "message"
	NotificationTypeBookingRequest  NotificationType = "booking_request"
	NotificationTypeBookingResponse NotificationType = "booking_response"
	NotificationTypeRating          NotificationType = "rating"
	NotificationTypeGeneral         NotificationType = "general"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeMessage, NotificationTypeBookingRequest,
		NotificationTypeBookingResponse, NotificationTypeRating,
		NotificationTypeGeneral:
		return true
	}
	return false
}

// Notification mirrors a row of the `notifications` table.  Each
// notification addresses exactly one user and is written exactly once
// by the action that triggered it.  The only permitted mutation is
// flipping Read; rows are never deleted.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – recipient.
//  Type      – payload discriminator.
//  Title     – short headline shown in the notification list.
//  Message   – body text.
//  Read      – whether the recipient opened it.
//  Data      – serialized payload, shape depends on Type.
type Notification struct {
	ID        uint64           `json:"id"`
	UserID    uint64           `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Data      []byte           `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// BookingRequestData is the payload carried by a `booking_request`
// notification.  It snapshots the customer's contact details so the
// worker can respond even if the profile changes later.
type BookingRequestData struct {
	BookingID     uint64 `json:"booking_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email"`
	AdTitle       string `json:"ad_title"`
	AdPriceCents  uint32 `json:"ad_price"`
	Message       string `json:"message"`
	ServiceDate   string `json:"service_date,omitempty"`
}

// BookingResponseData is the payload carried by a `booking_response`
// notification.  Action is the status the worker chose, "accepted" or
// "rejected".
type BookingResponseData struct {
	BookingID    uint64 `json:"booking_id"`
	Action       string `json:"action"`
	ServiceTitle string `json:"service_title"`
}

// MessageData is the payload carried by a `message` notification.
type MessageData struct {
	SenderID       uint64 `json:"sender_id"`
	SenderName     string `json:"sender_name"`
	ConversationID string `json:"conversation_id"`
}

// RatingData is the payload carried by a `rating` notification sent to
// a worker when a customer reviews a completed booking.
type RatingData struct {
	BookingID uint64 `json:"booking_id"`
	AdID      uint64 `json:"ad_id"`
	Rating    uint8  `json:"rating"`
}
