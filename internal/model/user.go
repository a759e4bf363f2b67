package model

import "time"

// User mirrors a row of the `users` table.  Profile fields (full name,
// phone) are snapshotted into booking-request notifications so workers
// can reach the customer even after a profile edit.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique login email, stored lowercased.
//  PasswordHash – bcrypt hash; never serialized.
//  Role         – CUSTOMER or WORKER, carried into the access token.
//  FullName     – display name shown on ads, reviews and the feed.
//  Phone        – contact number shared with the booked party.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FullName     string    `json:"full_name"`
	Phone        string    `json:"phone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
