// Package repository defines sentinel errors shared across the data
// access layer.  Handlers compare against these values with errors.Is
// to choose the HTTP status for a failed operation.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource owned by someone else, such as a worker updating a booking
// that belongs to a different worker.  Maps to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// existing state, such as reviewing a booking twice.  Maps to HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrConcurrentModification is returned when a status update loses a
// race: the row's status no longer matches the value the transition was
// validated against.  The caller should re-read and retry.  Maps to
// HTTP 409.
var ErrConcurrentModification = errors.New("concurrent modification")
