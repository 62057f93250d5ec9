// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by
// someone else, while ErrHasApplications signals that a delete
// cannot proceed due to existing dependent records.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidPackage is returned by the ledger when a purchase names a
// package ID that is not part of the fixed catalog.
var ErrInvalidPackage = errors.New("invalid token package")

// ErrInsufficientTokens is returned when a debit would take a token
// balance below zero. The balance is left untouched.
var ErrInsufficientTokens = errors.New("insufficient token balance")

// ErrInsufficientSeats is returned when a booking requests more seats
// than the trip currently has available.
var ErrInsufficientSeats = errors.New("insufficient seats available")

// ErrDuplicateApplication is returned when an applicant already has an
// application on the target job.
var ErrDuplicateApplication = errors.New("application already exists")

// ErrNotOpen is returned when a job mutation requires the job to still
// be in the open state.
var ErrNotOpen = errors.New("job is not open")

// ErrHasApplications blocks deleting a job that has received at least
// one application.
var ErrHasApplications = errors.New("job has applications")

// ErrHasBookings blocks deleting a trip that has bookings.
var ErrHasBookings = errors.New("trip has bookings")

// ErrAlreadyCancelled is returned when cancelling a booking that is
// already in the cancelled state.
var ErrAlreadyCancelled = errors.New("booking already cancelled")

// ErrDuplicateReview is returned when a booking already has a review.
var ErrDuplicateReview = errors.New("review already exists")

// ErrBadTransition is returned for booking or request status updates
// that name an unknown target state.
var ErrBadTransition = errors.New("invalid status transition")
