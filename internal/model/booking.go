package model

import "time"

// Booking statuses.  The pending → confirmed and confirmed → completed
// transitions are driven externally (agent or admin action); the
// service validates only that the booking exists and the target status
// is a legal enum value.
const (
    BookingStatusPending   = "pending"
    BookingStatusConfirmed = "confirmed"
    BookingStatusCancelled = "cancelled"
    BookingStatusCompleted = "completed"
)

// Payment statuses tracked alongside a booking.  Payment confirmation
// itself is an external collaborator.
const (
    PaymentStatusPending = "pending"
    PaymentStatusPaid    = "paid"
)

// Booking records a client's reservation of seats on a trip.
// TotalPrice is captured at booking time as trip price × seats and is
// never recomputed, even if the trip price changes later.
//
// Fields:
//  ID                 – primary key identifier.
//  TripID             – trip being booked.
//  ClientID           – user who made the booking.
//  SeatsBooked        – number of seats reserved.
//  TotalPrice         – total price as a decimal string, fixed at booking time.
//  Status             – pending, confirmed, cancelled or completed.
//  PaymentStatus      – pending or paid.
//  CancellationDate   – when the booking was cancelled (null if not).
//  CancellationReason – optional reason supplied by the client.
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last update timestamp.
type Booking struct {
    ID                 uint64     `json:"id"`                            // bookings.id
    TripID             uint64     `json:"trip_id"`                       // bookings.trip_id
    ClientID           uint64     `json:"client_id"`                     // bookings.client_id
    SeatsBooked        uint32     `json:"seats_booked"`                  // bookings.seats_booked
    TotalPrice         string     `json:"total_price"`                   // bookings.total_price (DECIMAL as string)
    Status             string     `json:"status"`                        // bookings.status
    PaymentStatus      string     `json:"payment_status"`                // bookings.payment_status
    CancellationDate   *time.Time `json:"cancellation_date,omitempty"`   // bookings.cancellation_date (nullable)
    CancellationReason *string    `json:"cancellation_reason,omitempty"` // bookings.cancellation_reason (nullable)
    CreatedAt          time.Time  `json:"created_at"`                    // bookings.created_at
    UpdatedAt          time.Time  `json:"updated_at"`                    // bookings.updated_at
}

// Review belongs to a completed booking, one per booking.  Each insert
// triggers a full recompute of the parent trip's rating aggregates.
//
// Fields:
//  ID        – primary key identifier.
//  BookingID – completed booking the review is for.
//  TripID    – trip being reviewed.
//  ClientID  – author of the review.
//  Rating    – integer rating from 1 to 5.
//  Comment   – optional free‑form comment.
//  CreatedAt – creation timestamp.
type Review struct {
    ID        uint64    `json:"id"`                // reviews.id
    BookingID uint64    `json:"booking_id"`        // reviews.booking_id
    TripID    uint64    `json:"trip_id"`           // reviews.trip_id
    ClientID  uint64    `json:"client_id"`         // reviews.client_id
    Rating    uint8     `json:"rating"`            // reviews.rating
    Comment   *string   `json:"comment,omitempty"` // reviews.comment (nullable)
    CreatedAt time.Time `json:"created_at"`        // reviews.created_at
}
