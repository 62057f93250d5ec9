package model

import "time"

// Statuses for a trip listing.  Deleted is a soft state; the row is
// kept for bookings that already reference it.
const (
    TripStatusActive   = "active"
    TripStatusInactive = "inactive"
    TripStatusDeleted  = "deleted"
)

// Trip represents a listed trip owned by an agent.  AvailableSeats is
// the denormalized remaining capacity, decremented on booking and
// restored on cancellation.  AverageRating and TotalReviews are
// denormalized aggregates recomputed from the reviews table after each
// submitted review.
//
// Fields:
//  ID             – primary key identifier.
//  AgentID        – user ID of the owning agent.
//  Title          – short title of the trip.
//  Description    – longer free‑form description.
//  Destination    – destination name.
//  Price          – per‑seat price as a decimal string ("149.50").
//  MaxSeats       – total capacity.
//  AvailableSeats – remaining capacity, 0 <= AvailableSeats <= MaxSeats.
//  StartDate      – departure date.
//  EndDate        – return date.
//  Status         – active, inactive or deleted.
//  AverageRating  – mean rating across active reviews, 2 decimals.
//  TotalReviews   – number of active reviews.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Trip struct {
    ID             uint64    `json:"id"`              // trips.id
    AgentID        uint64    `json:"agent_id"`        // trips.agent_id
    Title          string    `json:"title"`           // trips.title
    Description    string    `json:"description"`     // trips.description
    Destination    string    `json:"destination"`     // trips.destination
    Price          string    `json:"price"`           // trips.price (DECIMAL as string)
    MaxSeats       uint32    `json:"max_seats"`       // trips.max_seats
    AvailableSeats uint32    `json:"available_seats"` // trips.available_seats
    StartDate      time.Time `json:"start_date"`      // trips.start_date
    EndDate        time.Time `json:"end_date"`        // trips.end_date
    Status         string    `json:"status"`          // trips.status
    AverageRating  float64   `json:"average_rating"`  // trips.average_rating
    TotalReviews   uint32    `json:"total_reviews"`   // trips.total_reviews
    CreatedAt      time.Time `json:"created_at"`      // trips.created_at
    UpdatedAt      time.Time `json:"updated_at"`      // trips.updated_at
}
