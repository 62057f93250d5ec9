package model

import "time"

// Notification types emitted by the platform.
const (
    NotificationBookingCreated   = "booking_created"
    NotificationBookingCancelled = "booking_cancelled"
    NotificationBookingStatus    = "booking_status"
    NotificationJobFilled        = "job_filled"
    NotificationJobApplication   = "job_application"
    NotificationRequestAssigned  = "request_assigned"
    NotificationRequestResponded = "request_responded"
)

// Notification is a best‑effort in‑app notification row.  Creation is
// fire‑and‑forget and never transactionally tied to the operation that
// triggered it.
type Notification struct {
    ID        uint64    `json:"id"`         // notifications.id
    UserID    uint64    `json:"user_id"`    // notifications.user_id
    Type      string    `json:"type"`       // notifications.type
    Title     string    `json:"title"`      // notifications.title
    Body      string    `json:"body"`       // notifications.body
    IsRead    bool      `json:"is_read"`    // notifications.is_read
    CreatedAt time.Time `json:"created_at"` // notifications.created_at
}

// ContactMessage is a message submitted through the public contact
// form.  Admins list and read them; nothing else consumes them.
type ContactMessage struct {
    ID        uint64    `json:"id"`         // contact_messages.id
    Name      string    `json:"name"`       // contact_messages.name
    Email     string    `json:"email"`      // contact_messages.email
    Subject   string    `json:"subject"`    // contact_messages.subject
    Message   string    `json:"message"`    // contact_messages.message
    CreatedAt time.Time `json:"created_at"` // contact_messages.created_at
}
