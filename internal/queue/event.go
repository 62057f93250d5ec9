// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationEvent is published whenever a domain action should leave
// an in-app notification behind (booking created/cancelled, job
// filled, request assigned, ...). It carries everything the consumer
// needs to write the notification row without querying the primary
// database. Delivery is best effort; the publishing request never
// fails because of the broker.
type NotificationEvent struct {
    UserID     uint64 `json:"user_id"`
    Type       string `json:"type"`
    Title      string `json:"title"`
    Body       string `json:"body"`
    OccurredAt string `json:"occurred_at"`
}
