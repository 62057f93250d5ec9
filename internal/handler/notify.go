package handler

import (
    "context"
    "log"
    "time"

    "github.com/iliyamo/travel-booking-platform/internal/queue"
    queue_publisher "github.com/iliyamo/travel-booking-platform/internal/service"
)

// notify publishes a notification event without blocking the request.
// Delivery is best effort: a broker failure is logged and swallowed so
// the triggering operation still succeeds.
func notify(userID uint64, typ, title, body string) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        err := queue_publisher.PublishNotification(ctx, queue.NotificationEvent{
            UserID: userID,
            Type:   typ,
            Title:  title,
            Body:   body,
        })
        if err != nil {
            log.Printf("notification publish failed (type=%s user=%d): %v", typ, userID, err)
        }
    }()
}
