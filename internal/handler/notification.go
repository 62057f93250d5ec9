package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/repository"
)

// NotificationHandler lists a user's notifications and marks them read.
type NotificationHandler struct {
    Notifications *repository.NotificationRepo
}

func NewNotificationHandler(n *repository.NotificationRepo) *NotificationHandler {
    return &NotificationHandler{Notifications: n}
}

// List returns the caller's notifications newest first.
func (h *NotificationHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    limit, _ := strconv.Atoi(c.QueryParam("limit"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    items, err := h.Notifications.ListByUser(ctx, uid, limit)
    if err != nil {
        return mapError(c, err, "notifications not found")
    }
    return respond(c, http.StatusOK, "notifications", items)
}

// MarkRead flips one owned notification to read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    id, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Notifications.MarkRead(ctx, id, uid); err != nil {
        return mapError(c, err, "notification not found")
    }
    return respond(c, http.StatusOK, "notification read", nil)
}
