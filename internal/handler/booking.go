package handler

import (
    "context"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/model"
    "github.com/iliyamo/travel-booking-platform/internal/repository"
)

// BookingHandler covers the client booking flow, the externally driven
// status transitions and review submission.
type BookingHandler struct {
    Bookings *repository.BookingRepo
    Trips    *repository.TripRepo
    Reviews  *repository.ReviewRepo
}

func NewBookingHandler(b *repository.BookingRepo, t *repository.TripRepo, rev *repository.ReviewRepo) *BookingHandler {
    return &BookingHandler{Bookings: b, Trips: t, Reviews: rev}
}

type bookReq struct {
    Seats uint32 `json:"seats"`
}

type cancelReq struct {
    Reason string `json:"reason"`
}

type bookingStatusReq struct {
    Status string `json:"status"` // confirmed | completed
}

type reviewReq struct {
    BookingID uint64  `json:"booking_id"`
    Rating    uint8   `json:"rating"`
    Comment   *string `json:"comment"`
}

// Book reserves seats on an active trip. The seat decrement is an
// atomic conditional update, so concurrent bookings cannot oversell.
func (h *BookingHandler) Book(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    tripID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req bookReq
    if err := c.Bind(&req); err != nil || req.Seats == 0 {
        return fail(c, http.StatusBadRequest, "seats must be positive")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    booking, err := h.Bookings.Book(ctx, tripID, uid, req.Seats)
    if err != nil {
        return mapError(c, err, "trip not found")
    }
    if trip, err := h.Trips.GetByID(ctx, tripID); err == nil {
        notify(trip.AgentID, model.NotificationBookingCreated,
            "New booking",
            fmt.Sprintf("Trip %q received a booking for %d seat(s).", trip.Title, req.Seats))
    }
    return respond(c, http.StatusCreated, "booking created", booking)
}

// Cancel cancels the caller's own booking and restores the seats.
func (h *BookingHandler) Cancel(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    bookingID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req cancelReq
    _ = c.Bind(&req)

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    booking, err := h.Bookings.Cancel(ctx, bookingID, uid, strings.TrimSpace(req.Reason))
    if err != nil {
        return mapError(c, err, "booking not found")
    }
    if trip, err := h.Trips.GetByID(ctx, booking.TripID); err == nil {
        notify(trip.AgentID, model.NotificationBookingCancelled,
            "Booking cancelled",
            fmt.Sprintf("A booking on trip %q was cancelled, %d seat(s) released.", trip.Title, booking.SeatsBooked))
    }
    return respond(c, http.StatusOK, "booking cancelled", booking)
}

// SetStatus is the external trigger that moves a booking to confirmed
// or completed. Admins may transition any booking; agents only those
// on their own trips.
func (h *BookingHandler) SetStatus(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    bookingID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req bookingStatusReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    var actor *uint64
    if getRole(c) == model.RoleAgent {
        actor = &uid
    }
    booking, err := h.Bookings.SetStatus(ctx, bookingID, strings.ToLower(strings.TrimSpace(req.Status)), actor)
    if err != nil {
        return mapError(c, err, "booking not found")
    }
    notify(booking.ClientID, model.NotificationBookingStatus,
        "Booking "+booking.Status,
        fmt.Sprintf("Your booking #%d is now %s.", booking.ID, booking.Status))
    return respond(c, http.StatusOK, "booking status updated", booking)
}

// Get returns one of the caller's own bookings.
func (h *BookingHandler) Get(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    bookingID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    booking, err := h.Bookings.GetForClient(ctx, bookingID, uid)
    if err != nil {
        return mapError(c, err, "booking not found")
    }
    return respond(c, http.StatusOK, "booking", booking)
}

// ListMine returns the caller's bookings newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bookings, err := h.Bookings.ListByClient(ctx, uid)
    if err != nil {
        return mapError(c, err, "bookings not found")
    }
    return respond(c, http.StatusOK, "my bookings", bookings)
}

// TripBookings lists the bookings of a trip for its owning agent.
func (h *BookingHandler) TripBookings(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    tripID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bookings, err := h.Bookings.ListByTrip(ctx, tripID, uid)
    if err != nil {
        return mapError(c, err, "trip not found")
    }
    return respond(c, http.StatusOK, "trip bookings", bookings)
}

// SubmitReview records a review for the caller's completed booking on
// this trip and recomputes the trip's rating aggregates.
func (h *BookingHandler) SubmitReview(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    tripID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req reviewReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.BookingID == 0 {
        return fail(c, http.StatusBadRequest, "booking_id required")
    }
    if req.Rating < 1 || req.Rating > 5 {
        return fail(c, http.StatusBadRequest, "rating must be between 1 and 5")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    review := model.Review{
        BookingID: req.BookingID,
        TripID:    tripID,
        ClientID:  uid,
        Rating:    req.Rating,
        Comment:   req.Comment,
    }
    if err := h.Reviews.Submit(ctx, &review); err != nil {
        return mapError(c, err, "booking not found")
    }
    return respond(c, http.StatusCreated, "review submitted", review)
}
