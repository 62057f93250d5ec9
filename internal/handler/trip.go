package handler

import (
    "context"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/model"
    "github.com/iliyamo/travel-booking-platform/internal/repository"
    "github.com/iliyamo/travel-booking-platform/internal/utils"
)

// TripHandler covers agent-side trip management and the public catalog.
type TripHandler struct {
    Trips   *repository.TripRepo
    Reviews *repository.ReviewRepo
}

func NewTripHandler(t *repository.TripRepo, rev *repository.ReviewRepo) *TripHandler {
    return &TripHandler{Trips: t, Reviews: rev}
}

type createTripReq struct {
    Title       string `json:"title"`
    Description string `json:"description"`
    Destination string `json:"destination"`
    Price       string `json:"price"`
    MaxSeats    uint32 `json:"max_seats"`
    StartDate   string `json:"start_date"` // YYYY-MM-DD
    EndDate     string `json:"end_date"`   // YYYY-MM-DD
}

type updateTripReq struct {
    Title       *string `json:"title"`
    Description *string `json:"description"`
    Destination *string `json:"destination"`
    Price       *string `json:"price"`
    Status      *string `json:"status"` // active | inactive
}

const dateLayout = "2006-01-02"

// Create lists a new trip for the calling agent. AvailableSeats starts
// at MaxSeats.
func (h *TripHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    var req createTripReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    req.Title = strings.TrimSpace(req.Title)
    req.Destination = strings.TrimSpace(req.Destination)
    if req.Title == "" || req.Destination == "" {
        return fail(c, http.StatusBadRequest, "title and destination required")
    }
    if req.MaxSeats == 0 {
        return fail(c, http.StatusBadRequest, "max_seats must be positive")
    }
    if _, err := utils.ParseCents(req.Price); err != nil {
        return fail(c, http.StatusBadRequest, "invalid price")
    }
    start, err := time.Parse(dateLayout, req.StartDate)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid start_date")
    }
    end, err := time.Parse(dateLayout, req.EndDate)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid end_date")
    }
    if end.Before(start) {
        return fail(c, http.StatusBadRequest, "end_date before start_date")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    trip := model.Trip{
        AgentID:     uid,
        Title:       req.Title,
        Description: strings.TrimSpace(req.Description),
        Destination: req.Destination,
        Price:       req.Price,
        MaxSeats:    req.MaxSeats,
        StartDate:   start,
        EndDate:     end,
    }
    if err := h.Trips.Create(ctx, &trip); err != nil {
        return mapError(c, err, "trip not found")
    }
    return respond(c, http.StatusCreated, "trip created", trip)
}

// ListPublic is the public catalog of active trips, optionally filtered
// by ?destination= substring.
func (h *TripHandler) ListPublic(c echo.Context) error {
    limit, _ := strconv.Atoi(c.QueryParam("limit"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    trips, err := h.Trips.ListActive(ctx, strings.TrimSpace(c.QueryParam("destination")), limit)
    if err != nil {
        return mapError(c, err, "trips not found")
    }
    return respond(c, http.StatusOK, "trips", trips)
}

// Get returns one non-deleted trip.
func (h *TripHandler) Get(c echo.Context) error {
    id, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    trip, err := h.Trips.GetByID(ctx, id)
    if err != nil {
        return mapError(c, err, "trip not found")
    }
    return respond(c, http.StatusOK, "trip", trip)
}

// ListMine returns the calling agent's trips, all statuses except
// deleted.
func (h *TripHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    trips, err := h.Trips.ListByAgent(ctx, uid)
    if err != nil {
        return mapError(c, err, "trips not found")
    }
    return respond(c, http.StatusOK, "my trips", trips)
}

// Update patches a trip owned by the calling agent. Status may only be
// toggled between active and inactive here.
func (h *TripHandler) Update(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    tripID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req updateTripReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.Price != nil {
        if _, err := utils.ParseCents(*req.Price); err != nil {
            return fail(c, http.StatusBadRequest, "invalid price")
        }
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    trip, err := h.Trips.Update(ctx, tripID, uid, repository.TripPatch{
        Title:       req.Title,
        Description: req.Description,
        Destination: req.Destination,
        Price:       req.Price,
        Status:      req.Status,
    })
    if err != nil {
        return mapError(c, err, "trip not found")
    }
    return respond(c, http.StatusOK, "trip updated", trip)
}

// Delete soft deletes a trip that has no bookings.
func (h *TripHandler) Delete(c echo.Context) error {
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

    if err := h.Trips.SoftDelete(ctx, tripID, uid); err != nil {
        return mapError(c, err, "trip not found")
    }
    return respond(c, http.StatusOK, "trip deleted", nil)
}

// ListReviews returns the reviews of a trip, public.
func (h *TripHandler) ListReviews(c echo.Context) error {
    tripID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    reviews, err := h.Reviews.ListByTrip(ctx, tripID)
    if err != nil {
        return mapError(c, err, "trip not found")
    }
    return respond(c, http.StatusOK, "reviews", reviews)
}
