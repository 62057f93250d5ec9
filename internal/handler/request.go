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
    "github.com/iliyamo/travel-booking-platform/internal/utils"
)

// RequestHandler covers custom trip requests: clients file them, admins
// assign an agent, the agent responds, the client closes them out.
type RequestHandler struct {
    Requests *repository.RequestRepo
}

func NewRequestHandler(r *repository.RequestRepo) *RequestHandler {
    return &RequestHandler{Requests: r}
}

type createRequestReq struct {
    Destination string  `json:"destination"`
    Description string  `json:"description"`
    Budget      *string `json:"budget"`
}

type respondReq struct {
    Response string `json:"response"`
}

type resolveReq struct {
    Status string `json:"status"` // completed | cancelled
}

// Create files a new pending request for the calling client.
func (h *RequestHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    var req createRequestReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    req.Destination = strings.TrimSpace(req.Destination)
    if req.Destination == "" {
        return fail(c, http.StatusBadRequest, "destination required")
    }
    if req.Budget != nil {
        if _, err := utils.ParseCents(*req.Budget); err != nil {
            return fail(c, http.StatusBadRequest, "invalid budget")
        }
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cr := model.CustomTripRequest{
        ClientID:    uid,
        Destination: req.Destination,
        Description: strings.TrimSpace(req.Description),
        Budget:      req.Budget,
    }
    if err := h.Requests.Create(ctx, &cr); err != nil {
        return mapError(c, err, "request not found")
    }
    return respond(c, http.StatusCreated, "request created", cr)
}

// ListMine returns the calling client's requests.
func (h *RequestHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    reqs, err := h.Requests.ListByClient(ctx, uid)
    if err != nil {
        return mapError(c, err, "requests not found")
    }
    return respond(c, http.StatusOK, "my requests", reqs)
}

// Assigned returns the requests assigned to the calling agent.
func (h *RequestHandler) Assigned(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    reqs, err := h.Requests.ListByAgent(ctx, uid)
    if err != nil {
        return mapError(c, err, "requests not found")
    }
    return respond(c, http.StatusOK, "assigned requests", reqs)
}

// Respond stores the assigned agent's proposal and moves the request to
// responded.
func (h *RequestHandler) Respond(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    requestID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req respondReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Response) == "" {
        return fail(c, http.StatusBadRequest, "response required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cr, err := h.Requests.Respond(ctx, requestID, uid, strings.TrimSpace(req.Response))
    if err != nil {
        return mapError(c, err, "request not found")
    }
    notify(cr.ClientID, model.NotificationRequestResponded,
        "Request answered",
        fmt.Sprintf("An agent responded to your request for %s.", cr.Destination))
    return respond(c, http.StatusOK, "response recorded", cr)
}

// Resolve lets the requesting client complete or cancel their request.
// Completion requires a prior agent response.
func (h *RequestHandler) Resolve(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    requestID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req resolveReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    if status != model.RequestStatusCompleted && status != model.RequestStatusCancelled {
        return fail(c, http.StatusBadRequest, "status must be completed or cancelled")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cr, err := h.Requests.Resolve(ctx, requestID, uid, status)
    if err != nil {
        return mapError(c, err, "request not found")
    }
    return respond(c, http.StatusOK, "request "+cr.Status, cr)
}

// Pending lists unassigned requests for the admin queue.
func (h *RequestHandler) Pending(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    reqs, err := h.Requests.ListPending(ctx)
    if err != nil {
        return mapError(c, err, "requests not found")
    }
    return respond(c, http.StatusOK, "pending requests", reqs)
}

// Assign hands a pending request to an agent. Admin only.
func (h *RequestHandler) Assign(c echo.Context) error {
    requestID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req struct {
        AgentID uint64 `json:"agent_id"`
    }
    if err := c.Bind(&req); err != nil || req.AgentID == 0 {
        return fail(c, http.StatusBadRequest, "agent_id required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    cr, err := h.Requests.Assign(ctx, requestID, req.AgentID)
    if err != nil {
        return mapError(c, err, "request not found")
    }
    notify(req.AgentID, model.NotificationRequestAssigned,
        "Request assigned",
        fmt.Sprintf("You were assigned a custom trip request for %s.", cr.Destination))
    return respond(c, http.StatusOK, "request assigned", cr)
}
