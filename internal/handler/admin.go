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
)

// AdminHandler bundles the admin panel: token grants and statistics,
// user management and the contact-message inbox.
type AdminHandler struct {
    Users    *repository.UserRepo
    Ledger   *repository.LedgerRepo
    Contacts *repository.ContactRepo
}

func NewAdminHandler(u *repository.UserRepo, l *repository.LedgerRepo, ct *repository.ContactRepo) *AdminHandler {
    return &AdminHandler{Users: u, Ledger: l, Contacts: ct}
}

type grantReq struct {
    UserID      uint64 `json:"user_id"`
    Amount      int64  `json:"amount"`
    Description string `json:"description"`
}

type userStatusReq struct {
    Status string `json:"status"` // active | suspended | deleted
}

// adminUserPart is the user projection for the admin list; the password
// hash never leaves the repository layer.
type adminUserPart struct {
    ID        uint64    `json:"id"`
    Email     string    `json:"email"`
    Name      string    `json:"name"`
    Role      string    `json:"role"`
    Status    string    `json:"status"`
    CreatedAt time.Time `json:"created_at"`
}

// GrantTokens credits tokens to any user, logged as admin_grant.
func (h *AdminHandler) GrantTokens(c echo.Context) error {
    var req grantReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    if req.UserID == 0 || req.Amount <= 0 {
        return fail(c, http.StatusBadRequest, "user_id and positive amount required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if _, err := h.Users.GetByID(ctx, req.UserID); err != nil {
        return mapError(c, err, "user not found")
    }
    desc := strings.TrimSpace(req.Description)
    if desc == "" {
        desc = "Administrative token grant"
    }
    bal, err := h.Ledger.Grant(ctx, req.UserID, req.Amount, desc)
    if err != nil {
        return mapError(c, err, "user not found")
    }
    return respond(c, http.StatusOK, "tokens granted", bal)
}

// TokenStats reports the token economy aggregates.
func (h *AdminHandler) TokenStats(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    stats, err := h.Ledger.Statistics(ctx)
    if err != nil {
        return mapError(c, err, "statistics not found")
    }
    return respond(c, http.StatusOK, "token statistics", stats)
}

// ListUsers returns users newest first, optionally filtered by ?role=.
func (h *AdminHandler) ListUsers(c echo.Context) error {
    limit, _ := strconv.Atoi(c.QueryParam("limit"))
    role := strings.ToLower(strings.TrimSpace(c.QueryParam("role")))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    users, err := h.Users.List(ctx, role, limit)
    if err != nil {
        return mapError(c, err, "users not found")
    }
    out := make([]adminUserPart, 0, len(users))
    for _, u := range users {
        out = append(out, adminUserPart{
            ID: u.ID, Email: u.Email, Name: u.Name,
            Role: u.Role, Status: u.Status, CreatedAt: u.CreatedAt,
        })
    }
    return respond(c, http.StatusOK, "users", out)
}

// SetUserStatus suspends, reactivates or soft deletes an account.
func (h *AdminHandler) SetUserStatus(c echo.Context) error {
    userID, err := pathID(c, "id")
    if err != nil {
        return fail(c, http.StatusBadRequest, err.Error())
    }
    var req userStatusReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    status := strings.ToLower(strings.TrimSpace(req.Status))
    switch status {
    case model.UserStatusActive, model.UserStatusSuspended, model.UserStatusDeleted:
    default:
        return fail(c, http.StatusBadRequest, "status must be active, suspended or deleted")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Users.SetStatus(ctx, userID, status); err != nil {
        return mapError(c, err, "user not found")
    }
    return respond(c, http.StatusOK, "user "+status, nil)
}

// ContactMessages lists the public contact-form inbox.
func (h *AdminHandler) ContactMessages(c echo.Context) error {
    limit, _ := strconv.Atoi(c.QueryParam("limit"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    msgs, err := h.Contacts.List(ctx, limit)
    if err != nil {
        return mapError(c, err, "messages not found")
    }
    return respond(c, http.StatusOK, "contact messages", msgs)
}
