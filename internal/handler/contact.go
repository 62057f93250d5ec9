package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/model"
    "github.com/iliyamo/travel-booking-platform/internal/repository"
)

// ContactHandler accepts messages from the public contact form.
type ContactHandler struct {
    Contacts *repository.ContactRepo
}

func NewContactHandler(r *repository.ContactRepo) *ContactHandler {
    return &ContactHandler{Contacts: r}
}

type contactReq struct {
    Name    string `json:"name"`
    Email   string `json:"email"`
    Subject string `json:"subject"`
    Message string `json:"message"`
}

// Submit stores a contact message. No auth required.
func (h *ContactHandler) Submit(c echo.Context) error {
    var req contactReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body")
    }
    req.Name = strings.TrimSpace(req.Name)
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.Message = strings.TrimSpace(req.Message)
    if req.Name == "" || req.Email == "" || req.Message == "" {
        return fail(c, http.StatusBadRequest, "name, email and message required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    msg := model.ContactMessage{
        Name:    req.Name,
        Email:   req.Email,
        Subject: strings.TrimSpace(req.Subject),
        Message: req.Message,
    }
    if err := h.Contacts.Create(ctx, &msg); err != nil {
        return mapError(c, err, "contact not found")
    }
    return respond(c, http.StatusCreated, "message received", msg)
}
