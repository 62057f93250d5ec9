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

// TokenHandler exposes the token wallet: balance, package catalog,
// purchases and the transaction history.
type TokenHandler struct {
    Ledger *repository.LedgerRepo
}

func NewTokenHandler(l *repository.LedgerRepo) *TokenHandler {
    return &TokenHandler{Ledger: l}
}

type purchaseReq struct {
    PackageID  string `json:"package_id"`
    PaymentRef string `json:"payment_ref"`
}

// Balance returns the caller's current token balance, creating the
// zero-balance row on first access.
func (h *TokenHandler) Balance(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bal, err := h.Ledger.GetOrCreateBalance(ctx, uid)
    if err != nil {
        return mapError(c, err, "balance not found")
    }
    return respond(c, http.StatusOK, "balance", bal)
}

// Packages lists the fixed purchase catalog.
func (h *TokenHandler) Packages(c echo.Context) error {
    return respond(c, http.StatusOK, "packages", model.Packages())
}

// Purchase credits a package's tokens plus bonus to the caller.
func (h *TokenHandler) Purchase(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    var req purchaseReq
    if err := c.Bind(&req); err != nil || strings.TrimSpace(req.PackageID) == "" {
        return fail(c, http.StatusBadRequest, "package_id required")
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    bal, txn, err := h.Ledger.Purchase(ctx, uid, strings.TrimSpace(req.PackageID), strings.TrimSpace(req.PaymentRef))
    if err != nil {
        return mapError(c, err, "package not found")
    }
    return respond(c, http.StatusCreated, "tokens purchased", echo.Map{
        "balance":     bal,
        "transaction": txn,
    })
}

// History lists the caller's ledger entries newest first. ?limit=N caps
// the page size.
func (h *TokenHandler) History(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return fail(c, http.StatusUnauthorized, "unauthorized")
    }
    limit, _ := strconv.Atoi(c.QueryParam("limit"))

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    txns, err := h.Ledger.History(ctx, uid, limit)
    if err != nil {
        return mapError(c, err, "history not found")
    }
    return respond(c, http.StatusOK, "transactions", txns)
}
