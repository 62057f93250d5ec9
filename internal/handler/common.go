package handler // handler defines http handlers

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/travel-booking-platform/internal/repository"
)

// respond writes the success envelope {message, data}.
func respond(c echo.Context, status int, message string, data interface{}) error {
    return c.JSON(status, echo.Map{"message": message, "data": data})
}

// fail writes the failure envelope {message, error}. The human-readable
// message doubles as the wire-level error description.
func fail(c echo.Context, status int, message string) error {
    return c.JSON(status, echo.Map{"message": message, "error": message})
}

// mapError translates repository errors into HTTP responses. Ownership
// violations become 403, missing or filtered-out entities 404, and
// every precondition/state-conflict failure is collapsed to 400.
func mapError(c echo.Context, err error, notFoundMsg string) error {
    switch {
    case errors.Is(err, sql.ErrNoRows):
        return fail(c, http.StatusNotFound, notFoundMsg)
    case errors.Is(err, repository.ErrForbidden):
        return fail(c, http.StatusForbidden, "forbidden")
    case errors.Is(err, repository.ErrInvalidPackage),
        errors.Is(err, repository.ErrInsufficientTokens),
        errors.Is(err, repository.ErrInsufficientSeats),
        errors.Is(err, repository.ErrDuplicateApplication),
        errors.Is(err, repository.ErrNotOpen),
        errors.Is(err, repository.ErrHasApplications),
        errors.Is(err, repository.ErrHasBookings),
        errors.Is(err, repository.ErrAlreadyCancelled),
        errors.Is(err, repository.ErrDuplicateReview),
        errors.Is(err, repository.ErrBadTransition):
        return fail(c, http.StatusBadRequest, err.Error())
    default:
        return fail(c, http.StatusInternalServerError, "internal error")
    }
}

// getUserID extracts the user_id from echo.Context and converts it to uint64
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// getRole extracts the role claim stored by the JWT middleware.
func getRole(c echo.Context) string {
    if r, ok := c.Get("role").(string); ok {
        return r
    }
    return ""
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid " + name)
    }
    return id, nil
}
