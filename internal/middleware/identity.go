package middleware

// identity.go defines helper functions shared across middleware files.
// Currently it provides a user identifier lookup reading the claims that
// JWTAuth stores in the Echo context. When no user is authenticated,
// "anon" is returned so rate-limit keys still group unauthenticated
// traffic sensibly.

import (
    "fmt"

    "github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user's ID as a string, or
// "anon" when the request carries no identity. The JWT middleware stores
// the subject claim under "user_id"; a numeric claim is formatted, a
// string claim is passed through.
func currentUserID(c echo.Context) string {
    v := c.Get("user_id")
    if v == nil {
        return "anon"
    }
    switch t := v.(type) {
    case string:
        if t != "" {
            return t
        }
    case float64:
        return fmt.Sprintf("%.0f", t)
    case int, int64, uint64:
        return fmt.Sprint(t)
    }
    return "anon"
}
