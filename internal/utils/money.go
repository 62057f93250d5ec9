package utils

import (
    "errors"
    "fmt"
    "strings"
)

// Money values travel through the API and the database as fixed-point
// decimal strings ("149.50") and are never represented as floats.
// Arithmetic is done in integer cents.

// ErrBadDecimal is returned when a string does not parse as a decimal
// amount with at most two fraction digits.
var ErrBadDecimal = errors.New("invalid decimal amount")

// ParseCents converts a decimal string like "149.50" into cents.
// At most two fraction digits are accepted; negative amounts are
// rejected since no money field in the system may go below zero.
func ParseCents(s string) (int64, error) {
    s = strings.TrimSpace(s)
    if s == "" || strings.HasPrefix(s, "-") {
        return 0, ErrBadDecimal
    }
    whole, frac := s, ""
    if i := strings.IndexByte(s, '.'); i >= 0 {
        whole, frac = s[:i], s[i+1:]
    }
    if whole == "" || len(frac) > 2 {
        return 0, ErrBadDecimal
    }
    var n int64
    for _, r := range whole {
        if r < '0' || r > '9' {
            return 0, ErrBadDecimal
        }
        n = n*10 + int64(r-'0')
        if n > 1<<50 {
            return 0, ErrBadDecimal
        }
    }
    cents := n * 100
    mul := int64(10)
    for _, r := range frac {
        if r < '0' || r > '9' {
            return 0, ErrBadDecimal
        }
        cents += int64(r-'0') * mul
        mul /= 10
    }
    return cents, nil
}

// FormatCents renders cents as a two-decimal string, e.g. 14950 -> "149.50".
func FormatCents(cents int64) string {
    sign := ""
    if cents < 0 {
        sign = "-"
        cents = -cents
    }
    return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// MulCents multiplies a per-unit amount in cents by a quantity.
func MulCents(cents int64, qty uint32) int64 {
    return cents * int64(qty)
}
