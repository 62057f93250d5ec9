package utils

import (
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestParseCents(t *testing.T) {
    cases := []struct {
        in    string
        cents int64
        ok    bool
    }{
        {"149.50", 14950, true},
        {"9.99", 999, true},
        {"0.05", 5, true},
        {"100", 10000, true},
        {"100.5", 10050, true},
        {" 42.00 ", 4200, true},
        {"", 0, false},
        {"-1.00", 0, false},
        {"1.234", 0, false},
        {".50", 0, false},
        {"abc", 0, false},
        {"12.x", 0, false},
    }
    for _, tc := range cases {
        got, err := ParseCents(tc.in)
        if !tc.ok {
            assert.ErrorIs(t, err, ErrBadDecimal, "input %q", tc.in)
            continue
        }
        require.NoError(t, err, "input %q", tc.in)
        assert.Equal(t, tc.cents, got, "input %q", tc.in)
    }
}

func TestFormatCents(t *testing.T) {
    assert.Equal(t, "149.50", FormatCents(14950))
    assert.Equal(t, "0.05", FormatCents(5))
    assert.Equal(t, "0.00", FormatCents(0))
    assert.Equal(t, "-3.25", FormatCents(-325))
}

func TestMulCentsRoundTrip(t *testing.T) {
    // price * seats formatted back out, as the booking flow does it
    cents, err := ParseCents("149.50")
    require.NoError(t, err)
    assert.Equal(t, "299.00", FormatCents(MulCents(cents, 2)))
    assert.Equal(t, "1495.00", FormatCents(MulCents(cents, 10)))
}
