package repository

import (
    "context"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

var bookingColumnList = []string{"id", "trip_id", "client_id", "seats_booked", "total_price", "status", "payment_status", "cancellation_date", "cancellation_reason", "created_at", "updated_at"}

func bookingRow(id, tripID, clientID uint64, seats uint32, total, status string) *sqlmock.Rows {
    now := time.Now()
    return sqlmock.NewRows(bookingColumnList).
        AddRow(id, tripID, clientID, seats, total, status, model.PaymentStatusPending, nil, nil, now, now)
}

func newBookingRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    return NewBookingRepo(db), mock, func() { db.Close() }
}

func TestBookingRepoBook(t *testing.T) {
    ctx := context.Background()

    t.Run("CapturesTotalPriceAtBookingTime", func(t *testing.T) {
        repo, mock, done := newBookingRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("SELECT price FROM trips").
            WithArgs(uint64(3), model.TripStatusActive).
            WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("149.50"))
        mock.ExpectExec("UPDATE trips SET available_seats = available_seats - ").
            WithArgs(uint32(2), uint64(3), uint32(2)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec("INSERT INTO bookings").
            WithArgs(uint64(3), uint64(9), uint32(2), "299.00", model.BookingStatusPending, model.PaymentStatusPending).
            WillReturnResult(sqlmock.NewResult(21, 1))
        mock.ExpectQuery("FROM bookings WHERE id").
            WithArgs(int64(21)).
            WillReturnRows(bookingRow(21, 3, 9, 2, "299.00", model.BookingStatusPending))
        mock.ExpectCommit()

        booking, err := repo.Book(ctx, 3, 9, 2)
        require.NoError(t, err)
        assert.Equal(t, "299.00", booking.TotalPrice)
        assert.Equal(t, model.BookingStatusPending, booking.Status)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("OversellBlockedByConditionalDecrement", func(t *testing.T) {
        repo, mock, done := newBookingRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("SELECT price FROM trips").
            WithArgs(uint64(3), model.TripStatusActive).
            WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("149.50"))
        mock.ExpectExec("UPDATE trips SET available_seats = available_seats - ").
            WithArgs(uint32(50), uint64(3), uint32(50)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectRollback()

        _, err := repo.Book(ctx, 3, 9, 50)
        assert.ErrorIs(t, err, ErrInsufficientSeats)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestBookingRepoCancel(t *testing.T) {
    ctx := context.Background()

    t.Run("RestoresSeats", func(t *testing.T) {
        repo, mock, done := newBookingRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("FROM bookings WHERE id").
            WithArgs(uint64(21), uint64(9)).
            WillReturnRows(bookingRow(21, 3, 9, 2, "299.00", model.BookingStatusPending))
        mock.ExpectExec("UPDATE bookings SET status").
            WithArgs(model.BookingStatusCancelled, "changed plans", uint64(21)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec(`UPDATE trips SET available_seats = available_seats \+`).
            WithArgs(uint32(2), uint64(3)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery("FROM bookings WHERE id").
            WithArgs(uint64(21)).
            WillReturnRows(bookingRow(21, 3, 9, 2, "299.00", model.BookingStatusCancelled))
        mock.ExpectCommit()

        booking, err := repo.Cancel(ctx, 21, 9, "changed plans")
        require.NoError(t, err)
        assert.Equal(t, model.BookingStatusCancelled, booking.Status)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("SecondCancelFails", func(t *testing.T) {
        repo, mock, done := newBookingRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("FROM bookings WHERE id").
            WithArgs(uint64(21), uint64(9)).
            WillReturnRows(bookingRow(21, 3, 9, 2, "299.00", model.BookingStatusCancelled))
        mock.ExpectRollback()

        _, err := repo.Cancel(ctx, 21, 9, "again")
        assert.ErrorIs(t, err, ErrAlreadyCancelled)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestBookingRepoSetStatus(t *testing.T) {
    ctx := context.Background()

    t.Run("RejectsUnknownTarget", func(t *testing.T) {
        repo, mock, done := newBookingRepo(t)
        defer done()

        _, err := repo.SetStatus(ctx, 21, "cancelled", nil)
        assert.ErrorIs(t, err, ErrBadTransition)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("AgentMustOwnTrip", func(t *testing.T) {
        repo, mock, done := newBookingRepo(t)
        defer done()

        mock.ExpectQuery("SELECT t.agent_id FROM bookings b JOIN trips t").
            WithArgs(uint64(21)).
            WillReturnRows(sqlmock.NewRows([]string{"agent_id"}).AddRow(9))

        agentID := uint64(4)
        _, err := repo.SetStatus(ctx, 21, model.BookingStatusConfirmed, &agentID)
        assert.ErrorIs(t, err, ErrForbidden)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("ConfirmingMarksPaymentPaid", func(t *testing.T) {
        repo, mock, done := newBookingRepo(t)
        defer done()

        mock.ExpectExec("UPDATE bookings SET status = ., payment_status = 'paid'").
            WithArgs(model.BookingStatusConfirmed, uint64(21)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery("FROM bookings WHERE id").
            WithArgs(uint64(21)).
            WillReturnRows(bookingRow(21, 3, 9, 2, "299.00", model.BookingStatusConfirmed))

        booking, err := repo.SetStatus(ctx, 21, model.BookingStatusConfirmed, nil)
        require.NoError(t, err)
        assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}
