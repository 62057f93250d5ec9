package repository

import (
    "context"
    "database/sql"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

func newReviewRepo(t *testing.T) (*ReviewRepo, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    return NewReviewRepo(db), mock, func() { db.Close() }
}

func TestReviewRepoSubmit(t *testing.T) {
    ctx := context.Background()

    t.Run("InsertsAndRecomputesAggregates", func(t *testing.T) {
        repo, mock, done := newReviewRepo(t)
        defer done()

        comment := "Fantastic guide"

        mock.ExpectBegin()
        mock.ExpectQuery("SELECT status FROM bookings").
            WithArgs(uint64(21), uint64(9), uint64(3)).
            WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.BookingStatusCompleted))
        mock.ExpectQuery("SELECT COUNT").
            WithArgs(uint64(21)).
            WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
        mock.ExpectExec("INSERT INTO reviews").
            WithArgs(uint64(21), uint64(3), uint64(9), uint8(5), comment).
            WillReturnResult(sqlmock.NewResult(2, 1))
        mock.ExpectExec("UPDATE trips SET").
            WithArgs(uint64(3), uint64(3), uint64(3)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery("SELECT created_at FROM reviews").
            WithArgs(uint64(2)).
            WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
        mock.ExpectCommit()

        rev := model.Review{BookingID: 21, TripID: 3, ClientID: 9, Rating: 5, Comment: &comment}
        require.NoError(t, repo.Submit(ctx, &rev))
        assert.Equal(t, uint64(2), rev.ID)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("NonCompletedBookingLooksMissing", func(t *testing.T) {
        repo, mock, done := newReviewRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("SELECT status FROM bookings").
            WithArgs(uint64(21), uint64(9), uint64(3)).
            WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.BookingStatusPending))
        mock.ExpectRollback()

        rev := model.Review{BookingID: 21, TripID: 3, ClientID: 9, Rating: 4}
        err := repo.Submit(ctx, &rev)
        assert.ErrorIs(t, err, sql.ErrNoRows)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("OneReviewPerBooking", func(t *testing.T) {
        repo, mock, done := newReviewRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("SELECT status FROM bookings").
            WithArgs(uint64(21), uint64(9), uint64(3)).
            WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(model.BookingStatusCompleted))
        mock.ExpectQuery("SELECT COUNT").
            WithArgs(uint64(21)).
            WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
        mock.ExpectRollback()

        rev := model.Review{BookingID: 21, TripID: 3, ClientID: 9, Rating: 4}
        err := repo.Submit(ctx, &rev)
        assert.ErrorIs(t, err, ErrDuplicateReview)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}
