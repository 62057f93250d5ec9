package repository

import (
    "context"
    "database/sql"
    "errors"
    "testing"
    "time"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

func TestUserRepoCreate(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewUserRepo(db)
    ctx := context.Background()

    t.Run("NormalizesEmailAndDefaultsActive", func(t *testing.T) {
        mock.ExpectExec("INSERT INTO users").
            WithArgs("anna@example.com", sqlmock.AnyArg(), "Anna", model.RoleClient, model.UserStatusActive).
            WillReturnResult(sqlmock.NewResult(1, 1))

        id, err := repo.Create(ctx, "  ANNA@Example.com ", "s3cret", "Anna", model.RoleClient, 4)
        require.NoError(t, err)
        assert.Equal(t, uint64(1), id)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("DuplicateEmail", func(t *testing.T) {
        mock.ExpectExec("INSERT INTO users").
            WithArgs("anna@example.com", sqlmock.AnyArg(), "Anna", model.RoleClient, model.UserStatusActive).
            WillReturnError(errors.New("Error 1062: Duplicate entry"))

        _, err := repo.Create(ctx, "anna@example.com", "s3cret", "Anna", model.RoleClient, 4)
        assert.ErrorIs(t, err, ErrEmailExists)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestUserRepoSetStatus(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewUserRepo(db)
    ctx := context.Background()

    t.Run("Suspends", func(t *testing.T) {
        mock.ExpectExec("UPDATE users SET status").
            WithArgs(model.UserStatusSuspended, uint64(4)).
            WillReturnResult(sqlmock.NewResult(0, 1))

        assert.NoError(t, repo.SetStatus(ctx, 4, model.UserStatusSuspended))
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("MissingUser", func(t *testing.T) {
        mock.ExpectExec("UPDATE users SET status").
            WithArgs(model.UserStatusSuspended, uint64(404)).
            WillReturnResult(sqlmock.NewResult(0, 0))

        err := repo.SetStatus(ctx, 404, model.UserStatusSuspended)
        assert.ErrorIs(t, err, sql.ErrNoRows)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestUserRepoGetByEmail(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewUserRepo(db)
    now := time.Now()

    mock.ExpectQuery("FROM users WHERE email").
        WithArgs("anna@example.com").
        WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "status", "created_at", "updated_at"}).
            AddRow(1, "anna@example.com", "hash", "Anna", model.RoleClient, model.UserStatusActive, now, now))

    u, err := repo.GetByEmail(context.Background(), " Anna@Example.COM ")
    require.NoError(t, err)
    assert.Equal(t, uint64(1), u.ID)
    assert.Equal(t, model.RoleClient, u.Role)
    assert.NoError(t, mock.ExpectationsWereMet())
}
