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

var jobColumnList = []string{"id", "client_id", "request_id", "title", "description", "token_cost", "status", "deleted_at", "created_at", "updated_at"}

func jobRow(id, clientID uint64, cost int64, status string) *sqlmock.Rows {
    now := time.Now()
    return sqlmock.NewRows(jobColumnList).
        AddRow(id, clientID, nil, "Guide needed", "Two weeks in Rome", cost, status, nil, now, now)
}

func applicationRow(id, jobID, applicantID uint64, status string, feedback interface{}) *sqlmock.Rows {
    now := time.Now()
    return sqlmock.NewRows([]string{"id", "job_id", "applicant_id", "message", "status", "feedback", "created_at", "updated_at"}).
        AddRow(id, jobID, applicantID, "I know the city", status, feedback, now, now)
}

func newJobRepo(t *testing.T) (*JobRepo, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    return NewJobRepo(db, NewLedgerRepo(db)), mock, func() { db.Close() }
}

func TestJobRepoCreate(t *testing.T) {
    ctx := context.Background()

    t.Run("DebitsOwnerInSameTransaction", func(t *testing.T) {
        repo, mock, done := newJobRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectExec("INSERT INTO jobs").
            WithArgs(uint64(7), nil, "Guide needed", "Two weeks in Rome", int64(30), model.JobStatusOpen).
            WillReturnResult(sqlmock.NewResult(12, 1))
        mock.ExpectExec("INSERT IGNORE INTO token_balances").
            WithArgs(uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectExec("UPDATE token_balances SET balance = balance - ").
            WithArgs(int64(30), uint64(7), int64(30)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec("INSERT INTO token_transactions").
            WithArgs(uint64(7), model.TxnKindUsage, int64(-30), nil, uint64(12), "job_post", "Posted job: Guide needed").
            WillReturnResult(sqlmock.NewResult(5, 1))
        mock.ExpectQuery("FROM jobs WHERE id").
            WithArgs(uint64(12)).
            WillReturnRows(jobRow(12, 7, 30, model.JobStatusOpen))
        mock.ExpectCommit()

        job := model.Job{ClientID: 7, Title: "Guide needed", Description: "Two weeks in Rome", TokenCost: 30}
        require.NoError(t, repo.Create(ctx, &job))
        assert.Equal(t, uint64(12), job.ID)
        assert.Equal(t, model.JobStatusOpen, job.Status)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("InsufficientTokensRollsBackInsert", func(t *testing.T) {
        repo, mock, done := newJobRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectExec("INSERT INTO jobs").
            WithArgs(uint64(7), nil, "Guide needed", "Two weeks in Rome", int64(500), model.JobStatusOpen).
            WillReturnResult(sqlmock.NewResult(13, 1))
        mock.ExpectExec("INSERT IGNORE INTO token_balances").
            WithArgs(uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectExec("UPDATE token_balances SET balance = balance - ").
            WithArgs(int64(500), uint64(7), int64(500)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectRollback()

        job := model.Job{ClientID: 7, Title: "Guide needed", Description: "Two weeks in Rome", TokenCost: 500}
        err := repo.Create(ctx, &job)
        assert.ErrorIs(t, err, ErrInsufficientTokens)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestJobRepoApply(t *testing.T) {
    ctx := context.Background()

    t.Run("NonOpenJobLooksMissing", func(t *testing.T) {
        repo, mock, done := newJobRepo(t)
        defer done()

        mock.ExpectQuery("FROM jobs WHERE id").
            WithArgs(uint64(12)).
            WillReturnRows(jobRow(12, 7, 30, model.JobStatusFilled))

        _, err := repo.Apply(ctx, 12, 9, "pick me")
        assert.ErrorIs(t, err, sql.ErrNoRows)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("SecondApplicationRejected", func(t *testing.T) {
        repo, mock, done := newJobRepo(t)
        defer done()

        mock.ExpectQuery("FROM jobs WHERE id").
            WithArgs(uint64(12)).
            WillReturnRows(jobRow(12, 7, 30, model.JobStatusOpen))
        mock.ExpectQuery("SELECT COUNT").
            WithArgs(uint64(12), uint64(9)).
            WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

        _, err := repo.Apply(ctx, 12, 9, "pick me again")
        assert.ErrorIs(t, err, ErrDuplicateApplication)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestJobRepoAccept(t *testing.T) {
    repo, mock, done := newJobRepo(t)
    defer done()

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT client_id FROM jobs").
        WithArgs(uint64(12)).
        WillReturnRows(sqlmock.NewRows([]string{"client_id"}).AddRow(7))
    mock.ExpectQuery("SELECT id FROM job_applications").
        WithArgs(uint64(12), uint64(9)).
        WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))
    mock.ExpectExec("UPDATE job_applications SET status").
        WithArgs(model.ApplicationStatusAccepted, "Welcome aboard", uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE jobs SET status").
        WithArgs(model.JobStatusFilled, uint64(12)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("UPDATE job_applications SET status").
        WithArgs(model.ApplicationStatusRejected, "Position has been filled", uint64(12), uint64(4)).
        WillReturnResult(sqlmock.NewResult(0, 2))
    mock.ExpectQuery("FROM job_applications WHERE id").
        WithArgs(uint64(4)).
        WillReturnRows(applicationRow(4, 12, 9, model.ApplicationStatusAccepted, "Welcome aboard"))
    mock.ExpectCommit()

    app, err := repo.Accept(context.Background(), 12, 9, 7, "Welcome aboard")
    require.NoError(t, err)
    assert.Equal(t, model.ApplicationStatusAccepted, app.Status)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepoAcceptNotOwner(t *testing.T) {
    repo, mock, done := newJobRepo(t)
    defer done()

    mock.ExpectBegin()
    mock.ExpectQuery("SELECT client_id FROM jobs").
        WithArgs(uint64(12)).
        WillReturnRows(sqlmock.NewRows([]string{"client_id"}).AddRow(7))
    mock.ExpectRollback()

    _, err := repo.Accept(context.Background(), 12, 9, 999, "")
    assert.ErrorIs(t, err, ErrForbidden)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJobRepoSoftDelete(t *testing.T) {
    ctx := context.Background()

    t.Run("RefundsPostingCost", func(t *testing.T) {
        repo, mock, done := newJobRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("FROM jobs WHERE id").
            WithArgs(uint64(12)).
            WillReturnRows(jobRow(12, 7, 40, model.JobStatusOpen))
        mock.ExpectQuery("SELECT COUNT").
            WithArgs(uint64(12)).
            WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))
        mock.ExpectExec("UPDATE jobs SET deleted_at = NOW").
            WithArgs(uint64(12)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec("INSERT IGNORE INTO token_balances").
            WithArgs(uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectExec(`UPDATE token_balances SET balance = balance \+`).
            WithArgs(int64(40), uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec("INSERT INTO token_transactions").
            WithArgs(uint64(7), model.TxnKindRefund, int64(40), nil, uint64(12), "job_delete", "Refund for deleted job: Guide needed").
            WillReturnResult(sqlmock.NewResult(6, 1))
        mock.ExpectCommit()

        job, err := repo.SoftDelete(ctx, 12, 7)
        require.NoError(t, err)
        assert.Equal(t, int64(40), job.TokenCost)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("BlockedByApplications", func(t *testing.T) {
        repo, mock, done := newJobRepo(t)
        defer done()

        mock.ExpectBegin()
        mock.ExpectQuery("FROM jobs WHERE id").
            WithArgs(uint64(12)).
            WillReturnRows(jobRow(12, 7, 40, model.JobStatusOpen))
        mock.ExpectQuery("SELECT COUNT").
            WithArgs(uint64(12)).
            WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(2))
        mock.ExpectRollback()

        _, err := repo.SoftDelete(ctx, 12, 7)
        assert.ErrorIs(t, err, ErrHasApplications)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}
