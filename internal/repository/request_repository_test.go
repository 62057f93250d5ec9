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

var requestColumnList = []string{"id", "client_id", "agent_id", "destination", "description", "budget", "response", "status", "created_at", "updated_at"}

func requestRow(id, clientID uint64, agentID interface{}, status string) *sqlmock.Rows {
    now := time.Now()
    return sqlmock.NewRows(requestColumnList).
        AddRow(id, clientID, agentID, "Kyoto", "Cherry blossom season", nil, nil, status, now, now)
}

func newRequestRepo(t *testing.T) (*RequestRepo, sqlmock.Sqlmock, func()) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    return NewRequestRepo(db), mock, func() { db.Close() }
}

func TestRequestRepoAssign(t *testing.T) {
    ctx := context.Background()

    t.Run("AssignsPendingRequest", func(t *testing.T) {
        repo, mock, done := newRequestRepo(t)
        defer done()

        mock.ExpectExec("UPDATE custom_trip_requests SET agent_id").
            WithArgs(uint64(8), model.RequestStatusAssigned, uint64(5), model.RequestStatusPending).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, 8, model.RequestStatusAssigned))

        cr, err := repo.Assign(ctx, 5, 8)
        require.NoError(t, err)
        assert.Equal(t, model.RequestStatusAssigned, cr.Status)
        require.NotNil(t, cr.AgentID)
        assert.Equal(t, uint64(8), *cr.AgentID)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("NonPendingRequestFails", func(t *testing.T) {
        repo, mock, done := newRequestRepo(t)
        defer done()

        mock.ExpectExec("UPDATE custom_trip_requests SET agent_id").
            WithArgs(uint64(8), model.RequestStatusAssigned, uint64(5), model.RequestStatusPending).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, 8, model.RequestStatusResponded))

        _, err := repo.Assign(ctx, 5, 8)
        assert.ErrorIs(t, err, ErrBadTransition)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestRequestRepoRespond(t *testing.T) {
    ctx := context.Background()

    t.Run("OnlyAssignedAgentMayRespond", func(t *testing.T) {
        repo, mock, done := newRequestRepo(t)
        defer done()

        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, 8, model.RequestStatusAssigned))

        _, err := repo.Respond(ctx, 5, 999, "here is a plan")
        assert.ErrorIs(t, err, ErrForbidden)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("RecordsProposal", func(t *testing.T) {
        repo, mock, done := newRequestRepo(t)
        defer done()

        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, 8, model.RequestStatusAssigned))
        mock.ExpectExec("UPDATE custom_trip_requests SET response").
            WithArgs("here is a plan", model.RequestStatusResponded, uint64(5)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, 8, model.RequestStatusResponded))

        cr, err := repo.Respond(ctx, 5, 8, "here is a plan")
        require.NoError(t, err)
        assert.Equal(t, model.RequestStatusResponded, cr.Status)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestRequestRepoResolve(t *testing.T) {
    ctx := context.Background()

    t.Run("CompletionRequiresResponse", func(t *testing.T) {
        repo, mock, done := newRequestRepo(t)
        defer done()

        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, 8, model.RequestStatusAssigned))

        _, err := repo.Resolve(ctx, 5, 9, model.RequestStatusCompleted)
        assert.ErrorIs(t, err, ErrBadTransition)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("CancelAllowedBeforeTerminal", func(t *testing.T) {
        repo, mock, done := newRequestRepo(t)
        defer done()

        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, nil, model.RequestStatusPending))
        mock.ExpectExec("UPDATE custom_trip_requests SET status").
            WithArgs(model.RequestStatusCancelled, uint64(5)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, nil, model.RequestStatusCancelled))

        cr, err := repo.Resolve(ctx, 5, 9, model.RequestStatusCancelled)
        require.NoError(t, err)
        assert.Equal(t, model.RequestStatusCancelled, cr.Status)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("TerminalStatesAreFinal", func(t *testing.T) {
        repo, mock, done := newRequestRepo(t)
        defer done()

        mock.ExpectQuery("FROM custom_trip_requests WHERE id").
            WithArgs(uint64(5)).
            WillReturnRows(requestRow(5, 9, 8, model.RequestStatusCompleted))

        _, err := repo.Resolve(ctx, 5, 9, model.RequestStatusCancelled)
        assert.ErrorIs(t, err, ErrBadTransition)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}
