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

func balanceRows(userID uint64, balance int64) *sqlmock.Rows {
    now := time.Now()
    return sqlmock.NewRows([]string{"id", "user_id", "balance", "created_at", "updated_at"}).
        AddRow(1, userID, balance, now, now)
}

func TestLedgerRepoGetOrCreateBalance(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewLedgerRepo(db)
    ctx := context.Background()

    t.Run("CreatesRowOnFirstAccess", func(t *testing.T) {
        mock.ExpectQuery("SELECT id, user_id, balance, created_at, updated_at FROM token_balances").
            WithArgs(uint64(7)).
            WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "balance", "created_at", "updated_at"}))
        mock.ExpectExec("INSERT IGNORE INTO token_balances").
            WithArgs(uint64(7)).
            WillReturnResult(sqlmock.NewResult(1, 1))
        mock.ExpectQuery("SELECT id, user_id, balance, created_at, updated_at FROM token_balances").
            WithArgs(uint64(7)).
            WillReturnRows(balanceRows(7, 0))

        bal, err := repo.GetOrCreateBalance(ctx, 7)
        require.NoError(t, err)
        assert.Equal(t, int64(0), bal.Balance)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("ReturnsExistingRow", func(t *testing.T) {
        mock.ExpectQuery("SELECT id, user_id, balance, created_at, updated_at FROM token_balances").
            WithArgs(uint64(7)).
            WillReturnRows(balanceRows(7, 120))

        bal, err := repo.GetOrCreateBalance(ctx, 7)
        require.NoError(t, err)
        assert.Equal(t, int64(120), bal.Balance)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestLedgerRepoSpend(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewLedgerRepo(db)
    ctx := context.Background()

    t.Run("WritesNegativeUsageEntry", func(t *testing.T) {
        refID := uint64(12)

        mock.ExpectBegin()
        mock.ExpectExec("INSERT IGNORE INTO token_balances").
            WithArgs(uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectExec("UPDATE token_balances SET balance = balance - ").
            WithArgs(int64(30), uint64(7), int64(30)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec("INSERT INTO token_transactions").
            WithArgs(uint64(7), model.TxnKindUsage, int64(-30), nil, refID, "job_post", "Posted job: Guide needed").
            WillReturnResult(sqlmock.NewResult(5, 1))
        mock.ExpectQuery("SELECT id, user_id, balance, created_at, updated_at FROM token_balances").
            WithArgs(uint64(7)).
            WillReturnRows(balanceRows(7, 70))
        mock.ExpectCommit()

        bal, err := repo.Spend(ctx, 7, 30, &refID, "job_post", "Posted job: Guide needed")
        require.NoError(t, err)
        assert.Equal(t, int64(70), bal.Balance)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("InsufficientBalanceWritesNothing", func(t *testing.T) {
        mock.ExpectBegin()
        mock.ExpectExec("INSERT IGNORE INTO token_balances").
            WithArgs(uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectExec("UPDATE token_balances SET balance = balance - ").
            WithArgs(int64(9999), uint64(7), int64(9999)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectRollback()

        _, err := repo.Spend(ctx, 7, 9999, nil, "", "too expensive")
        assert.ErrorIs(t, err, ErrInsufficientTokens)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestLedgerRepoPurchase(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewLedgerRepo(db)
    ctx := context.Background()

    t.Run("UnknownPackage", func(t *testing.T) {
        _, _, err := repo.Purchase(ctx, 7, "mega", "")
        assert.ErrorIs(t, err, ErrInvalidPackage)
        assert.NoError(t, mock.ExpectationsWereMet())
    })

    t.Run("CreditsTokensPlusBonus", func(t *testing.T) {
        mock.ExpectBegin()
        mock.ExpectExec("INSERT IGNORE INTO token_balances").
            WithArgs(uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 0))
        mock.ExpectExec(`UPDATE token_balances SET balance = balance \+`).
            WithArgs(int64(550), uint64(7)).
            WillReturnResult(sqlmock.NewResult(0, 1))
        mock.ExpectExec("INSERT INTO token_transactions").
            WithArgs(uint64(7), model.TxnKindPurchase, int64(550), "39.99", nil, nil, "Purchased standard package").
            WillReturnResult(sqlmock.NewResult(8, 1))
        mock.ExpectQuery("SELECT id, user_id, balance, created_at, updated_at FROM token_balances").
            WithArgs(uint64(7)).
            WillReturnRows(balanceRows(7, 550))
        mock.ExpectCommit()

        bal, txn, err := repo.Purchase(ctx, 7, "standard", "")
        require.NoError(t, err)
        assert.Equal(t, int64(550), bal.Balance)
        assert.Equal(t, int64(550), txn.Amount)
        assert.Equal(t, "39.99", txn.Cost)
        assert.NoError(t, mock.ExpectationsWereMet())
    })
}

func TestLedgerRepoGrant(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewLedgerRepo(db)

    mock.ExpectBegin()
    mock.ExpectExec("INSERT IGNORE INTO token_balances").
        WithArgs(uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectExec(`UPDATE token_balances SET balance = balance \+`).
        WithArgs(int64(200), uint64(3)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO token_transactions").
        WithArgs(uint64(3), model.TxnKindAdminGrant, int64(200), nil, nil, nil, "goodwill").
        WillReturnResult(sqlmock.NewResult(9, 1))
    mock.ExpectQuery("SELECT id, user_id, balance, created_at, updated_at FROM token_balances").
        WithArgs(uint64(3)).
        WillReturnRows(balanceRows(3, 200))
    mock.ExpectCommit()

    bal, err := repo.Grant(context.Background(), 3, 200, "goodwill")
    require.NoError(t, err)
    assert.Equal(t, int64(200), bal.Balance)
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepoRefund(t *testing.T) {
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    defer db.Close()

    repo := NewLedgerRepo(db)
    refID := uint64(12)

    mock.ExpectBegin()
    mock.ExpectExec("INSERT IGNORE INTO token_balances").
        WithArgs(uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 0))
    mock.ExpectExec(`UPDATE token_balances SET balance = balance \+`).
        WithArgs(int64(40), uint64(5)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec("INSERT INTO token_transactions").
        WithArgs(uint64(5), model.TxnKindRefund, int64(40), nil, int64(12), "job_delete", "Refund for deleted job").
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectQuery("SELECT id, user_id, balance, created_at, updated_at FROM token_balances").
        WithArgs(uint64(5)).
        WillReturnRows(balanceRows(5, 90))
    mock.ExpectCommit()

    bal, err := repo.Refund(context.Background(), 5, 40, &refID, "job_delete", "Refund for deleted job")
    require.NoError(t, err)
    assert.Equal(t, int64(90), bal.Balance)
    assert.NoError(t, mock.ExpectationsWereMet())
}
