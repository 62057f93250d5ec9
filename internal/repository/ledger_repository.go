package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/travel-booking-platform/internal/model"
)

// LedgerRepo maintains per-user token balances and the append-only
// transaction log.  The balance row is created lazily on first access.
// Every mutation runs inside a single database transaction so the
// balance write and its log entry land together; debits use an atomic
// conditional UPDATE so a balance can never be observed below zero.
type LedgerRepo struct {
    db *sql.DB
}

// NewLedgerRepo returns a LedgerRepo bound to the given database.
func NewLedgerRepo(db *sql.DB) *LedgerRepo { return &LedgerRepo{db: db} }

// GetOrCreateBalance returns the balance row for a user, creating it
// with balance=0 when absent.  Creation is idempotent: a concurrent
// insert losing the race falls back to reading the winner's row.
func (r *LedgerRepo) GetOrCreateBalance(ctx context.Context, userID uint64) (model.TokenBalance, error) {
    b, err := r.getBalance(ctx, r.db, userID)
    if err == nil {
        return b, nil
    }
    if err != sql.ErrNoRows {
        return model.TokenBalance{}, err
    }
    if _, err := r.db.ExecContext(ctx,
        "INSERT IGNORE INTO token_balances (user_id, balance) VALUES (?, 0)", userID); err != nil {
        return model.TokenBalance{}, err
    }
    return r.getBalance(ctx, r.db, userID)
}

type queryRower interface {
    QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *LedgerRepo) getBalance(ctx context.Context, q queryRower, userID uint64) (model.TokenBalance, error) {
    var b model.TokenBalance
    err := q.QueryRowContext(ctx,
        "SELECT id, user_id, balance, created_at, updated_at FROM token_balances WHERE user_id=? LIMIT 1",
        userID).Scan(&b.ID, &b.UserID, &b.Balance, &b.CreatedAt, &b.UpdatedAt)
    return b, err
}

// Purchase resolves packageID against the fixed catalog, credits
// tokens+bonus to the user's balance and appends a positive purchase
// entry carrying the package's listed cost.  ErrInvalidPackage is
// returned for unknown package IDs and leaves the balance untouched.
func (r *LedgerRepo) Purchase(ctx context.Context, userID uint64, packageID, paymentRef string) (model.TokenBalance, model.TokenTransaction, error) {
    pkg, ok := model.PackageByID(packageID)
    if !ok {
        return model.TokenBalance{}, model.TokenTransaction{}, ErrInvalidPackage
    }
    total := pkg.Tokens + pkg.Bonus

    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.TokenBalance{}, model.TokenTransaction{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := r.creditTx(ctx, tx, userID, total); err != nil {
        return model.TokenBalance{}, model.TokenTransaction{}, err
    }
    desc := "Purchased " + pkg.ID + " package"
    if paymentRef != "" {
        desc += " (payment " + paymentRef + ")"
    }
    txn, err := r.appendTx(ctx, tx, model.TokenTransaction{
        UserID:      userID,
        Kind:        model.TxnKindPurchase,
        Amount:      total,
        Cost:        pkg.Cost,
        Description: desc,
    })
    if err != nil {
        return model.TokenBalance{}, model.TokenTransaction{}, err
    }
    bal, err := r.getBalance(ctx, tx, userID)
    if err != nil {
        return model.TokenBalance{}, model.TokenTransaction{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.TokenBalance{}, model.TokenTransaction{}, err
    }
    committed = true
    return bal, txn, nil
}

// Spend debits amount from the user's balance and appends a usage entry
// with a negative amount.  The debit is a conditional UPDATE guarded by
// balance >= amount; when no row is affected the balance was too low
// and ErrInsufficientTokens is returned with nothing written.
func (r *LedgerRepo) Spend(ctx context.Context, userID uint64, amount int64, refID *uint64, refType, desc string) (model.TokenBalance, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.TokenBalance{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := r.SpendTx(ctx, tx, userID, amount, refID, refType, desc); err != nil {
        return model.TokenBalance{}, err
    }
    bal, err := r.getBalance(ctx, tx, userID)
    if err != nil {
        return model.TokenBalance{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.TokenBalance{}, err
    }
    committed = true
    return bal, nil
}

// SpendTx is the transaction-scoped debit used by Spend and by the job
// repository when a debit must commit together with another entity
// write.  The caller owns the transaction.
func (r *LedgerRepo) SpendTx(ctx context.Context, tx *sql.Tx, userID uint64, amount int64, refID *uint64, refType, desc string) error {
    if _, err := tx.ExecContext(ctx,
        "INSERT IGNORE INTO token_balances (user_id, balance) VALUES (?, 0)", userID); err != nil {
        return err
    }
    res, err := tx.ExecContext(ctx,
        "UPDATE token_balances SET balance = balance - ? WHERE user_id = ? AND balance >= ?",
        amount, userID, amount)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrInsufficientTokens
    }
    var refTypePtr *string
    if refType != "" {
        refTypePtr = &refType
    }
    _, err = r.appendTx(ctx, tx, model.TokenTransaction{
        UserID:        userID,
        Kind:          model.TxnKindUsage,
        Amount:        -amount, // usage entries are negative
        ReferenceID:   refID,
        ReferenceType: refTypePtr,
        Description:   desc,
    })
    return err
}

// Refund credits amount back to the user and appends a positive refund
// entry.  There is no upper bound on a balance.
func (r *LedgerRepo) Refund(ctx context.Context, userID uint64, amount int64, refID *uint64, refType, desc string) (model.TokenBalance, error) {
    return r.credit(ctx, userID, amount, model.TxnKindRefund, refID, refType, desc)
}

// Grant is an admin credit, logged as admin_grant.
func (r *LedgerRepo) Grant(ctx context.Context, userID uint64, amount int64, desc string) (model.TokenBalance, error) {
    return r.credit(ctx, userID, amount, model.TxnKindAdminGrant, nil, "", desc)
}

func (r *LedgerRepo) credit(ctx context.Context, userID uint64, amount int64, kind string, refID *uint64, refType, desc string) (model.TokenBalance, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return model.TokenBalance{}, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    if err := r.creditTx(ctx, tx, userID, amount); err != nil {
        return model.TokenBalance{}, err
    }
    var refTypePtr *string
    if refType != "" {
        refTypePtr = &refType
    }
    if _, err := r.appendTx(ctx, tx, model.TokenTransaction{
        UserID:        userID,
        Kind:          kind,
        Amount:        amount,
        ReferenceID:   refID,
        ReferenceType: refTypePtr,
        Description:   desc,
    }); err != nil {
        return model.TokenBalance{}, err
    }
    bal, err := r.getBalance(ctx, tx, userID)
    if err != nil {
        return model.TokenBalance{}, err
    }
    if err := tx.Commit(); err != nil {
        return model.TokenBalance{}, err
    }
    committed = true
    return bal, nil
}

// RefundTx credits within a caller-owned transaction; used by the job
// repository so a job soft delete and its refund commit atomically.
func (r *LedgerRepo) RefundTx(ctx context.Context, tx *sql.Tx, userID uint64, amount int64, refID *uint64, refType, desc string) error {
    if err := r.creditTx(ctx, tx, userID, amount); err != nil {
        return err
    }
    var refTypePtr *string
    if refType != "" {
        refTypePtr = &refType
    }
    _, err := r.appendTx(ctx, tx, model.TokenTransaction{
        UserID:        userID,
        Kind:          model.TxnKindRefund,
        Amount:        amount,
        ReferenceID:   refID,
        ReferenceType: refTypePtr,
        Description:   desc,
    })
    return err
}

func (r *LedgerRepo) creditTx(ctx context.Context, tx *sql.Tx, userID uint64, amount int64) error {
    if _, err := tx.ExecContext(ctx,
        "INSERT IGNORE INTO token_balances (user_id, balance) VALUES (?, 0)", userID); err != nil {
        return err
    }
    _, err := tx.ExecContext(ctx,
        "UPDATE token_balances SET balance = balance + ? WHERE user_id = ?",
        amount, userID)
    return err
}

// appendTx writes one immutable ledger entry and returns it with the
// generated ID.  Entries are never updated or deleted afterwards.
func (r *LedgerRepo) appendTx(ctx context.Context, tx *sql.Tx, t model.TokenTransaction) (model.TokenTransaction, error) {
    var cost interface{}
    if t.Cost != "" {
        cost = t.Cost
    }
    res, err := tx.ExecContext(ctx,
        "INSERT INTO token_transactions (user_id, kind, amount, cost, reference_id, reference_type, description) VALUES (?,?,?,?,?,?,?)",
        t.UserID, t.Kind, t.Amount, cost, t.ReferenceID, t.ReferenceType, t.Description)
    if err != nil {
        return model.TokenTransaction{}, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return model.TokenTransaction{}, err
    }
    t.ID = uint64(id)
    return t, nil
}

// History returns the user's ledger entries newest first, capped at
// limit (default 50).
func (r *LedgerRepo) History(ctx context.Context, userID uint64, limit int) ([]model.TokenTransaction, error) {
    if limit <= 0 || limit > 500 {
        limit = 50
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, user_id, kind, amount, COALESCE(cost, ''), reference_id, reference_type, description, created_at
         FROM token_transactions WHERE user_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
        userID, limit)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.TokenTransaction, 0)
    for rows.Next() {
        var t model.TokenTransaction
        var refID sql.NullInt64
        var refType sql.NullString
        if err := rows.Scan(&t.ID, &t.UserID, &t.Kind, &t.Amount, &t.Cost, &refID, &refType, &t.Description, &t.CreatedAt); err != nil {
            return nil, err
        }
        if refID.Valid {
            v := uint64(refID.Int64)
            t.ReferenceID = &v
        }
        if refType.Valid {
            v := refType.String
            t.ReferenceType = &v
        }
        out = append(out, t)
    }
    return out, rows.Err()
}

// BalanceEntry is one row of the admin top-balances report.
type BalanceEntry struct {
    UserID  uint64 `json:"user_id"`
    Email   string `json:"email"`
    Balance int64  `json:"balance"`
}

// LedgerStats aggregates the token economy for the admin dashboard.
// TotalUsed is the absolute value of the negative usage entries.
type LedgerStats struct {
    CirculatingBalance int64          `json:"circulating_balance"`
    TotalPurchased     int64          `json:"total_purchased"`
    TotalUsed          int64          `json:"total_used"`
    TotalRevenue       string         `json:"total_revenue"`
    TopBalances        []BalanceEntry `json:"top_balances"`
}

// Statistics is a reporting query, not a mutation.
func (r *LedgerRepo) Statistics(ctx context.Context) (LedgerStats, error) {
    var s LedgerStats
    err := r.db.QueryRowContext(ctx,
        `SELECT COALESCE(SUM(balance), 0) FROM token_balances`).Scan(&s.CirculatingBalance)
    if err != nil {
        return s, err
    }
    err = r.db.QueryRowContext(ctx,
        `SELECT COALESCE(SUM(CASE WHEN kind = 'purchase' THEN amount ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN kind = 'usage' THEN -amount ELSE 0 END), 0),
                COALESCE(CAST(SUM(CASE WHEN kind = 'purchase' THEN cost ELSE 0 END) AS CHAR), '0.00')
         FROM token_transactions`).Scan(&s.TotalPurchased, &s.TotalUsed, &s.TotalRevenue)
    if err != nil {
        return s, err
    }
    rows, err := r.db.QueryContext(ctx,
        `SELECT b.user_id, u.email, b.balance
         FROM token_balances b
         JOIN users u ON u.id = b.user_id
         ORDER BY b.balance DESC
         LIMIT 10`)
    if err != nil {
        return s, err
    }
    defer rows.Close()
    s.TopBalances = make([]BalanceEntry, 0, 10)
    for rows.Next() {
        var e BalanceEntry
        if err := rows.Scan(&e.UserID, &e.Email, &e.Balance); err != nil {
            return s, err
        }
        s.TopBalances = append(s.TopBalances, e)
    }
    return s, rows.Err()
}
