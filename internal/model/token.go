package model

import "time"

// Kinds recorded in the token transaction log.  Usage entries carry a
// negative amount; every other kind is strictly positive.
const (
    TxnKindPurchase   = "purchase"
    TxnKindUsage      = "usage"
    TxnKindRefund     = "refund"
    TxnKindAdminGrant = "admin_grant"
)

// TokenBalance holds the denormalized token balance for a user.  There
// is at most one row per user and the row is created lazily the first
// time the balance is read.  The balance is mutated only through the
// ledger repository; the transaction log is the audit trail, not the
// source of truth.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the balance.
//  Balance   – current non‑negative token count.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type TokenBalance struct {
    ID        uint64    `json:"id"`         // token_balances.id
    UserID    uint64    `json:"user_id"`    // token_balances.user_id
    Balance   int64     `json:"balance"`    // token_balances.balance
    CreatedAt time.Time `json:"created_at"` // token_balances.created_at
    UpdatedAt time.Time `json:"updated_at"` // token_balances.updated_at
}

// TokenTransaction is an immutable, append‑only ledger entry.  Rows are
// never updated or deleted.  Amount is signed: usage entries are
// negative, purchases, refunds and admin grants are positive.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user the entry belongs to.
//  Kind          – one of purchase, usage, refund, admin_grant.
//  Amount        – signed token delta.
//  Cost          – money paid for a purchase as a decimal string ("9.99"), empty otherwise.
//  ReferenceID   – optional ID of the entity the entry relates to.
//  ReferenceType – optional entity kind for ReferenceID (e.g. "job_post").
//  Description   – free‑form human readable note.
//  CreatedAt     – creation timestamp.
type TokenTransaction struct {
    ID            uint64    `json:"id"`                       // token_transactions.id
    UserID        uint64    `json:"user_id"`                  // token_transactions.user_id
    Kind          string    `json:"kind"`                     // token_transactions.kind
    Amount        int64     `json:"amount"`                   // token_transactions.amount (signed)
    Cost          string    `json:"cost,omitempty"`           // token_transactions.cost (DECIMAL as string)
    ReferenceID   *uint64   `json:"reference_id,omitempty"`   // token_transactions.reference_id (nullable)
    ReferenceType *string   `json:"reference_type,omitempty"` // token_transactions.reference_type (nullable)
    Description   string    `json:"description"`              // token_transactions.description
    CreatedAt     time.Time `json:"created_at"`               // token_transactions.created_at
}

// TokenPackage describes a purchasable token bundle.  The catalog is
// fixed; purchase requests referencing an unknown package ID fail.
type TokenPackage struct {
    ID     string `json:"id"`     // package identifier (basic, standard, premium, enterprise)
    Tokens int64  `json:"tokens"` // base tokens granted
    Bonus  int64  `json:"bonus"`  // bonus tokens granted on top
    Cost   string `json:"cost"`   // listed price as a decimal string
}

// tokenPackages is the fixed purchase catalog.
var tokenPackages = map[string]TokenPackage{
    "basic":      {ID: "basic", Tokens: 100, Bonus: 0, Cost: "9.99"},
    "standard":   {ID: "standard", Tokens: 500, Bonus: 50, Cost: "39.99"},
    "premium":    {ID: "premium", Tokens: 1000, Bonus: 150, Cost: "69.99"},
    "enterprise": {ID: "enterprise", Tokens: 2500, Bonus: 500, Cost: "149.99"},
}

// PackageByID resolves a package ID against the fixed catalog.  The
// second return value is false when the ID is not part of the catalog.
func PackageByID(id string) (TokenPackage, bool) {
    p, ok := tokenPackages[id]
    return p, ok
}

// Packages returns the catalog cheapest first for listing endpoints.
func Packages() []TokenPackage {
    return []TokenPackage{
        tokenPackages["basic"],
        tokenPackages["standard"],
        tokenPackages["premium"],
        tokenPackages["enterprise"],
    }
}
