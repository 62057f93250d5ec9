package model

import "time"

// Role names accepted by the platform.  Admin accounts are provisioned
// out of band; the public register endpoint only issues client and
// agent roles.
const (
    RoleClient = "client"
    RoleAgent  = "agent"
    RoleAdmin  = "admin"
)

// Lifecycle statuses for a user account.  Accounts are never hard
// deleted; an admin moves them between active and suspended, and
// deletion is a terminal soft transition.
const (
    UserStatusActive    = "active"
    UserStatusSuspended = "suspended"
    UserStatusDeleted   = "deleted"
)

// User represents an application user record as stored in the
// `users` table. Each field corresponds to a column in the
// database. The json tags are omitted on purpose: the struct holds
// the password hash, so handlers expose users through dedicated
// response types instead of serializing this one.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Name         – display name.
//  Role         – role name (client, agent or admin).
//  Status       – lifecycle status (active, suspended or deleted).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Name         string    // users.name
    Role         string    // users.role
    Status       string    // users.status
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table.  Each
// refresh token belongs to a user and contains metadata for expiry
// and revocation.  The plain token is not stored; only its
// SHA‑256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA‑256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (null if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
    ID        uint64     // refresh_tokens.id
    UserID    uint64     // refresh_tokens.user_id
    TokenHash string     // refresh_tokens.token_hash
    ExpiresAt time.Time  // refresh_tokens.expires_at
    RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
    CreatedAt time.Time  // refresh_tokens.created_at
}
