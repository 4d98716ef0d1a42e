package model

import "time"

// User represents an application user record as stored in the `users`
// table. Each field corresponds to a column in the database. The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate response
// types with appropriate JSON tags so that password and refresh-token
// hashes never leak outward.
//
// RefreshTokenHash and RefreshTokenExpiresAt are either both set or both
// null: a user has at most one active refresh session, and a null pair
// means no session at all. A stored refresh token counts as valid only
// when the presented token hashes to RefreshTokenHash and the current
// time is before RefreshTokenExpiresAt.
//
// Fields:
//  ID                    – primary key identifier of the user.
//  Username              – unique login name (3–20 characters).
//  PasswordHash          – bcrypt hashed password.
//  RefreshTokenHash      – SHA-256 hex digest of the active refresh token (nullable).
//  RefreshTokenExpiresAt – expiry of the active refresh session (nullable).
//  CreatedAt             – timestamp of creation.
//  UpdatedAt             – timestamp of last update.
type User struct {
    ID                    uint64     // users.id
    Username              string     // users.username
    PasswordHash          string     // users.password_hash
    RefreshTokenHash      *string    // users.refresh_token_hash (nullable)
    RefreshTokenExpiresAt *time.Time // users.refresh_token_expires_at (nullable)
    CreatedAt             time.Time  // users.created_at
    UpdatedAt             time.Time  // users.updated_at
}

// HasSession reports whether the user currently has an active refresh
// session recorded. It only checks presence, not expiry; expiry is
// enforced where the token is validated.
func (u *User) HasSession() bool {
    return u.RefreshTokenHash != nil && u.RefreshTokenExpiresAt != nil
}
