// Package repository defines error types that are reused across the
// repository layer. These sentinel values allow higher layers such as
// handlers and the auth service to distinguish between failure
// scenarios without inspecting driver error strings. For example,
// ErrNotFound signals a missing user row, while ErrUsernameExists
// signals a unique-key violation on creation.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no user row. Handlers
// outside the auth flow translate this into an HTTP 404 response; the
// auth service translates it into a generic credentials failure so that
// usernames cannot be enumerated.
var ErrNotFound = errors.New("user not found")

// ErrUsernameExists is returned when an insert collides with the unique
// username index. Handlers should translate this into an HTTP 409
// response.
var ErrUsernameExists = errors.New("username already exists")
