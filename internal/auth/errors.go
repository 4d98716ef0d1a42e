package auth

import "errors"

// ErrInvalidCredentials covers both "no such user" and "wrong password"
// on login. The two cases are distinguished only in server logs, never in
// the response, so usernames cannot be enumerated.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidRefreshToken covers every way a presented refresh token can
// fail: unknown user, hash mismatch, expired session, or losing a
// concurrent rotation race. One error for all of them.
var ErrInvalidRefreshToken = errors.New("invalid refresh token")
