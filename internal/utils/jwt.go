package utils // package utils provides helper functions for token creation and hashing

import (
    "crypto/sha256" // SHA-256 hashing for refresh tokens
    "encoding/hex"  // hex encoding for digests
    "errors"        // sentinel error values
    "strconv"       // numeric conversion for the subject claim
    "time"          // time utilities for generating expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned when a token fails verification: bad
// signature, wrong signing method, structural garbage, or past expiry.
// Callers must not distinguish between those cases.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrMissingClaim is returned when a token verifies cryptographically but
// lacks a required identity claim.
var ErrMissingClaim = errors.New("token missing required claim")

// Claims is the identity payload carried inside every signed token. The
// same shape is used for access and refresh tokens; the two kinds differ
// only in signing secret and lifetime.
type Claims struct {
    Username string `json:"username"`
    jwt.RegisteredClaims
}

// Token bundles a signed JWT string with its expiry so callers can report
// the expiration to clients without re-parsing the token.
type Token struct {
    Raw string    // the serialized JWT string
    Exp time.Time // the UTC expiration time
}

// NewToken builds and signs an HS256 JWT carrying the user's id (as the
// subject claim) and username. The ttl is added to the current UTC time to
// produce the exp claim. The same function mints both access and refresh
// tokens; the caller chooses the secret and ttl for each kind.
func NewToken(secret string, userID uint64, username string, ttl time.Duration) (Token, error) {
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := Claims{
        Username: username,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            ExpiresAt: jwt.NewNumericDate(exp),
            IssuedAt:  jwt.NewNumericDate(now),
        },
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return Token{}, err
    }
    return Token{Raw: signed, Exp: exp}, nil
}

// ParseToken verifies a signed token against the given secret and returns
// its claims. Verification failures of any kind collapse into
// ErrInvalidToken; a structurally valid token without a subject or
// username yields ErrMissingClaim.
func ParseToken(raw, secret string) (*Claims, error) {
    claims := &Claims{}
    tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything other than HMAC; an attacker
        // must not be able to downgrade the algorithm.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrInvalidToken
        }
        return []byte(secret), nil
    })
    if err != nil || !tok.Valid {
        return nil, ErrInvalidToken
    }
    if claims.Subject == "" || claims.Username == "" {
        return nil, ErrMissingClaim
    }
    return claims, nil
}

// UserID decodes the subject claim back into the numeric user id. A
// subject that is not a positive integer yields ErrMissingClaim since the
// token cannot identify a user.
func (c *Claims) UserID() (uint64, error) {
    id, err := strconv.ParseUint(c.Subject, 10, 64)
    if err != nil || id == 0 {
        return 0, ErrMissingClaim
    }
    return id, nil
}

// HashRefreshRaw returns the SHA-256 hash of a raw refresh token as a hex
// string. Only this digest is stored in the database, so a leaked users
// table cannot be replayed as live sessions. The digest is deterministic,
// which lets refresh rotation compare-and-swap on the stored value.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}
