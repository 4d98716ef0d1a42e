// Package queue defines message payloads exchanged over the message broker.
package queue

// Event names published to the auth.events queue.
const (
    EventRegistered = "user.registered"
    EventLoggedIn   = "user.logged_in"
    EventLoggedOut  = "user.logged_out"
)

// AuthEvent is published whenever an account changes authentication
// state. It carries enough information for downstream consumers to log,
// alert, or feed analytics without querying the primary database.
// Username may be empty for logout events, where only the token subject
// is known.
type AuthEvent struct {
    Event    string `json:"event"`
    UserID   uint64 `json:"user_id"`
    Username string `json:"username,omitempty"`
    At       string `json:"at"`
}
