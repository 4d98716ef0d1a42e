// Package auth implements the login / refresh / logout session protocol
// on top of a credential store. All session state lives on the user row
// (one refresh-token hash + expiry per user); the service itself is
// stateless and safe for concurrent use.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/iliyamo/user-auth-service/internal/model"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/utils"
)

// UserStore is the slice of the repository the auth service needs.
// *repository.UserRepo satisfies it; tests substitute an in-memory fake.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	UpdateRefreshToken(ctx context.Context, id uint64, tokenHash string, exp time.Time) error
	RotateRefreshToken(ctx context.Context, id uint64, oldHash, newHash string, exp time.Time) (bool, error)
	ClearRefreshToken(ctx context.Context, id uint64) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// EventPublisher pushes audit events to the message broker. May be nil,
// in which case events are dropped; auth flow never depends on the broker.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent)
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Identity is the verified claims projection returned by CurrentUser.
type Identity struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// Service orchestrates the session protocol. Both secrets and TTLs are
// fixed at construction; access and refresh tokens are signed with
// independent secrets so one kind can never stand in for the other.
type Service struct {
	store         UserStore
	events        EventPublisher
	accessSecret  string
	refreshSecret string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewService(store UserStore, events EventPublisher, accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		store:         store,
		events:        events,
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// Login verifies the credentials and, on success, mints a fresh token
// pair and overwrites the stored refresh session. Any previously issued
// refresh token for the user stops working at that point.
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("auth: login failed, unknown username %q", username)
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("auth: look up user: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		log.Printf("auth: login failed, wrong password for %q", username)
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, refresh, err := s.mintPair(u.ID, u.Username)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.UpdateRefreshToken(ctx, u.ID, utils.HashRefreshRaw(refresh.Raw), refresh.Exp); err != nil {
		return TokenPair{}, fmt.Errorf("auth: store refresh session: %w", err)
	}

	log.Printf("auth: login ok for %q (id=%d)", username, u.ID)
	s.publish(ctx, queue.EventLoggedIn, u.ID, u.Username)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a brand-new pair, rotating
// the stored session in the same step. The rotation goes through the
// store's compare-and-swap: of two concurrent calls presenting the same
// token, exactly one wins; the loser (and any later replay of the old
// token) gets ErrInvalidRefreshToken.
func (s *Service) Refresh(ctx context.Context, userID uint64, presented string) (TokenPair, error) {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("auth: refresh failed, unknown user id %d", userID)
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, fmt.Errorf("auth: look up user: %w", err)
	}

	pair, refresh, err := s.mintPair(u.ID, u.Username)
	if err != nil {
		return TokenPair{}, err
	}
	ok, err := s.store.RotateRefreshToken(ctx, u.ID,
		utils.HashRefreshRaw(presented), utils.HashRefreshRaw(refresh.Raw), refresh.Exp)
	if err != nil {
		return TokenPair{}, fmt.Errorf("auth: rotate refresh session: %w", err)
	}
	if !ok {
		// Hash mismatch, expired session, or a concurrent rotation won.
		log.Printf("auth: refresh rejected for user id %d", userID)
		return TokenPair{}, ErrInvalidRefreshToken
	}

	log.Printf("auth: refresh ok for user id %d", userID)
	return pair, nil
}

// Logout clears the stored refresh session. Idempotent: logging out a
// user with no active session still succeeds.
func (s *Service) Logout(ctx context.Context, userID uint64) error {
	if err := s.store.ClearRefreshToken(ctx, userID); err != nil {
		return fmt.Errorf("auth: clear refresh session: %w", err)
	}
	log.Printf("auth: logout for user id %d", userID)
	s.publish(ctx, queue.EventLoggedOut, userID, "")
	return nil
}

// CurrentUser projects verified token claims into an Identity. No store
// access: the guard already verified the token, and that is what this
// endpoint trusts.
func (s *Service) CurrentUser(id uint64, username string) Identity {
	return Identity{ID: id, Username: username}
}

// SweepExpired clears every refresh session whose expiry has passed and
// returns the number cleared. Maintenance operation, safe to run
// repeatedly and concurrently.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	n, err := s.store.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("auth: sweep expired sessions: %w", err)
	}
	if n > 0 {
		log.Printf("auth: swept %d expired refresh session(s)", n)
	}
	return n, nil
}

// mintPair signs an access and a refresh token for the same identity,
// each with its own secret and lifetime.
func (s *Service) mintPair(id uint64, username string) (TokenPair, utils.Token, error) {
	access, err := utils.NewToken(s.accessSecret, id, username, s.accessTTL)
	if err != nil {
		return TokenPair{}, utils.Token{}, fmt.Errorf("auth: sign access token: %w", err)
	}
	refresh, err := utils.NewToken(s.refreshSecret, id, username, s.refreshTTL)
	if err != nil {
		return TokenPair{}, utils.Token{}, fmt.Errorf("auth: sign refresh token: %w", err)
	}
	return TokenPair{AccessToken: access.Raw, RefreshToken: refresh.Raw}, refresh, nil
}

func (s *Service) publish(ctx context.Context, event string, id uint64, username string) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, queue.AuthEvent{
		Event:    event,
		UserID:   id,
		Username: username,
		At:       time.Now().UTC().Format(time.RFC3339),
	})
}
