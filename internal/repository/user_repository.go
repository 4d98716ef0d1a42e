package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/user-auth-service/internal/model"
)

const userColumns = "id,username,password_hash,refresh_token_hash,refresh_token_expires_at,created_at,updated_at"

// UserRepo persists users and their single active refresh session.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with an already-hashed password and returns its ID.
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash) VALUES (?,?)",
		username, passwordHash)
	if err != nil {
		// MySQL error 1062: duplicate entry on the unique username index.
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username=? LIMIT 1", username))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var (
			u    model.User
			hash sql.NullString
			exp  sql.NullTime
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash, &hash, &exp, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		applySession(&u, hash, exp)
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUsername changes a user's username. ErrNotFound when the id does
// not exist, ErrUsernameExists on a unique-key collision.
func (r *UserRepo) UpdateUsername(ctx context.Context, id uint64, username string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET username=?, updated_at=NOW() WHERE id=?", username, id)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrUsernameExists
		}
		return err
	}
	return requireAffected(res)
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, updated_at=NOW() WHERE id=?", passwordHash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes a user row entirely.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// UpdateRefreshToken stores a new refresh session (hash + expiry),
// overwriting any previous one. Used on login, where the fresh password
// check already authorizes replacing the session.
func (r *UserRepo) UpdateRefreshToken(ctx context.Context, id uint64, tokenHash string, exp time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=?, refresh_token_expires_at=?, updated_at=NOW() WHERE id=?",
		tokenHash, exp, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// RotateRefreshToken atomically replaces the stored session, but only if
// the current row still holds oldHash and the session has not expired.
// The WHERE clause is the compare-and-swap that makes concurrent refresh
// attempts with the same token race safely: exactly one UPDATE matches,
// the loser sees false. Returns (false, nil) when the presented token is
// stale, unknown, or expired.
func (r *UserRepo) RotateRefreshToken(ctx context.Context, id uint64, oldHash, newHash string, exp time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=?, refresh_token_expires_at=?, updated_at=NOW() "+
			"WHERE id=? AND refresh_token_hash=? AND refresh_token_expires_at > ?",
		newHash, exp, id, oldHash, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ClearRefreshToken drops the active session. Idempotent: clearing a user
// with no session still succeeds.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=NULL, refresh_token_expires_at=NULL, updated_at=NOW() WHERE id=?",
		id)
	return err
}

// SweepExpired clears every session whose expiry is before now and
// returns the number of rows touched. Safe to run repeatedly and
// concurrently; each expired row is matched at most once.
func (r *UserRepo) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=NULL, refresh_token_expires_at=NULL, updated_at=NOW() "+
			"WHERE refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at < ?",
		now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u    model.User
		hash sql.NullString
		exp  sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &hash, &exp, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	applySession(&u, hash, exp)
	return u, nil
}

func applySession(u *model.User, hash sql.NullString, exp sql.NullTime) {
	// Both columns are nullable together; treat a half-set pair as no session.
	if hash.Valid && exp.Valid {
		h := hash.String
		t := exp.Time
		u.RefreshTokenHash = &h
		u.RefreshTokenExpiresAt = &t
	}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
