package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepo(db), mock
}

func userRows(hash interface{}, exp interface{}) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows([]string{
		"id", "username", "password_hash", "refresh_token_hash", "refresh_token_expires_at", "created_at", "updated_at",
	}).AddRow(1, "alice", "$2a$04$hash", hash, exp, now, now)
}

func TestCreate_DuplicateUsername(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users (username, password_hash) VALUES (?,?)").
		WithArgs("alice", "$2a$04$hash").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'alice' for key 'users.username'"))

	_, err := repo.Create(context.Background(), "alice", "$2a$04$hash")
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ReturnsInsertID(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectExec("INSERT INTO users (username, password_hash) VALUES (?,?)").
		WithArgs("alice", "$2a$04$hash").
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Create(context.Background(), "alice", "$2a$04$hash")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUsername_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT " + userColumns + " FROM users WHERE username=? LIMIT 1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NullSessionColumns(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT " + userColumns + " FROM users WHERE id=? LIMIT 1").
		WithArgs(uint64(1)).
		WillReturnRows(userRows(nil, nil))

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, u.HasSession())
	assert.Nil(t, u.RefreshTokenHash)
	assert.Nil(t, u.RefreshTokenExpiresAt)
}

func TestGetByID_WithSession(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	exp := time.Now().UTC().Add(time.Hour)
	mock.ExpectQuery("SELECT " + userColumns + " FROM users WHERE id=? LIMIT 1").
		WithArgs(uint64(1)).
		WillReturnRows(userRows("abc123", exp))

	u, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, u.HasSession())
	assert.Equal(t, "abc123", *u.RefreshTokenHash)
	assert.WithinDuration(t, exp, *u.RefreshTokenExpiresAt, time.Second)
}

func TestRotateRefreshToken_WinnerAndLoser(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	const q = "UPDATE users SET refresh_token_hash=?, refresh_token_expires_at=?, updated_at=NOW() " +
		"WHERE id=? AND refresh_token_hash=? AND refresh_token_expires_at > ?"
	exp := time.Now().UTC().Add(time.Hour)

	// One row matched: the presented hash was still current.
	mock.ExpectExec(q).
		WithArgs("new-hash", exp, uint64(1), "old-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.RotateRefreshToken(context.Background(), 1, "old-hash", "new-hash", exp)
	require.NoError(t, err)
	assert.True(t, ok)

	// Zero rows matched: stale hash or expired session.
	mock.ExpectExec(q).
		WithArgs("newer-hash", exp, uint64(1), "old-hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.RotateRefreshToken(context.Background(), 1, "old-hash", "newer-hash", exp)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClearRefreshToken_Idempotent(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	const q = "UPDATE users SET refresh_token_hash=NULL, refresh_token_expires_at=NULL, updated_at=NOW() WHERE id=?"

	// Even when no row changes (no active session), the call succeeds.
	mock.ExpectExec(q).WithArgs(uint64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, repo.ClearRefreshToken(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepExpired_ReturnsCount(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	const q = "UPDATE users SET refresh_token_hash=NULL, refresh_token_expires_at=NULL, updated_at=NOW() " +
		"WHERE refresh_token_expires_at IS NOT NULL AND refresh_token_expires_at < ?"
	now := time.Now().UTC()

	mock.ExpectExec(q).WithArgs(now).WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.SweepExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUsername_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectExec("UPDATE users SET username=?, updated_at=NOW() WHERE id=?").
		WithArgs("newname", uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateUsername(context.Background(), 9, "newname")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectExec("DELETE FROM users WHERE id=?").
		WithArgs(uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}
