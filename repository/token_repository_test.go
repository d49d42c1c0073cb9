// file: repository/token_repository_test.go

package repository

import (
	"database/sql"
	"go-account-api/logger"
	"go-account-api/model"
	"os"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, dbMock
}

func TestTokenRepository_CreateRefreshToken(t *testing.T) {
	db, dbMock := newMockDB(t)
	repo := NewTokenRepository(db)

	expires := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO refresh_tokens (id, user_id, expires_at) VALUES ($1, $2, $3)`)).
		WithArgs("tok-1", 1, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.CreateRefreshToken(&model.RefreshToken{ID: "tok-1", UserID: 1, ExpiresAt: expires})
	assert.NoError(t, err)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTokenRepository_GetRefreshToken(t *testing.T) {
	db, dbMock := newMockDB(t)
	repo := NewTokenRepository(db)

	expires := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "user_id", "expires_at"}).
			AddRow("tok-1", 1, expires)
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, expires_at FROM refresh_tokens WHERE id = $1`)).
			WithArgs("tok-1").
			WillReturnRows(rows)

		token, err := repo.GetRefreshToken("tok-1")
		assert.NoError(t, err)
		assert.Equal(t, &model.RefreshToken{ID: "tok-1", UserID: 1, ExpiresAt: expires}, token)
	})

	t.Run("absent surfaces sql.ErrNoRows", func(t *testing.T) {
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, expires_at FROM refresh_tokens WHERE id = $1`)).
			WithArgs("no-such").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetRefreshToken("no-such")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

// The conditional delete is the rotation's atomic claim: it reports true
// only when this call actually removed the row.
func TestTokenRepository_DeleteRefreshToken_AtomicClaim(t *testing.T) {
	db, dbMock := newMockDB(t)
	repo := NewTokenRepository(db)

	deleteQuery := regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE id = $1`)

	dbMock.ExpectExec(deleteQuery).WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	claimed, err := repo.DeleteRefreshToken("tok-1")
	assert.NoError(t, err)
	assert.True(t, claimed)

	// Second delete of the same id affects zero rows: the claim was lost.
	dbMock.ExpectExec(deleteQuery).WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	claimed, err = repo.DeleteRefreshToken("tok-1")
	assert.NoError(t, err)
	assert.False(t, claimed)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteExpiredRefreshTokens(t *testing.T) {
	db, dbMock := newMockDB(t)
	repo := NewTokenRepository(db)

	now := time.Date(2025, 7, 1, 3, 0, 0, 0, time.UTC)
	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE expires_at < $1`)).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 3))

	swept, err := repo.DeleteExpiredRefreshTokens(now)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), swept)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTokenRepository_GetAllSessions(t *testing.T) {
	db, dbMock := newMockDB(t)
	repo := NewTokenRepository(db)

	expiresA := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	expiresB := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "expires_at", "user_id", "user_name", "role_name"}).
		AddRow("tok-a", expiresA, 1, "Alice", "admin").
		AddRow("tok-b", expiresB, 2, "Bob", "user")
	dbMock.ExpectQuery("SELECT t.id, t.expires_at, u.id, u.name, r.name").
		WillReturnRows(rows)

	sessions, err := repo.GetAllSessions()
	assert.NoError(t, err)
	assert.Equal(t, []model.SessionTokenRow{
		{TokenID: "tok-a", ExpiresAt: expiresA, Session: model.SessionRecord{UserID: 1, UserName: "Alice", UserRole: "admin"}},
		{TokenID: "tok-b", ExpiresAt: expiresB, Session: model.SessionRecord{UserID: 2, UserName: "Bob", UserRole: "user"}},
	}, sessions)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestTokenRepository_ResetTokenLifecycle(t *testing.T) {
	db, dbMock := newMockDB(t)
	repo := NewTokenRepository(db)

	expires := time.Date(2025, 7, 1, 13, 0, 0, 0, time.UTC)

	dbMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO reset_tokens (id, user_id, expires_at) VALUES ($1, $2, $3)`)).
		WithArgs("reset-1", 1, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.CreateResetToken(&model.ResetToken{ID: "reset-1", UserID: 1, ExpiresAt: expires}))

	rows := sqlmock.NewRows([]string{"id", "user_id", "expires_at"}).AddRow("reset-1", 1, expires)
	dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, expires_at FROM reset_tokens WHERE id = $1`)).
		WithArgs("reset-1").
		WillReturnRows(rows)
	token, err := repo.GetResetToken("reset-1")
	assert.NoError(t, err)
	assert.Equal(t, 1, token.UserID)

	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reset_tokens WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteResetTokensByUserID(1))

	dbMock.ExpectExec(regexp.QuoteMeta(`DELETE FROM reset_tokens WHERE id = $1`)).
		WithArgs("reset-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.DeleteResetToken("reset-1"))

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
