// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"go-account-api/logger"
	"go-account-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for refresh and reset token
// database operations. The token table is the source of truth for "does
// this session still exist"; the cache only mirrors it.
type ITokenRepository interface {
	CreateRefreshToken(token *model.RefreshToken) error
	GetRefreshToken(id string) (*model.RefreshToken, error)
	GetRefreshTokensByUserID(userID int) ([]*model.RefreshToken, error)
	// DeleteRefreshToken reports whether a row was actually deleted. The
	// rotation path only mints a new token when this returns true, which
	// makes the delete a single-use atomic claim.
	DeleteRefreshToken(id string) (bool, error)
	DeleteRefreshTokensByUserID(userID int) error
	DeleteExpiredRefreshTokens(now time.Time) (int64, error)
	GetAllSessions() ([]model.SessionTokenRow, error)

	CreateResetToken(token *model.ResetToken) error
	GetResetToken(id string) (*model.ResetToken, error)
	DeleteResetToken(id string) error
	DeleteResetTokensByUserID(userID int) error
	DeleteExpiredResetTokens(now time.Time) (int64, error)
}

// TokenRepository implements ITokenRepository.
type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// CreateRefreshToken inserts a new refresh token record into the database.
func (r *TokenRepository) CreateRefreshToken(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (id, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.DB.Exec(query, token.ID, token.UserID, token.ExpiresAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetRefreshToken retrieves a refresh token by its opaque id.
func (r *TokenRepository) GetRefreshToken(id string) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	query := `SELECT id, user_id, expires_at FROM refresh_tokens WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&token.ID, &token.UserID, &token.ExpiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get refresh token query")
		}
		return nil, err // sql.ErrNoRows when absent
	}
	return token, nil
}

// GetRefreshTokensByUserID lists a user's refresh tokens. Used to clear the
// matching session cache records before the rows go away.
func (r *TokenRepository) GetRefreshTokensByUserID(userID int) ([]*model.RefreshToken, error) {
	query := `SELECT id, user_id, expires_at FROM refresh_tokens WHERE user_id = $1`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).
			Error("Failed to execute get refresh tokens by user query")
		return nil, err
	}
	defer rows.Close()

	var tokens []*model.RefreshToken
	for rows.Next() {
		var t model.RefreshToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.ExpiresAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, &t)
	}
	return tokens, rows.Err()
}

// DeleteRefreshToken deletes one token row and reports whether it existed.
// Two concurrent rotations of the same token can both read the row, but
// only the one that wins this delete proceeds to mint a replacement.
func (r *TokenRepository) DeleteRefreshToken(id string) (bool, error) {
	result, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete refresh token query")
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteRefreshTokensByUserID deletes all refresh tokens for a specific
// user. This is the logout-from-all-sessions primitive.
func (r *TokenRepository) DeleteRefreshTokensByUserID(userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to delete all refresh tokens for a user")

	_, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh tokens query")
		return err
	}
	return nil
}

// DeleteExpiredRefreshTokens sweeps rows whose expiry is before now.
func (r *TokenRepository) DeleteExpiredRefreshTokens(now time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute expired refresh token sweep")
		return 0, err
	}
	return result.RowsAffected()
}

// GetAllSessions reads every refresh token joined with its owner and role
// in one denormalizing query. This is the resync job's rebuild source.
func (r *TokenRepository) GetAllSessions() ([]model.SessionTokenRow, error) {
	query := `SELECT t.id, t.expires_at, u.id, u.name, r.name
		FROM refresh_tokens t
		JOIN users u ON u.id = t.user_id
		JOIN roles r ON r.id = u.role_id`
	rows, err := r.DB.Query(query)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute get all sessions query")
		return nil, err
	}
	defer rows.Close()

	var sessions []model.SessionTokenRow
	for rows.Next() {
		var row model.SessionTokenRow
		if err := rows.Scan(&row.TokenID, &row.ExpiresAt,
			&row.Session.UserID, &row.Session.UserName, &row.Session.UserRole); err != nil {
			return nil, err
		}
		sessions = append(sessions, row)
	}
	return sessions, rows.Err()
}

// CreateResetToken inserts a new password reset token record.
func (r *TokenRepository) CreateResetToken(token *model.ResetToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new reset token")

	query := `INSERT INTO reset_tokens (id, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.DB.Exec(query, token.ID, token.UserID, token.ExpiresAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create reset token query")
		return err
	}
	return nil
}

// GetResetToken retrieves a reset token by its opaque id.
func (r *TokenRepository) GetResetToken(id string) (*model.ResetToken, error) {
	token := &model.ResetToken{}
	query := `SELECT id, user_id, expires_at FROM reset_tokens WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&token.ID, &token.UserID, &token.ExpiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get reset token query")
		}
		return nil, err
	}
	return token, nil
}

// DeleteResetToken removes a single reset token after use.
func (r *TokenRepository) DeleteResetToken(id string) error {
	_, err := r.DB.Exec(`DELETE FROM reset_tokens WHERE id = $1`, id)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete reset token query")
	}
	return err
}

// DeleteResetTokensByUserID enforces the single-active-reset-token policy.
func (r *TokenRepository) DeleteResetTokensByUserID(userID int) error {
	_, err := r.DB.Exec(`DELETE FROM reset_tokens WHERE user_id = $1`, userID)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).
			Error("Failed to execute delete reset tokens query")
	}
	return err
}

// DeleteExpiredResetTokens sweeps rows whose expiry is before now.
func (r *TokenRepository) DeleteExpiredResetTokens(now time.Time) (int64, error) {
	result, err := r.DB.Exec(`DELETE FROM reset_tokens WHERE expires_at < $1`, now)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute expired reset token sweep")
		return 0, err
	}
	return result.RowsAffected()
}
