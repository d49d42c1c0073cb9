package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"go-account-api/cache"
	"go-account-api/clock"
	"go-account-api/common"
	"go-account-api/config"
	"go-account-api/logger"
	"go-account-api/mailer"
	"go-account-api/model"
	"go-account-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Identical message for unknown email and wrong password, so login
// responses cannot be used to enumerate accounts.
const incorrectCredentialsMsg = "Incorrect email/password combination"

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

// AuthService owns the session lifecycle: issuing, rotating and revoking
// refresh tokens, and keeping the token-scoped session cache records in
// step with the refresh_tokens table.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	store     cache.Store
	clk       clock.Clock
	notifier  mailer.IMailer
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository,
	store cache.Store, clk clock.Clock, notifier mailer.IMailer) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		store:     store,
		clk:       clk,
		notifier:  notifier,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), err
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Login verifies credentials, revokes every prior session for the user
// (single active session per user) and issues a fresh token pair. The
// stateless access tokens from earlier sessions stay valid until their own
// short expiry; only the refresh capability is revoked.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetUserByEmailWithRole(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewUnauthorized(incorrectCredentialsMsg)
		}
		return nil, err
	}

	if !s.CheckPasswordHash(password, user.Password) {
		return nil, common.NewUnauthorized(incorrectCredentialsMsg)
	}

	if err := s.revokeUserSessions(ctx, user.ID); err != nil {
		return nil, err
	}

	refreshID, err := s.issueRefreshToken(ctx, user.ID, user.Name, user.RoleName)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.generateAccessToken(user.ID, user.Name, user.RoleName)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshID,
		User:         &user.User,
	}, nil
}

// Refresh rotates a refresh token: validates the durable row, claims it
// with a conditional delete, and only then mints a replacement. Rotation
// is destructive, so a replayed (already rotated) token is indistinguishable
// from a forged one and fails identically.
func (s *AuthService) Refresh(ctx context.Context, tokenID string) (*model.LoginResponse, error) {
	token, err := s.tokenRepo.GetRefreshToken(tokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewUnauthorized("Invalid refresh token")
		}
		return nil, err
	}

	if s.clk.IsBefore(token.ExpiresAt) {
		// Expired but not yet swept; same rejection as an unknown token.
		return nil, common.NewUnauthorized("Invalid refresh token")
	}

	session, err := s.sessionForToken(ctx, token)
	if err != nil {
		return nil, err
	}

	// Single-use atomic claim: of two concurrent refreshes with the same
	// token, only the one whose delete actually removes the row rotates.
	claimed, err := s.tokenRepo.DeleteRefreshToken(tokenID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, common.NewUnauthorized("Invalid refresh token")
	}
	invalidate(ctx, s.store, cache.RefreshTokenKey(tokenID))

	refreshID, err := s.issueRefreshToken(ctx, session.UserID, session.UserName, session.UserRole)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.generateAccessToken(session.UserID, session.UserName, session.UserRole)
	if err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", session.UserID).Info("Refresh token rotated")
	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshID,
	}, nil
}

// sessionForToken resolves the denormalized session projection, preferring
// the refreshToken:<id> cache record and falling back to the user/role join
// on a miss. An orphaned token whose owner vanished fails this request but
// not the process.
func (s *AuthService) sessionForToken(ctx context.Context, token *model.RefreshToken) (*model.SessionRecord, error) {
	raw, ok, err := s.store.Get(ctx, cache.RefreshTokenKey(token.ID))
	if err != nil {
		logger.Log.WithError(err).Warn("Session cache read failed, falling back to storage")
	} else if ok {
		var session model.SessionRecord
		if err := json.Unmarshal([]byte(raw), &session); err == nil {
			return &session, nil
		}
	}

	user, err := s.userRepo.GetUserByIDWithRole(token.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewNotFound("User not found")
		}
		return nil, err
	}

	return &model.SessionRecord{
		UserID:   user.ID,
		UserName: user.Name,
		UserRole: user.RoleName,
	}, nil
}

// issueRefreshToken creates the durable row first, then mirrors it into the
// session cache. A cache write failure is only logged: the resync job and
// the refresh fallback both recover from a missing record.
func (s *AuthService) issueRefreshToken(ctx context.Context, userID int, userName, userRole string) (string, error) {
	ttl := config.AppConfig.RefreshTokenTTL()
	token := &model.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.clk.Add(ttl),
	}
	if err := s.tokenRepo.CreateRefreshToken(token); err != nil {
		return "", err
	}

	record := model.SessionRecord{UserID: userID, UserName: userName, UserRole: userRole}
	data, err := json.Marshal(record)
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, cache.RefreshTokenKey(token.ID), string(data), ttl); err != nil {
		logger.Log.WithError(err).Warn("Failed to cache session record")
	}

	return token.ID, nil
}

// revokeUserSessions deletes every refresh token row for the user and the
// matching cache records, rows first.
func (s *AuthService) revokeUserSessions(ctx context.Context, userID int) error {
	tokens, err := s.tokenRepo.GetRefreshTokensByUserID(userID)
	if err != nil {
		return err
	}
	if err := s.tokenRepo.DeleteRefreshTokensByUserID(userID); err != nil {
		return err
	}

	if len(tokens) > 0 {
		keys := make([]string, 0, len(tokens))
		for _, token := range tokens {
			keys = append(keys, cache.RefreshTokenKey(token.ID))
		}
		invalidate(ctx, s.store, keys...)
	}
	return nil
}

// Logout revokes every session for the user.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	return s.revokeUserSessions(ctx, userID)
}

// ForgotPassword starts the reset flow. An unknown email is a
// success-shaped no-op so the endpoint cannot confirm account existence.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetUserByEmailWithRole(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.Info("Password reset requested for unknown email")
			return nil
		}
		return err
	}

	// Single active reset token per user.
	if err := s.tokenRepo.DeleteResetTokensByUserID(user.ID); err != nil {
		return err
	}

	token := &model.ResetToken{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: s.clk.Add(config.AppConfig.ResetTokenTTL()),
	}
	if err := s.tokenRepo.CreateResetToken(token); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s?token=%s", config.AppConfig.Mail.ResetURL, token.ID)
	return s.notifier.SendPasswordReset(user.Email, user.Name, resetURL)
}

// ResetPassword completes the reset flow. Expired tokens are rejected but
// not deleted here; the sweep owns their removal.
func (s *AuthService) ResetPassword(ctx context.Context, tokenID, newPassword string) error {
	token, err := s.tokenRepo.GetResetToken(tokenID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewUnauthorized("Invalid reset token")
		}
		return err
	}

	if s.clk.IsBefore(token.ExpiresAt) {
		return common.NewUnauthorized("Reset token expired")
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(token.UserID, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.NewNotFound("User not found")
		}
		return err
	}

	// Single use.
	if err := s.tokenRepo.DeleteResetToken(tokenID); err != nil {
		return err
	}

	logger.Log.WithField("user_id", token.UserID).Info("Password reset completed")
	return nil
}

// generateAccessToken mints the signed access token. The role travels as an
// AES-GCM encrypted claim; the visible subject is only user id and name.
func (s *AuthService) generateAccessToken(userID int, userName, role string) (string, error) {
	roleData, err := EncryptRole(role)
	if err != nil {
		return "", err
	}

	expiresAt := s.clk.Add(config.AppConfig.AccessTokenTTL())
	claims := &model.AppClaims{
		UserID:   userID,
		UserName: userName,
		RoleData: roleData,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userName,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(s.clk.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign JWT")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// EncryptRole seals the role name with AES-GCM under the configured key.
func EncryptRole(role string) (string, error) {
	gcm, err := roleCipher()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, []byte(role), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// DecryptRole opens a role blob produced by EncryptRole. Used by the auth
// middleware to recover the role claim.
func DecryptRole(data string) (string, error) {
	gcm, err := roleCipher()
	if err != nil {
		return "", err
	}

	sealed, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return "", err
	}
	if len(sealed) < gcm.NonceSize() {
		return "", errors.New("role data too short")
	}

	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	role, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(role), nil
}

func roleCipher() (cipher.AEAD, error) {
	block, err := aes.NewCipher([]byte(config.AppConfig.JWT.RoleKey))
	if err != nil {
		return nil, fmt.Errorf("invalid role encryption key: %w", err)
	}
	return cipher.NewGCM(block)
}
