package handler

import (
	"encoding/json"
	"go-account-api/common"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/service"
	"net/http"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns an access/refresh token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Credentials"
// @Success      200 {object} model.LoginResponse
// @Failure      401 {object} common.AppError
// @Router       /login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	logger.Log.WithField("email", req.Email).Info("Login request received")

	response, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return common.Wrap(err, "Could not process login")
	}

	writeJSON(w, http.StatusOK, response)
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Exchanges a valid refresh token for a new token pair; the old token is invalidated
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshRequest true "Refresh token"
// @Success      200 {object} model.LoginResponse
// @Failure      401 {object} common.AppError
// @Router       /refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	response, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		return common.Wrap(err, "Could not refresh session")
	}

	writeJSON(w, http.StatusOK, response)
	return nil
}

// Logout godoc
// @Summary      Revoke the caller's sessions
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		return common.Wrap(err, "Could not log out")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ForgotPassword godoc
// @Summary      Request a password reset mail
// @Description  Always answers 204, whether or not the email is registered
// @Tags         auth
// @Accept       json
// @Param        request body model.ForgotPasswordRequest true "Account email"
// @Success      204
// @Router       /password/forgot [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ForgotPasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		return common.Wrap(err, "Could not process password reset request")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ResetPassword godoc
// @Summary      Complete a password reset
// @Tags         auth
// @Accept       json
// @Param        request body model.ResetPasswordRequest true "Reset token and new password"
// @Success      204
// @Failure      401 {object} common.AppError
// @Router       /password/reset [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.ResetPasswordRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		return common.Wrap(err, "Could not reset password")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
