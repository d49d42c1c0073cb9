package handler

import (
	"go-account-api/common"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/service"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

type UserHandler struct {
	userService *service.UserService
	authService *service.AuthService
}

func NewUserHandler(userService *service.UserService, authService *service.AuthService) *UserHandler {
	return &UserHandler{userService: userService, authService: authService}
}

// Register godoc
// @Summary      Create a new user account
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "New user"
// @Success      201 {object} model.User
// @Failure      400 {object} common.AppError
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	hashedPassword, err := h.authService.HashPassword(req.Password)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Error hashing password", err)
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		GenderID: req.GenderID,
	}
	if err := h.userService.CreateUser(r.Context(), user); err != nil {
		return common.Wrap(err, "Error creating user")
	}

	writeJSON(w, http.StatusCreated, user)
	return nil
}

// GetUser godoc
// @Summary      Get a user by id
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "User id"
// @Success      200 {object} model.User
// @Failure      404 {object} common.AppError
// @Router       /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		return common.Wrap(err, "Could not retrieve user")
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

// GetCompleteUser godoc
// @Summary      Get the aggregate view of a user
// @Description  User joined with role, gender, address and phone
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "User id"
// @Success      200 {object} model.CompleteUser
// @Failure      404 {object} common.AppError
// @Router       /users/{id}/complete [get]
func (h *UserHandler) GetCompleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	user, err := h.userService.GetCompleteUser(r.Context(), id)
	if err != nil {
		return common.Wrap(err, "Could not retrieve user")
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

// ListUsers godoc
// @Summary      List users
// @Description  Paginated when page/limit query parameters are present
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Param        page  query int false "Page number"
// @Param        limit query int false "Page size"
// @Success      200 {array} model.User
// @Router       /users [get]
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	pageStr := r.URL.Query().Get("page")
	limitStr := r.URL.Query().Get("limit")

	var (
		users []*model.User
		err   error
	)
	if pageStr == "" && limitStr == "" {
		users, err = h.userService.ListAllUsers(r.Context())
	} else {
		page, _ := strconv.Atoi(pageStr)
		limit, _ := strconv.Atoi(limitStr)
		users, err = h.userService.ListUsersPaginated(r.Context(), page, limit)
	}
	if err != nil {
		return common.Wrap(err, "Could not retrieve users")
	}

	writeJSON(w, http.StatusOK, users)
	return nil
}

// UpdateUser godoc
// @Summary      Update the caller's own fields
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body model.UpdateUserRequest true "Fields"
// @Success      200 {object} model.User
// @Router       /users/me [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var req model.UpdateUserRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	logger.Log.WithFields(logrus.Fields{"user_id": userID}).Info("Update user request received")

	user, err := h.userService.UpdateUser(r.Context(), userID, &req)
	if err != nil {
		return common.Wrap(err, "Could not update user")
	}

	writeJSON(w, http.StatusOK, user)
	return nil
}

// GetAddress godoc
// @Summary      Get the caller's address
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} model.Address
// @Failure      404 {object} common.AppError
// @Router       /users/me/address [get]
func (h *UserHandler) GetAddress(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	address, err := h.userService.GetUserAddress(r.Context(), userID)
	if err != nil {
		return common.Wrap(err, "Could not retrieve address")
	}

	writeJSON(w, http.StatusOK, address)
	return nil
}

// UpdateAddress godoc
// @Summary      Create or replace the caller's address
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body model.UpdateAddressRequest true "Address"
// @Success      200 {object} model.Address
// @Router       /users/me/address [put]
func (h *UserHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var req model.UpdateAddressRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	address, err := h.userService.UpdateAddress(r.Context(), userID, &req)
	if err != nil {
		return common.Wrap(err, "Could not update address")
	}

	writeJSON(w, http.StatusOK, address)
	return nil
}

// GetPhone godoc
// @Summary      Get the caller's phone
// @Tags         users
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} model.Phone
// @Failure      404 {object} common.AppError
// @Router       /users/me/phone [get]
func (h *UserHandler) GetPhone(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	phone, err := h.userService.GetUserPhone(r.Context(), userID)
	if err != nil {
		return common.Wrap(err, "Could not retrieve phone")
	}

	writeJSON(w, http.StatusOK, phone)
	return nil
}

// UpdatePhone godoc
// @Summary      Create or replace the caller's phone
// @Tags         users
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body model.UpdatePhoneRequest true "Phone"
// @Success      200 {object} model.Phone
// @Failure      400 {object} common.AppError
// @Router       /users/me/phone [put]
func (h *UserHandler) UpdatePhone(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	var req model.UpdatePhoneRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	phone, err := h.userService.UpdatePhone(r.Context(), userID, &req)
	if err != nil {
		return common.Wrap(err, "Could not update phone")
	}

	writeJSON(w, http.StatusOK, phone)
	return nil
}

// DeleteUser godoc
// @Summary      Delete a user account
// @Tags         users
// @Security     BearerAuth
// @Param        id path int true "User id"
// @Success      204
// @Failure      404 {object} common.AppError
// @Router       /users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	id, appErr := pathID(r, "id")
	if appErr != nil {
		return appErr
	}

	logger.Log.WithField("user_id", id).Info("Delete user request received")

	if err := h.userService.DeleteUser(r.Context(), id); err != nil {
		return common.Wrap(err, "Could not delete user")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func pathID(r *http.Request, name string) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid id in path", err)
	}
	return id, nil
}
