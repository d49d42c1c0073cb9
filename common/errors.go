package common

import (
	"encoding/json"
	"errors"
	"go-account-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is the typed error carried from the point of detection to the
// HTTP boundary. Business-rule violations are constructed where they are
// detected and propagated unmodified.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewNotFound builds a 404-equivalent error. Not-found results are never
// cached by the read accessors.
func NewNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, nil)
}

// NewUnauthorized builds a 401-equivalent error.
func NewUnauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, message, nil)
}

// NewConflict builds a 400-equivalent error for duplicate unique fields.
func NewConflict(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, nil)
}

// Wrap converts any error into an AppError. Typed errors pass through
// unmodified; everything else becomes an internal error.
func Wrap(err error, fallbackMessage string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewAppError(http.StatusInternalServerError, fallbackMessage, err)
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
