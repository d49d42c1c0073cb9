package handler

import (
	"go-account-api/common"
	"net/http"
)

// ErrorHandlingMiddleware adapts handlers that return a typed AppError into
// plain http.HandlerFuncs, sending the error at the boundary.
func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}
