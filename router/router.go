package router

import (
	"go-account-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func NewRouter(userHandler *handler.UserHandler, authHandler *handler.AuthHandler, geoHandler *handler.GeoHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	// Public auth routes.
	mux.Handle("POST /register", handler.ErrorHandlingMiddleware(userHandler.Register))
	mux.Handle("POST /login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("POST /refresh", handler.ErrorHandlingMiddleware(authHandler.Refresh))
	mux.Handle("POST /password/forgot", handler.ErrorHandlingMiddleware(authHandler.ForgotPassword))
	mux.Handle("POST /password/reset", handler.ErrorHandlingMiddleware(authHandler.ResetPassword))

	// Public lookups.
	mux.Handle("GET /genders", handler.ErrorHandlingMiddleware(geoHandler.ListGenders))
	mux.Handle("GET /states", handler.ErrorHandlingMiddleware(geoHandler.ListStates))
	mux.Handle("GET /states/{id}/cities", handler.ErrorHandlingMiddleware(geoHandler.ListCitiesByState))

	// Authenticated routes.
	mux.Handle("POST /logout", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(authHandler.Logout)))
	mux.Handle("GET /users/{id}", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.GetUser)))
	mux.Handle("GET /users/{id}/complete", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.GetCompleteUser)))
	mux.Handle("PUT /users/me", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateUser)))
	mux.Handle("GET /users/me/address", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.GetAddress)))
	mux.Handle("PUT /users/me/address", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdateAddress)))
	mux.Handle("GET /users/me/phone", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.GetPhone)))
	mux.Handle("PUT /users/me/phone", handler.AuthMiddleware(handler.ErrorHandlingMiddleware(userHandler.UpdatePhone)))

	// Admin routes.
	mux.Handle("GET /users", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.ListUsers))))
	mux.Handle("DELETE /users/{id}", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(userHandler.DeleteUser))))
	mux.Handle("POST /genders", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(geoHandler.CreateGender))))
	mux.Handle("POST /cities", handler.AuthMiddleware(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(geoHandler.CreateCity))))

	return mux
}
