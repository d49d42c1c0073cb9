// file: router/router_test.go

package router_test

import (
	"go-account-api/config"
	"go-account-api/handler"
	"go-account-api/logger"
	"go-account-api/model"
	"go-account-api/router"
	"go-account-api/service"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "test-secret-key"
	config.AppConfig.JWT.RoleKey = "0123456789abcdef0123456789abcdef"
	os.Exit(m.Run())
}

// mintToken signs an access token the way the auth service does, so the
// middleware chain can be exercised without a database.
func mintToken(t *testing.T, userID int, userName, role string, ttl time.Duration) string {
	t.Helper()

	roleData, err := service.EncryptRole(role)
	assert.NoError(t, err)

	claims := &model.AppClaims{
		UserID:   userID,
		UserName: userName,
		RoleData: roleData,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.AppConfig.JWT.SecretKey))
	assert.NoError(t, err)
	return signed
}

// The rejection paths never reach a handler, so nil handlers are fine.
func serve(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := router.NewRouter(nil, nil, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthenticatedRoutes_RejectBadCredentials(t *testing.T) {
	t.Run("missing authorization header", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/users/1", nil)
		rr := serve(t, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("malformed authorization header", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/users/1", nil)
		req.Header.Set("Authorization", "Token abc123")
		rr := serve(t, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/users/1", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		rr := serve(t, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := mintToken(t, 1, "Alice", "user", -time.Hour)
		req, _ := http.NewRequest("GET", "/users/1", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := serve(t, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAdminRoutes_RejectNonAdmin(t *testing.T) {
	token := mintToken(t, 1, "Alice", "user", 15*time.Minute)

	for _, route := range []struct{ method, path string }{
		{"GET", "/users"},
		{"DELETE", "/users/1"},
		{"POST", "/genders"},
		{"POST", "/cities"},
	} {
		req, _ := http.NewRequest(route.method, route.path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := serve(t, req)
		assert.Equal(t, http.StatusForbidden, rr.Code, "%s %s should be admin-only", route.method, route.path)
	}
}

// A valid token passes AuthMiddleware and lands the identity claims in the
// request context, with the role decrypted.
func TestAuthMiddleware_PopulatesContext(t *testing.T) {
	token := mintToken(t, 7, "Alice", "admin", 15*time.Minute)

	var gotID int
	var gotName, gotRole string
	probe := handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = r.Context().Value(handler.UserIDKey).(int)
		gotName, _ = r.Context().Value(handler.UserNameKey).(string)
		gotRole, _ = r.Context().Value(handler.UserRoleKey).(string)
		w.WriteHeader(http.StatusOK)
	}))

	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	probe.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 7, gotID)
	assert.Equal(t, "Alice", gotName)
	assert.Equal(t, "admin", gotRole)
}
