package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims are the access token claims. RoleData is an AES-GCM encrypted
// blob holding the role name; the plain role never appears in the token.
type AppClaims struct {
	UserID   int    `json:"user_id"`
	UserName string `json:"user_name"`
	RoleData string `json:"role_data"`
	jwt.RegisteredClaims
}
