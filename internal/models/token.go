package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims is the session payload minted by the auth service.
type JWTClaims struct {
	UserID string   `json:"user_id"`
	Role   UserRole `json:"role"`
	Email  string   `json:"email"`
	jwt.RegisteredClaims
}
