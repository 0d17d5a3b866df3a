package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the authenticated identity through the HTTP layer.
type JWTClaims struct {
	AccountID int    `json:"accountId"`
	Role      Role   `json:"role"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	jwt.RegisteredClaims
}
