package models

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the payload of the signed session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}
