package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload. The account identifier travels as the "id" claim.
type Claims struct {
	AccountID string `json:"id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited bearer tokens.
type TokenService interface {
	// Issue signs a token for the given account.
	Issue(accountID string) (string, error)

	// Verify checks signature and expiry and returns the embedded claims.
	Verify(tokenString string) (*Claims, error)
}
