package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccountClaims is the claim set carried by an account access token.
// The subject is the account id.
type AccountClaims struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

// Token is a signed access token and the moment it stops being accepted.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}
