package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload signed into every session token.
type Claims struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	// IAP is an optional auxiliary identifier. It is encoded as null when unset.
	IAP       *uint64 `json:"iap"`
	IssuedAt  uint64  `json:"iat"`
	ExpiresAt uint64  `json:"exp"`
	Role      Role    `json:"role"`
}

var _ jwt.ClaimsValidator = (*Claims)(nil)

// GetExpirationTime implements jwt.Claims.
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	return numericDate(c.ExpiresAt), nil
}

// GetIssuedAt implements jwt.Claims.
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	return numericDate(c.IssuedAt), nil
}

// GetNotBefore implements jwt.Claims. Session tokens carry no nbf.
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) {
	return nil, nil
}

// GetIssuer implements jwt.Claims.
func (c Claims) GetIssuer() (string, error) {
	return "", nil
}

// GetSubject implements jwt.Claims and maps to the user id.
func (c Claims) GetSubject() (string, error) {
	return c.UserID, nil
}

// GetAudience implements jwt.Claims.
func (c Claims) GetAudience() (jwt.ClaimStrings, error) {
	return nil, nil
}

// Validate is called by the parser after the registered claims passed.
func (c Claims) Validate() error {
	if c.UserID == "" {
		return errors.New("missing userId claim")
	}
	if !c.Role.IsValid() {
		return errors.New("missing or unknown role claim")
	}
	return nil
}

// Lifetime is the validity window encoded in the claims.
func (c Claims) Lifetime() time.Duration {
	return time.Duration(int64(c.ExpiresAt)-int64(c.IssuedAt)) * time.Second
}

func numericDate(sec uint64) *jwt.NumericDate {
	return jwt.NewNumericDate(time.Unix(int64(sec), 0))
}
