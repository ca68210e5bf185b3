// Package token issues and verifies HS256 session tokens and performs
// role based authorization on top of them.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretKeyLen is the minimum secret length accepted by configuration validation.
const MinSecretKeyLen = 32

// Config holds Manager settings.
type Config struct {
	SecretKey string
	// Leeway tolerates clock skew when checking exp. Zero means now >= exp is expired.
	Leeway time.Duration
	// Now overrides the wall clock. Nil uses time.Now.
	Now func() time.Time
}

// Manager signs and verifies session tokens. It is immutable after New
// and safe for concurrent use.
type Manager struct {
	secretKey []byte
	leeway    time.Duration
	now       func() time.Time
}

// New builds a Manager from cfg.
func New(cfg Config) (*Manager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	if cfg.Leeway < 0 {
		return nil, fmt.Errorf("leeway must not be negative, got %s", cfg.Leeway)
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Manager{
		secretKey: []byte(cfg.SecretKey),
		leeway:    cfg.Leeway,
		now:       now,
	}, nil
}

// Issue signs a token for the given identity. exp is iat plus lifetime,
// truncated to whole seconds; a non-positive lifetime produces a token that
// is already expired.
func (m *Manager) Issue(userID, userName string, role Role, iap *uint64, lifetime time.Duration) (string, error) {
	if !role.IsValid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrSigningFailure, string(role))
	}

	iat := m.now().UTC().Unix()
	exp := iat + int64(lifetime/time.Second)
	if exp < 0 {
		exp = 0
	}

	claims := Claims{
		UserID:    userID,
		UserName:  userName,
		IAP:       iap,
		IssuedAt:  uint64(iat),
		ExpiresAt: uint64(exp),
		Role:      role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSigningFailure, err)
	}

	return signed, nil
}

// Verify checks the signature and expiry of tokenString and returns its claims.
// Every failure is reported as ErrInvalidOrExpired.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, m.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(m.leeway),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrExpired, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidOrExpired
	}

	return claims, nil
}

// HasRole verifies tokenString and reports whether its role is in allowed.
// A verification failure is returned together with false.
func (m *Manager) HasRole(tokenString string, allowed ...Role) (bool, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return false, err
	}
	return containsRole(allowed, claims.Role), nil
}

// Authorize verifies tokenString and requires its role to be in allowed.
// It returns *TokenInvalidError when verification fails and ErrForbidden
// when the role is not permitted.
func (m *Manager) Authorize(tokenString string, allowed ...Role) (*Claims, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return nil, &TokenInvalidError{Err: err}
	}
	if !containsRole(allowed, claims.Role) {
		return nil, ErrForbidden
	}
	return claims, nil
}

func (m *Manager) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
	}
	return m.secretKey, nil
}
