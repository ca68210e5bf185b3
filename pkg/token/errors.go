package token

import "errors"

var (
	// ErrSigningFailure is returned when a token cannot be encoded or signed.
	ErrSigningFailure = errors.New("failed to sign token")
	// ErrInvalidOrExpired covers bad signatures, malformed tokens and expiry alike.
	ErrInvalidOrExpired = errors.New("invalid or expired token")
	// ErrForbidden means the token is valid but its role is not allowed.
	ErrForbidden = errors.New("insufficient permissions")
	// ErrMissingToken is raised by the HTTP layer when no credential was sent.
	ErrMissingToken = errors.New("missing authorization token")
	// ErrInvalidAuthHeader is raised by the HTTP layer for a malformed Authorization header.
	ErrInvalidAuthHeader = errors.New("invalid authorization header")
)

// TokenInvalidError is returned by Authorize when the token failed verification.
type TokenInvalidError struct {
	Err error
}

func (e *TokenInvalidError) Error() string {
	return "token invalid: " + e.Err.Error()
}

func (e *TokenInvalidError) Unwrap() error {
	return e.Err
}
