package models

import "net/http"

// Error codes
const (
	// General errors
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	// Authentication errors
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       = "INVALID_TOKEN"
	ErrCodeMissingToken       = "MISSING_TOKEN"
	ErrCodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	ErrCodeInvalidRole        = "INVALID_ROLE"
)

// APIError represents a structured API error
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new API error
func NewAPIError(code, message string, statusCode int) *APIError {
	return &APIError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails returns a copy of the error carrying details
func (e *APIError) WithDetails(details string) *APIError {
	cp := *e
	cp.Details = details
	return &cp
}

// Info converts the error to its response form
func (e *APIError) Info() *ErrorInfo {
	return &ErrorInfo{Code: e.Code, Message: e.Message, Details: e.Details}
}

// Authentication failures shared by the middlewares and handlers.
var (
	ErrInvalidOrExpiredToken = NewAPIError(ErrCodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)
	ErrInsufficientRole      = NewAPIError(ErrCodeForbidden, "Insufficient permissions", http.StatusForbidden)
	ErrMissingToken          = NewAPIError(ErrCodeMissingToken, "Missing authorization token", http.StatusUnauthorized)
	ErrInvalidAuthHeader     = NewAPIError(ErrCodeInvalidAuthHeader, "Invalid authorization header", http.StatusUnauthorized)
	ErrInvalidCredentials    = NewAPIError(ErrCodeInvalidCredentials, "Invalid username or password", http.StatusUnauthorized)
)
