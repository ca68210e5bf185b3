package models

import (
	"time"

	"session-auth/internal/database"
	"session-auth/pkg/token"
)

// BaseResponse represents the base API response structure
type BaseResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorInfo  `json:"error,omitempty"`
	Timestamp int64       `json:"timestamp" example:"1640995200"`
	RequestID string      `json:"request_id,omitempty" example:"req_123456"`
}

// NewErrorResponse wraps e in a failed BaseResponse
func NewErrorResponse(e *APIError) BaseResponse {
	return BaseResponse{
		Success:   false,
		Error:     e.Info(),
		Timestamp: time.Now().Unix(),
	}
}

// NewSuccessResponse wraps data in a successful BaseResponse
func NewSuccessResponse(message string, data interface{}) BaseResponse {
	return BaseResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorInfo represents error information
type ErrorInfo struct {
	Code    string `json:"code" example:"INVALID_REQUEST"`
	Message string `json:"message" example:"Invalid request parameters"`
	Details string `json:"details,omitempty" example:"Field 'username' is required"`
}

// UserResponse represents user information
type UserResponse struct {
	ID          string     `json:"id" example:"3f1c2a9e-5b7d-4c1e-9f0a-2d6b8e4c7a11"`
	Username    string     `json:"username" example:"teacher1"`
	DisplayName string     `json:"display_name" example:"Jane Doe"`
	Role        token.Role `json:"role" example:"TEACHER"`
	AuxID       *uint64    `json:"aux_id,omitempty" example:"1001"`
	IsActive    bool       `json:"is_active" example:"true"`
	LastLogin   *int64     `json:"last_login,omitempty" example:"1640995200"`
	CreatedAt   int64      `json:"created_at" example:"1640995200"`
}

// NewUserResponse converts a stored user, dropping the password hash
func NewUserResponse(u *database.User) *UserResponse {
	resp := &UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		AuxID:       u.AuxID,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt.Unix(),
	}
	if u.LastLogin != nil {
		ts := u.LastLogin.Unix()
		resp.LastLogin = &ts
	}
	return resp
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Token     string        `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType string        `json:"token_type" example:"Bearer"`
	ExpiresIn int64         `json:"expires_in" example:"3600"`
	User      *UserResponse `json:"user,omitempty"`
}

// CheckRoleResponse reports whether a token holds one of the requested roles
type CheckRoleResponse struct {
	Allowed bool `json:"allowed" example:"true"`
}

// PaginatedResponse represents paginated response
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationInfo `json:"pagination"`
}

// PaginationInfo represents pagination information
type PaginationInfo struct {
	Limit   int  `json:"limit" example:"50"`
	Offset  int  `json:"offset" example:"0"`
	Count   int  `json:"count" example:"20"`
	HasNext bool `json:"has_next" example:"false"`
}

// HealthCheckResponse represents health check response
type HealthCheckResponse struct {
	Status    string                 `json:"status" example:"healthy"`
	Timestamp int64                  `json:"timestamp" example:"1640995200"`
	Version   string                 `json:"version" example:"1.0.0"`
	Uptime    int64                  `json:"uptime" example:"86400"`
	Checks    map[string]HealthCheck `json:"checks"`
}

// HealthCheck represents individual health check
type HealthCheck struct {
	Status  string `json:"status" example:"healthy"`
	Message string `json:"message,omitempty" example:"Service is running normally"`
	Latency string `json:"latency,omitempty" example:"5ms"`
}
