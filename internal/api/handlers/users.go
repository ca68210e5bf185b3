package handlers

import (
	"errors"
	"net/http"

	"session-auth/internal/api/interfaces"
	"session-auth/internal/api/middlewares"
	"session-auth/internal/api/models"
	"session-auth/internal/database"
	"session-auth/internal/database/repositories"
	"session-auth/pkg/token"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var (
	errUserNotFound   = models.NewAPIError(models.ErrCodeNotFound, "User not found", http.StatusNotFound)
	errDuplicateUser  = models.NewAPIError(models.ErrCodeConflict, "Username already exists", http.StatusConflict)
	errSelfDeactivate = models.NewAPIError(models.ErrCodeConflict, "Administrators cannot deactivate themselves", http.StatusConflict)
)

func invalidRole(role string) *models.APIError {
	return models.NewAPIError(models.ErrCodeInvalidRole, "Unknown role", http.StatusBadRequest).WithDetails(role)
}

// actorID is the id of the authenticated caller, for audit records
func actorID(c *gin.Context) string {
	return c.GetString(middlewares.ContextKeyUserID)
}

// CreateUser adds an account to the user directory
func CreateUser(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := requestLogger(c, services)

		var req models.UserCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errInvalidRequest.WithDetails(err.Error()))
			return
		}

		role, err := token.ParseRole(req.Role)
		if err != nil {
			respondError(c, invalidRole(req.Role))
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), services.GetConfig().Security.BcryptCost)
		if err != nil {
			log.Error("Failed to hash password: %v", err)
			respondError(c, errInternal)
			return
		}

		user := &database.User{
			Username:     req.Username,
			DisplayName:  req.DisplayName,
			PasswordHash: string(hash),
			Role:         role,
			AuxID:        req.AuxID,
			IsActive:     true,
		}
		if err := services.UserRepository().Create(c.Request.Context(), user); err != nil {
			if errors.Is(err, repositories.ErrDuplicateUsername) {
				respondError(c, errDuplicateUser)
				return
			}
			log.Error("Failed to create user: %v", err)
			respondError(c, errInternal)
			return
		}

		log.AuditLogger("user_created", actorID(c), "users", "id="+user.ID+" role="+role.String())
		respondSuccess(c, http.StatusCreated, "User created", models.NewUserResponse(user))
	}
}

// ListUsers returns a page of users, optionally filtered by role
func ListUsers(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q models.UserListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			respondError(c, errInvalidRequest.WithDetails(err.Error()))
			return
		}

		var role token.Role
		if q.Role != "" {
			parsed, err := token.ParseRole(q.Role)
			if err != nil {
				respondError(c, invalidRole(q.Role))
				return
			}
			role = parsed
		}

		// One extra row tells whether another page exists.
		users, err := services.UserRepository().List(c.Request.Context(), role, q.Limit+1, q.Offset)
		if err != nil {
			requestLogger(c, services).Error("Failed to list users: %v", err)
			respondError(c, errInternal)
			return
		}

		hasNext := len(users) > q.Limit
		if hasNext {
			users = users[:q.Limit]
		}

		out := make([]*models.UserResponse, 0, len(users))
		for i := range users {
			out = append(out, models.NewUserResponse(&users[i]))
		}

		respondSuccess(c, http.StatusOK, "", models.PaginatedResponse{
			Data: out,
			Pagination: models.PaginationInfo{
				Limit:   q.Limit,
				Offset:  q.Offset,
				Count:   len(out),
				HasNext: hasNext,
			},
		})
	}
}

// GetUser returns a single user by id
func GetUser(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := services.UserRepository().GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				respondError(c, errUserNotFound)
				return
			}
			requestLogger(c, services).Error("Failed to load user: %v", err)
			respondError(c, errInternal)
			return
		}

		respondSuccess(c, http.StatusOK, "", models.NewUserResponse(user))
	}
}

// ActivateUser re-enables a deactivated account
func ActivateUser(services interfaces.Services) gin.HandlerFunc {
	return setUserActive(services, true)
}

// DeactivateUser disables an account so it can no longer log in. Tokens
// already issued stay valid until they expire.
func DeactivateUser(services interfaces.Services) gin.HandlerFunc {
	return setUserActive(services, false)
}

func setUserActive(services interfaces.Services, active bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("id")
		if !active && userID == actorID(c) {
			respondError(c, errSelfDeactivate)
			return
		}

		if err := services.UserRepository().SetActive(c.Request.Context(), userID, active); err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				respondError(c, errUserNotFound)
				return
			}
			requestLogger(c, services).Error("Failed to update user: %v", err)
			respondError(c, errInternal)
			return
		}

		action := "user_deactivated"
		if active {
			action = "user_activated"
		}
		requestLogger(c, services).AuditLogger(action, actorID(c), "users", "id="+userID)

		respondSuccess(c, http.StatusOK, "User updated", gin.H{"id": userID, "is_active": active})
	}
}
