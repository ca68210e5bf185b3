package handlers

import (
	"errors"
	"net/http"

	"session-auth/internal/api/interfaces"
	"session-auth/internal/api/middlewares"
	"session-auth/internal/api/models"
	"session-auth/internal/database/repositories"
	"session-auth/pkg/token"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Login checks a username and password against the user directory and
// issues a session token for the configured lifetime.
func Login(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := requestLogger(c, services)

		var req models.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errInvalidRequest.WithDetails(err.Error()))
			return
		}

		user, err := services.UserRepository().GetByUsername(c.Request.Context(), req.Username)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				log.SecurityLogger("login_failed", "", "unknown or inactive user: "+req.Username)
				respondError(c, models.ErrInvalidCredentials)
				return
			}
			log.Error("Failed to load user for login: %v", err)
			respondError(c, errInternal)
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.SecurityLogger("login_failed", user.ID, "password mismatch")
			respondError(c, models.ErrInvalidCredentials)
			return
		}

		lifetime := services.GetConfig().Security.JWTExpiration
		signed, err := services.AuthService().Issue(user.ID, user.DisplayName, user.Role, user.AuxID, lifetime)
		if err != nil {
			log.Error("Failed to issue token: %v", err)
			respondError(c, errInternal)
			return
		}

		if err := services.UserRepository().UpdateLastLogin(c.Request.Context(), user.ID); err != nil {
			log.Warning("Failed to record last login: %v", err)
		}
		log.AuditLogger("token_issued", user.ID, "session", "role="+user.Role.String())

		respondSuccess(c, http.StatusOK, "Login successful", models.AuthResponse{
			Token:     signed,
			TokenType: "Bearer",
			ExpiresIn: int64(lifetime.Seconds()),
			User:      models.NewUserResponse(user),
		})
	}
}

// VerifyToken introspects a token passed in the request body and returns
// its claims.
func VerifyToken(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyTokenRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errInvalidRequest.WithDetails(err.Error()))
			return
		}

		claims, err := services.AuthService().Verify(req.Token)
		if err != nil {
			respondError(c, middlewares.AuthErrorFor(err))
			return
		}

		respondSuccess(c, http.StatusOK, "Token is valid", claims)
	}
}

// CurrentUser returns the claims of the authenticated caller
func CurrentUser(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middlewares.ClaimsFromContext(c)
		if !ok {
			respondError(c, models.ErrMissingToken)
			return
		}
		respondSuccess(c, http.StatusOK, "", claims)
	}
}

// CheckRole reports whether the bearer token holds any of the requested
// roles. An invalid or expired token is reported as not allowed.
func CheckRole(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := middlewares.ExtractBearerToken(c)
		if err != nil {
			respondError(c, middlewares.AuthErrorFor(err))
			return
		}

		var req models.CheckRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, errInvalidRequest.WithDetails(err.Error()))
			return
		}

		roles := make([]token.Role, 0, len(req.Roles))
		for _, r := range req.Roles {
			role, err := token.ParseRole(r)
			if err != nil {
				respondError(c, invalidRole(r))
				return
			}
			roles = append(roles, role)
		}

		allowed, err := services.AuthService().HasRole(tokenString, roles...)
		if err != nil {
			requestLogger(c, services).Debug("Role check on invalid token", "error", err.Error())
		}

		respondSuccess(c, http.StatusOK, "", models.CheckRoleResponse{Allowed: allowed})
	}
}

// StaffPing is a probe for staff-only access
func StaffPing(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, _ := middlewares.ClaimsFromContext(c)
		data := gin.H{"message": "pong"}
		if claims != nil {
			data["user_id"] = claims.UserID
			data["role"] = claims.Role
		}
		respondSuccess(c, http.StatusOK, "", data)
	}
}
