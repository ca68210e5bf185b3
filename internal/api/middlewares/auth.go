package middlewares

import (
	"errors"
	"strings"

	"session-auth/internal/api/interfaces"
	"session-auth/internal/api/models"
	"session-auth/pkg/token"

	"github.com/gin-gonic/gin"
)

// Context keys set by the authentication middlewares
const (
	ContextKeyClaims   = "claims"
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

// RolePermission names a set of roles allowed through RequireRole.
type RolePermission struct {
	Name  string
	Roles []token.Role
}

// Predefined permissions. Each single-role permission admits only that role.
var (
	Admin            = RolePermission{Name: "admin", Roles: []token.Role{token.RoleAdmin}}
	Manager          = RolePermission{Name: "manager", Roles: []token.Role{token.RoleManager}}
	Teacher          = RolePermission{Name: "teacher", Roles: []token.Role{token.RoleTeacher}}
	Student          = RolePermission{Name: "student", Roles: []token.Role{token.RoleStudent}}
	AnyAuthenticated = RolePermission{Name: "any_authenticated", Roles: token.Roles()}
)

// AnyOf builds a permission admitting any of roles.
func AnyOf(name string, roles ...token.Role) RolePermission {
	return RolePermission{Name: name, Roles: roles}
}

// ExtractBearerToken returns the token from an "Authorization: Bearer <token>"
// header.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", token.ErrMissingToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", token.ErrInvalidAuthHeader
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", token.ErrInvalidAuthHeader
	}

	return tokenString, nil
}

// JWTAuth verifies the bearer token and stores its claims in the context.
func JWTAuth(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := ExtractBearerToken(c)
		if err != nil {
			rejectRequest(c, services, err)
			return
		}

		claims, err := services.AuthService().Verify(tokenString)
		if err != nil {
			rejectRequest(c, services, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// RequireRole verifies the bearer token and admits only the roles in perm.
func RequireRole(services interfaces.Services, perm RolePermission) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := ExtractBearerToken(c)
		if err != nil {
			rejectRequest(c, services, err)
			return
		}

		claims, err := services.AuthService().Authorize(tokenString, perm.Roles...)
		if err != nil {
			rejectRequest(c, services, err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by JWTAuth or RequireRole.
func ClaimsFromContext(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(ContextKeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok && claims != nil
}

// AuthErrorFor maps an authentication failure to its API error. Anything
// that is not a header or role problem is reported as an invalid token.
func AuthErrorFor(err error) *models.APIError {
	switch {
	case errors.Is(err, token.ErrForbidden):
		return models.ErrInsufficientRole
	case errors.Is(err, token.ErrMissingToken):
		return models.ErrMissingToken
	case errors.Is(err, token.ErrInvalidAuthHeader):
		return models.ErrInvalidAuthHeader
	default:
		return models.ErrInvalidOrExpiredToken
	}
}

// AbortWithAuthError writes the response for an authentication failure and
// aborts the chain.
func AbortWithAuthError(c *gin.Context, err error) {
	apiErr := AuthErrorFor(err)
	resp := models.NewErrorResponse(apiErr)
	resp.RequestID = c.GetString(ContextKeyRequestID)
	c.AbortWithStatusJSON(apiErr.StatusCode, resp)
}

func rejectRequest(c *gin.Context, services interfaces.Services, err error) {
	services.GetLogger().SecurityLogger("auth_rejected", c.GetString(ContextKeyUserID),
		c.Request.Method+" "+c.FullPath()+": "+err.Error())
	AbortWithAuthError(c, err)
}

func setClaims(c *gin.Context, claims *token.Claims) {
	c.Set(ContextKeyClaims, claims)
	c.Set(ContextKeyUserID, claims.UserID)
	c.Set(ContextKeyUserRole, claims.Role)
}
