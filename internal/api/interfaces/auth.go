package interfaces

import (
	"time"

	"session-auth/pkg/token"
)

// TokenAuthority issues and checks session tokens. *token.Manager satisfies it.
type TokenAuthority interface {
	Issue(userID, userName string, role token.Role, iap *uint64, lifetime time.Duration) (string, error)
	Verify(tokenString string) (*token.Claims, error)
	HasRole(tokenString string, allowed ...token.Role) (bool, error)
	Authorize(tokenString string, allowed ...token.Role) (*token.Claims, error)
}
