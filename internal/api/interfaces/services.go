package interfaces

import (
	"session-auth/internal/database/repositories"
	"session-auth/pkg/config"
	"session-auth/pkg/logger"
)

// Services defines the interface for API services
type Services interface {
	GetLogger() *logger.Logger
	GetConfig() *config.Config
	AuthService() TokenAuthority
	UserRepository() *repositories.UserRepository
	IsHealthy() bool
}
