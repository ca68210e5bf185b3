package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"session-auth/internal/api/interfaces"
	"session-auth/internal/database"
	"session-auth/internal/database/repositories"
	"session-auth/pkg/config"
	"session-auth/pkg/logger"
	"session-auth/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

// Services contains all the dependencies for API handlers
type Services struct {
	DB     *sql.DB
	Logger *logger.Logger
	Config *config.Config

	authService    interfaces.TokenAuthority
	userRepository *repositories.UserRepository
}

// NewServices creates a new services container
func NewServices(
	db *sql.DB,
	logger *logger.Logger,
	config *config.Config,
	authService interfaces.TokenAuthority,
) *Services {
	return &Services{
		DB:             db,
		Logger:         logger,
		Config:         config,
		authService:    authService,
		userRepository: repositories.NewUserRepository(db),
	}
}

// Start prepares the services for serving, creating the bootstrap
// administrator when one is configured and missing.
func (s *Services) Start(ctx context.Context) error {
	s.Logger.Info("Starting API services...")

	if err := s.bootstrapAdmin(ctx); err != nil {
		s.Logger.Error("Failed to bootstrap administrator: %v", err)
		return err
	}

	s.Logger.Info("All API services started successfully")
	return nil
}

// Stop releases service resources. The database handle is owned by the caller.
func (s *Services) Stop() {
	s.Logger.Info("API services stopped")
}

func (s *Services) bootstrapAdmin(ctx context.Context) error {
	b := s.Config.Bootstrap
	if !b.Enabled() {
		return nil
	}

	exists, err := s.userRepository.Exists(ctx, b.AdminUsername)
	if err != nil {
		return err
	}
	if exists {
		s.Logger.Debug("Bootstrap administrator already present", "username", b.AdminUsername)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(b.AdminPassword), s.Config.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("hash bootstrap password: %w", err)
	}

	admin := &database.User{
		Username:     b.AdminUsername,
		DisplayName:  b.AdminName,
		PasswordHash: string(hash),
		Role:         token.RoleAdmin,
		IsActive:     true,
	}
	if err := s.userRepository.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicateUsername) {
			return nil
		}
		return err
	}

	s.Logger.AuditLogger("bootstrap_admin_created", admin.ID, "users", "username="+admin.Username)
	return nil
}

// Interface implementation methods
func (s *Services) GetLogger() *logger.Logger {
	return s.Logger
}

func (s *Services) GetConfig() *config.Config {
	return s.Config
}

func (s *Services) AuthService() interfaces.TokenAuthority {
	return s.authService
}

func (s *Services) UserRepository() *repositories.UserRepository {
	return s.userRepository
}

// IsHealthy checks if the user directory is reachable
func (s *Services) IsHealthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		s.Logger.Error("Database health check failed: %v", err)
		return false
	}
	return true
}
