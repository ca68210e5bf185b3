package api

import (
	"session-auth/internal/api/handlers"
	"session-auth/internal/api/interfaces"
	"session-auth/internal/api/middlewares"
	"session-auth/pkg/token"

	"github.com/gin-gonic/gin"
)

// Staff admits every role except STUDENT.
var Staff = middlewares.AnyOf("staff", token.RoleAdmin, token.RoleManager, token.RoleTeacher)

// SetupRoutes configures all API routes with proper middleware
func SetupRoutes(router *gin.Engine, services interfaces.Services) {
	log := services.GetLogger().WithComponent("http")

	// Global middleware
	router.Use(middlewares.RequestLogging(log))
	router.Use(middlewares.Recovery(log))
	router.Use(middlewares.CORS(services.GetConfig().API.CORS))
	router.Use(middlewares.Security())

	// Health check (no auth required)
	router.GET("/health", handlers.HealthCheck(services))
	router.GET("/ping", handlers.HealthCheck(services))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		setupAuthRoutes(v1, services)
		setupStaffRoutes(v1, services)
		setupAdminRoutes(v1, services)
	}
}

// setupAuthRoutes configures login and token introspection
func setupAuthRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", handlers.Login(services))
		auth.POST("/verify", handlers.VerifyToken(services))
		auth.POST("/check", handlers.CheckRole(services))
		auth.GET("/me", middlewares.JWTAuth(services), handlers.CurrentUser(services))
	}
}

// setupStaffRoutes configures routes open to every role but STUDENT
func setupStaffRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	staff := rg.Group("/staff")
	staff.Use(middlewares.RequireRole(services, Staff))
	{
		staff.GET("/ping", handlers.StaffPing(services))
	}
}

// setupAdminRoutes configures admin-only routes
func setupAdminRoutes(rg *gin.RouterGroup, services interfaces.Services) {
	admin := rg.Group("/admin")
	admin.Use(middlewares.RequireRole(services, middlewares.Admin))
	{
		users := admin.Group("/users")
		{
			users.POST("", handlers.CreateUser(services))
			users.GET("", handlers.ListUsers(services))
			users.GET("/:id", handlers.GetUser(services))
			users.POST("/:id/activate", handlers.ActivateUser(services))
			users.POST("/:id/deactivate", handlers.DeactivateUser(services))
		}
	}
}
