package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/contracthub/auth-service/internal/api/handler"
	"github.com/contracthub/auth-service/internal/api/middleware"
	"github.com/contracthub/auth-service/internal/core/domain"
	"github.com/contracthub/auth-service/internal/core/service"
	"github.com/contracthub/auth-service/internal/infrastructure/config"
	mongodb "github.com/contracthub/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/contracthub/auth-service/internal/infrastructure/db/redis"
	"github.com/contracthub/auth-service/internal/infrastructure/http/handlers"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	hasher := instrumentHasher(service.NewBcryptHasher(cfg.BcryptCost))
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	limiter := redisdb.NewLoginLimiter(rdb, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow)

	authService, err := service.NewAuthService(userRepo, hasher, tokens, limiter)
	if err != nil {
		return nil, err
	}
	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authMiddleware)

	// --- Admin routes (role-gated) ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdministrator))
	admin.GET("/users/:id", authHandler.GetUser)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
