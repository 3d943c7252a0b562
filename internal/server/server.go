// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"gameratez/internal/cache"
	"gameratez/internal/config"
	"gameratez/internal/database"
	"gameratez/internal/filestore"
	"gameratez/internal/games"
	"gameratez/internal/middleware"
	"gameratez/internal/models"
	"gameratez/internal/repository"
	"gameratez/internal/service"
	"gameratez/internal/signup"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB         // nil in file mode
	store          *filestore.Store // nil in postgres mode
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	startedAt      time.Time

	userRepo         repository.UserRepository
	rateRepo         repository.RateRepository
	engagementRepo   repository.EngagementRepository
	followRepo       repository.FollowRepository
	notificationRepo repository.NotificationRepository
	messageRepo      repository.MessageRepository

	tokens  *signup.TokenStore
	catalog *games.Catalog

	rateService         *service.RateService
	engagementService   *service.EngagementService
	followService       *service.FollowService
	notificationService *service.NotificationService
	messageService      *service.MessageService
	authService         *service.AuthService
}

// Deps bundles already-initialized dependencies for NewServerWithDeps. Exactly
// one of DB and Store must be set; the rest falls back to sane defaults.
type Deps struct {
	DB         *gorm.DB
	Store      *filestore.Store
	Redis      *redis.Client
	Catalog    *games.Catalog
	Tokens     *signup.TokenStore
	MXResolver service.MXResolver
	Now        func() time.Time
}

// NewServer creates a new server instance, establishing the configured
// storage backend and Redis.
func NewServer(cfg *config.Config) (*Server, error) {
	deps := Deps{}

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		deps.DB = db
	case config.BackendFile:
		store, err := filestore.Open(cfg.DataDir, middleware.Logger)
		if err != nil {
			return nil, fmt.Errorf("opening file store failed: %w", err)
		}
		deps.Store = store
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}

	cache.InitRedis(cfg.RedisURL)
	deps.Redis = cache.GetClient()

	if cfg.GamesFile != "" {
		catalog, err := games.Load(cfg.GamesFile)
		if err != nil {
			return nil, fmt.Errorf("loading game catalog failed: %w", err)
		}
		deps.Catalog = catalog
	}

	return NewServerWithDeps(cfg, deps)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes the backend itself.
func NewServerWithDeps(cfg *config.Config, deps Deps) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             deps.DB,
		store:          deps.Store,
		redis:          deps.Redis,
		promMiddleware: fiberprometheus.New("gameratez-api"),
		startedAt:      time.Now(),
		tokens:         deps.Tokens,
		catalog:        deps.Catalog,
	}

	switch {
	case deps.Store != nil:
		server.userRepo = deps.Store.Users()
		server.rateRepo = deps.Store.Rates()
		server.engagementRepo = deps.Store.Engagement()
		server.followRepo = deps.Store.Follows()
		server.notificationRepo = deps.Store.Notifications()
		server.messageRepo = deps.Store.Messages()
	case deps.DB != nil:
		server.userRepo = repository.NewUserRepository(deps.DB)
		server.rateRepo = repository.NewRateRepository(deps.DB)
		server.engagementRepo = repository.NewEngagementRepository(deps.DB)
		server.followRepo = repository.NewFollowRepository(deps.DB)
		server.notificationRepo = repository.NewNotificationRepository(deps.DB)
		server.messageRepo = repository.NewMessageRepository(deps.DB)
	default:
		return nil, fmt.Errorf("either a database or a file store is required")
	}

	if server.tokens == nil {
		server.tokens = signup.NewTokenStore(signup.DefaultTTL)
	}
	if server.catalog == nil {
		server.catalog = games.Default()
	}

	server.rateService = service.NewRateService(
		server.rateRepo, server.userRepo, server.followRepo, server.engagementRepo,
		server.catalog, deps.Now)
	server.engagementService = service.NewEngagementService(
		server.rateRepo, server.engagementRepo, server.userRepo,
		server.notificationRepo, deps.Now)
	server.followService = service.NewFollowService(
		server.followRepo, server.userRepo, server.notificationRepo, deps.Now)
	server.notificationService = service.NewNotificationService(server.notificationRepo)
	server.messageService = service.NewMessageService(server.messageRepo, server.userRepo, deps.Now)
	server.authService = service.NewAuthService(server.userRepo, server.tokens, deps.MXResolver)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and username
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry span per request (reads the request id and username locals)
	app.Use(middleware.TracingMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, x-admin-token",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (240 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        240,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Uploaded images
	app.Static("/uploads", s.config.UploadDir)

	// Auth routes share one redis-backed window
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 60, 15*time.Minute, "auth"), s.Signup)
	auth.Post("/complete", middleware.RateLimit(
		s.redis, 60, 15*time.Minute, "auth"), s.CompleteSignup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 60, 15*time.Minute, "auth"), s.Login)

	// Rate routes. Specific /:id/:resource routes BEFORE generic /:id.
	rates := api.Group("/rates")
	rates.Get("/", s.GetRates)
	rates.Post("/", s.CreateRate)
	rates.Get("/trending", s.GetTrending)
	rates.Post("/:id/like", s.LikeRate)
	rates.Delete("/:id/like", s.UnlikeRate)
	rates.Post("/:id/bookmark", s.BookmarkRate)
	rates.Delete("/:id/bookmark", s.UnbookmarkRate)
	rates.Get("/:id/comments", s.GetComments)
	rates.Post("/:id/comments", s.CreateComment)
	rates.Post("/:id/report", s.ReportRate)
	rates.Post("/:id/poll/vote", s.VotePoll)
	rates.Get("/:id", s.GetRate)

	// Search
	api.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.SearchEverything)

	// Follow routes
	api.Get("/follow", s.GetFollowStatus)
	api.Post("/follow", s.Follow)
	api.Delete("/follow", s.Unfollow)
	api.Get("/following", s.GetFollowing)

	// Notification routes
	notifications := api.Group("/notifications")
	notifications.Get("/", s.GetNotifications)
	notifications.Get("/unread-count", s.GetUnreadCount)
	notifications.Patch("/read-all", s.MarkAllNotificationsRead)
	notifications.Patch("/:id/read", s.MarkNotificationRead)

	// Message routes
	messages := api.Group("/messages")
	messages.Get("/conversations", s.GetConversations)
	messages.Get("/", s.GetMessageThread)
	messages.Post("/", s.SendMessage)

	// Uploads
	api.Post("/upload-image", s.UploadImage)

	// User routes
	api.Get("/users/profile", s.GetUserProfile)

	// Admin routes
	admin := api.Group("/admin", s.AdminRequired())
	admin.Delete("/rates/:id", s.AdminDeleteRate)
}

// HealthCheck handles the plain health endpoint with process uptime.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"ok":     true,
		"uptime": time.Since(s.startedAt).String(),
	})
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests. In file mode the store is
// in-process, so only Redis is probed; Redis being down degrades the report
// but does not fail readiness because rate limiting fails open.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			storeStatus = "unhealthy"
		} else if err := sqlDB.PingContext(ctx); err != nil {
			storeStatus = "unhealthy"
		}
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
			"redis": redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects requests whose x-admin-token
// header does not match the configured secret.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Get("x-admin-token")
		if token == "" || token != s.config.AdminToken {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Admin access required"))
		}
		return c.Next()
	}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "gameratez API",
		BodyLimit: 10 * 1024 * 1024, // 10MB limit
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			if cerr := sqlDB.Close(); cerr != nil {
				log.Printf("error closing sql DB: %v", cerr)
			}
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
