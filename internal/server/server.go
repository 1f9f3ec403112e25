// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"log"
	"time"

	"socialite/internal/cache"
	"socialite/internal/config"
	"socialite/internal/database"
	"socialite/internal/middleware"
	"socialite/internal/repository"
	"socialite/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	accounts       *service.AccountService
	relationships  *service.RelationshipService
	images         *service.ImageService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and an optional Redis client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)

	return &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("socialite-api"),
		userRepo:       userRepo,
		accounts:       service.NewAccountService(userRepo),
		relationships:  service.NewRelationshipService(userRepo),
		images:         service.NewImageService(cfg),
	}
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Prometheus HTTP metrics
	if s.promMiddleware != nil {
		middleware.RegisterMetrics(app, s.promMiddleware, "/metrics")
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid)
	app.Use(middleware.StructuredLogger())

	// OpenTelemetry span per request
	app.Use(middleware.Tracing())

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	// Uploaded profile images are served directly from disk.
	app.Static(service.PublicImagePathPrefix, s.images.UploadDir())

	api := app.Group("/api")

	api.Get("/health", s.HealthCheck)
	api.Get("/monitor", monitor.New(monitor.Config{
		Title: "Socialite Backend Metrics",
	}))

	users := api.Group("/users")

	// Account routes
	users.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	users.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Post("/logout", s.Logout)

	// Profile routes; the username lookup must be registered before the
	// generic /profile/:userId route.
	users.Get("/profile/username/:username", s.GetProfileByUsername)
	users.Get("/profile/:userId", s.GetProfile)
	users.Put("/profile/:userId", s.UpdateProfile)

	// Follow system routes
	users.Post("/follow/:followerId/:followingId", middleware.RateLimit(s.redis, 30, time.Minute, "follow"), s.FollowUser)
	users.Post("/unfollow/:followerId/:followingId", middleware.RateLimit(s.redis, 30, time.Minute, "follow"), s.UnfollowUser)
	users.Get("/followers/:userId", s.GetFollowers)
	users.Get("/following/:userId", s.GetFollowing)

	// Search and listing
	users.Get("/search", middleware.RateLimit(s.redis, 10, time.Minute, "search"), s.SearchUsers)
	users.Get("/all", s.GetAllUsers)

	// File upload routes
	users.Post("/upload-profile-image/:userId", s.UploadProfileImage)
	users.Post("/upload-avatar/:userId", s.UploadAvatar)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
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
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Socialite",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown releases server resources.
func (s *Server) Shutdown(_ context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
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
