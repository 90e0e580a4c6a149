// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "reelcorps/docs" // swagger docs
	"reelcorps/internal/cache"
	"reelcorps/internal/config"
	"reelcorps/internal/featureflags"
	"reelcorps/internal/festivals"
	"reelcorps/internal/middleware"
	"reelcorps/internal/models"
	"reelcorps/internal/notifications"
	"reelcorps/internal/observability"
	"reelcorps/internal/repository"
	"reelcorps/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	jwtIssuer   = "reelcorps-api"
	jwtAudience = "reelcorps-client"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	friendRepo       repository.FriendRepository
	scriptRepo       repository.ScriptRepository
	projectRepo      repository.ProjectRepository
	forumRepo        repository.ForumRepository
	messageRepo      repository.MessageRepository
	submissionRepo   repository.SubmissionRepository
	creditRepo       repository.CreditRepository
	generationRepo   repository.GenerationRepository
	posterRepo       repository.PosterRepository

	creditService       *service.CreditService
	verificationService *service.VerificationService
	generationService   *service.GenerationService
	posterService       *service.PosterService

	notifier     *notifications.Notifier
	hub          *notifications.Hub
	featureFlags *featureflags.Manager
	festivals    *festivals.Catalog
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and optionally
// performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	catalog, err := festivals.Load()
	if err != nil {
		return nil, fmt.Errorf("festival catalog: %w", err)
	}

	// Initialize Prometheus metrics
	prom := middleware.InitMetrics("reelcorps-api")

	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   prom,
		userRepo:         repository.NewUserRepository(db),
		verificationRepo: repository.NewVerificationRepository(db),
		friendRepo:       repository.NewFriendRepository(db),
		scriptRepo:       repository.NewScriptRepository(db),
		projectRepo:      repository.NewProjectRepository(db),
		forumRepo:        repository.NewForumRepository(db),
		messageRepo:      repository.NewMessageRepository(db),
		submissionRepo:   repository.NewSubmissionRepository(db),
		creditRepo:       repository.NewCreditRepository(db),
		generationRepo:   repository.NewGenerationRepository(db),
		posterRepo:       repository.NewPosterRepository(db),
		featureFlags:     featureflags.NewManager(cfg.FeatureFlags),
		festivals:        catalog,
	}

	server.creditService = service.NewCreditService(
		server.creditRepo, server.userRepo, cfg.SignupBonusCredits, cfg.ReferralBonusCredits)
	server.verificationService = service.NewVerificationService(server.verificationRepo, server.userRepo)
	server.generationService = service.NewGenerationService(server.generationRepo, server.creditRepo)
	server.posterService = service.NewPosterService(server.posterRepo, cfg)

	// Initialize notifier and hub if Redis is available
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub(redisClient)
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
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
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
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
	// Backwards-compatible legacy route: map /health to readiness
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "ReelCorps Backend Metrics Dashboard",
	}))

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	// Festival catalog is public reference data
	festivalRoutes := api.Group("/festivals")
	festivalRoutes.Get("/", s.GetFestivals)
	festivalRoutes.Get("/:slug", s.GetFestival)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/", s.GetAllUsers)

	// WebSocket ticket issuance
	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)

	// Generic /:id route must come after the specific /me route
	users.Get("/:id", s.GetUserProfile)

	// Service verification routes
	verification := protected.Group("/verification")
	verification.Post("/", middleware.RateLimit(
		s.redis, 3, 24*time.Hour, "verification_submit"), s.SubmitVerification)
	verification.Get("/me", s.GetMyVerificationHistory)

	// Credit routes: every member can see their balance and ledger
	credits := protected.Group("/credits")
	credits.Get("/", s.GetCreditBalance)
	credits.Get("/history", s.GetCreditHistory)

	// Everything below the membership gate requires a verified service record.
	verified := protected.Group("", s.VerifiedRequired())

	// Friend routes
	friends := verified.Group("/friends")
	friends.Get("/", s.GetFriends)
	friends.Get("/online", s.GetOnlineFriends)
	// Specific /requests routes before generic /:userId
	friends.Post("/requests/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "friend_request"), s.SendFriendRequest)
	friends.Get("/requests", s.GetPendingRequests)
	friends.Get("/requests/sent", s.GetSentRequests)
	friends.Post("/requests/:requestId/accept", s.AcceptFriendRequest)
	friends.Post("/requests/:requestId/reject", s.RejectFriendRequest)
	// Specific /status routes before generic /:userId
	friends.Get("/status/:userId", s.GetFriendshipStatus)
	// Generic /:userId route must be last
	friends.Delete("/:userId", s.RemoveFriend)

	// Script routes
	scripts := verified.Group("/scripts")
	scripts.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_script"), s.CreateScript)
	scripts.Get("/", s.GetPublicScripts)
	scripts.Get("/me", s.GetMyScripts)
	scripts.Put("/:id", s.UpdateScript)
	scripts.Delete("/:id", s.DeleteScript)
	scripts.Get("/:id", s.GetScript)

	// Project routes
	projects := verified.Group("/projects")
	projects.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_project"), s.CreateProject)
	projects.Get("/", s.GetPublicProjects)
	projects.Get("/me", s.GetMyProjects)
	projects.Put("/:id", s.UpdateProject)
	projects.Delete("/:id", s.DeleteProject)
	projects.Get("/:id", s.GetProject)

	// Forum routes (reads are gated too)
	forum := verified.Group("/forum")
	forum.Post("/posts", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "forum_post"), s.CreateForumPost)
	forum.Get("/posts", s.GetForumPosts)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	forum.Get("/posts/:id/comments", s.GetForumComments)
	forum.Post("/posts/:id/comments", middleware.RateLimit(
		s.redis, 10, time.Minute, "forum_comment"), s.CreateForumComment)
	forum.Delete("/posts/:id/comments/:commentId", s.DeleteForumComment)
	forum.Put("/posts/:id", s.UpdateForumPost)
	forum.Delete("/posts/:id", s.DeleteForumPost)
	forum.Get("/posts/:id", s.GetForumPost)

	// Direct message routes
	conversations := verified.Group("/conversations")
	conversations.Post("/", s.CreateConversation)
	conversations.Get("/", s.GetConversations)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	conversations.Get("/:id/messages", s.GetMessages)
	conversations.Post("/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_message"), s.SendMessage)
	// Generic /:id route must be last
	conversations.Get("/:id", s.GetConversation)

	// Festival submission routes
	submissions := verified.Group("/submissions")
	submissions.Post("/", s.CreateSubmission)
	submissions.Get("/", s.GetMySubmissions)
	submissions.Put("/:id/status", s.UpdateSubmissionStatus)
	submissions.Delete("/:id", s.DeleteSubmission)
	submissions.Get("/:id", s.GetSubmission)

	// AI generation routes
	generate := verified.Group("/generate")
	generate.Post("/", middleware.RateLimit(
		s.redis, 30, time.Minute, "generate"), s.StartGeneration)
	generate.Get("/", s.GetMyGenerations)
	generate.Get("/:id", s.GetGenerationJob)

	// Poster upload routes
	posters := verified.Group("/posters")
	posters.Post("/", middleware.RateLimit(
		s.redis, 10, 10*time.Minute, "poster_upload"), s.UploadPoster)
	posters.Get("/", s.GetMyPosters)
	posters.Get("/:id/file", s.GetPosterFile)
	posters.Delete("/:id", s.DeletePoster)
	posters.Get("/:id", s.GetPoster)

	// Websocket endpoint - protected by AuthRequired (ticket or token)
	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/", s.WebsocketHandler())

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
	adminVerification := admin.Group("/verification")
	adminVerification.Get("/", s.GetPendingVerifications)
	adminVerification.Post("/:id/approve", s.ApproveVerification)
	adminVerification.Post("/:id/reject", s.RejectVerification)
	admin.Post("/credits/:userId/grant", s.GrantCredits)
	// Provider callback relay: the media gateway reports job outcomes through
	// the operator surface.
	adminGeneration := admin.Group("/generation")
	adminGeneration.Post("/:id/complete", s.CompleteGeneration)
	adminGeneration.Post("/:id/fail", s.FailGeneration)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
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
		// Redis is required for full readiness: rate limiting, the jti
		// blacklist and event fan-out all sit on it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "ReelCorps API",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdmin(c, userID)
		if err != nil {
			// A valid token can outlive its account.
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Account no longer exists"))
			}
			return respondAppError(c, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}

// VerifiedRequired returns the membership-gate middleware. Every script,
// project, forum, message, submission, generation and poster route sits
// behind it, reads included. Must be placed after AuthRequired.
func (s *Server) VerifiedRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			// A valid token can outlive its account.
			var appErr *models.AppError
			if errors.As(err, &appErr) && appErr.Code == "NOT_FOUND" {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Account no longer exists"))
			}
			return respondAppError(c, err)
		}
		if !user.IsVerifiedMember() {
			observability.GateDenials.WithLabelValues(c.Route().Path).Inc()
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Verified membership required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		isWSPath := strings.HasPrefix(path, "/api/ws")

		// 1. Try WebSocket ticket first (short-lived, single-use)
		ticket := c.Query("ticket")
		if ticket != "" && s.redis != nil {
			key := fmt.Sprintf("ws_ticket:%s", ticket)
			userIDStr, err := s.redis.GetDel(c.Context(), key).Result()
			if err == nil {
				userID, parseErr := strconv.ParseUint(userIDStr, 10, 32)
				if parseErr == nil {
					c.Locals("userID", uint(userID))
					// Sync to UserContext for logging and downstream services
					ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
					c.SetUserContext(ctx)
					return c.Next()
				}
			}
			// A ticket was presented but is invalid or already consumed.
			// WS paths accept nothing else, so fail here.
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		// 2. Fall back to JWT (Bearer token)
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		// Parse and validate token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			// Validate signing method
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
			}
			return []byte(s.config.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		// Extract claims
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token claims"))
		}

		// Validate issuer and audience
		if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != jwtIssuer {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token issuer"))
		}
		if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != jwtAudience {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid token audience"))
		}

		// Extract user ID from subject claim
		sub, ok := claims["sub"].(string)
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid subject claim"))
		}

		userID, err := strconv.ParseUint(sub, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid user ID in token"))
		}

		// Check JTI for revocation
		if jti, exists := claims["jti"].(string); exists && jti != "" {
			if s.redis != nil {
				isBlacklisted, err := s.redis.Exists(c.Context(), cache.BlacklistKey(jti)).Result()
				if err == nil && isBlacklisted > 0 {
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Token has been revoked"))
				}
			}
		}

		// Store user ID in context
		c.Locals("userID", uint(userID))
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, uint(userID))
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// GenerationService exposes the generation service so the server binary can
// hand it to the janitor.
func (s *Server) GenerationService() *service.GenerationService {
	return s.generationService
}

// StartEventWiring subscribes the websocket hub to the Redis notifier so
// events published by other instances reach locally connected clients. No-op
// when Redis is unavailable.
func (s *Server) StartEventWiring(parent context.Context) {
	if s.notifier == nil || s.hub == nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	s.shutdownCtx = ctx
	s.shutdownFn = cancel
	go func() {
		if err := s.hub.StartWiring(ctx, s.notifier); err != nil {
			log.Printf("failed to start hub wiring: %v", err)
		}
	}()
}

// BuildApp constructs the Fiber app with middleware and routes registered.
// The error handler catches errors no handler responded to, preserving the
// JSON error envelope and router statuses like 404 and 405.
func (s *Server) BuildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "ReelCorps API",
		BodyLimit: 10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return models.RespondWithError(c, fiberErr.Code, fiberErr)
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	return app
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop all wiring goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			log.Printf("error shutting down websocket hub: %v", err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
