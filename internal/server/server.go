// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"jotter/internal/cache"
	"jotter/internal/config"
	"jotter/internal/database"
	"jotter/internal/media"
	"jotter/internal/middleware"
	"jotter/internal/models"
	"jotter/internal/notifications"
	"jotter/internal/repository"
	"jotter/internal/seed"
	"jotter/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "jotter-api"
	tokenAudience = "jotter-client"
	tokenLifetime = 30 * 24 * time.Hour
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo         repository.UserRepository
	followRepo       repository.FollowRepository
	jotRepo          repository.JotRepository
	commentRepo      repository.CommentRepository
	diaryRepo        repository.DiaryRepository
	storyRepo        repository.StoryRepository
	emotionRepo      repository.EmotionRepository
	notificationRepo repository.NotificationRepository

	mediaStore media.Store
	notifier   *notifications.Notifier

	userService         *service.UserService
	followService       *service.FollowService
	jotService          *service.JotService
	commentService      *service.CommentService
	diaryService        *service.DiaryService
	storyService        *service.StoryService
	emotionService      *service.EmotionService
	notificationService *service.NotificationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	mediaStore, err := media.NewDiskStore(cfg.MediaUploadDir, cfg.MediaBaseURL, cfg.MediaMaxUploadSizeMB)
	if err != nil {
		return nil, fmt.Errorf("media store init failed: %w", err)
	}

	return NewServerWithDeps(cfg, db, redisClient, mediaStore)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Used by tests and by bootstrap layers that establish DB/Redis themselves.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, mediaStore media.Store) (*Server, error) {
	server := &Server{
		config:           cfg,
		db:               db,
		redis:            redisClient,
		promMiddleware:   fiberprometheus.New("jotter-api"),
		userRepo:         repository.NewUserRepository(db),
		followRepo:       repository.NewFollowRepository(db),
		jotRepo:          repository.NewJotRepository(db),
		commentRepo:      repository.NewCommentRepository(db),
		diaryRepo:        repository.NewDiaryRepository(db),
		storyRepo:        repository.NewStoryRepository(db),
		emotionRepo:      repository.NewEmotionRepository(db),
		notificationRepo: repository.NewNotificationRepository(db),
		mediaStore:       mediaStore,
	}

	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
	}

	// The tracker endpoints are useless without the emotion catalog, so
	// load it on every startup. Existing slugs are left untouched.
	if err := seed.Emotions(db); err != nil {
		return nil, fmt.Errorf("seed emotion catalog: %w", err)
	}

	server.notificationService = service.NewNotificationService(server.notificationRepo, server.notifier)
	server.userService = service.NewUserService(server.userRepo, server.followRepo, server.mediaStore)
	server.followService = service.NewFollowService(server.followRepo, server.userRepo, server.notificationService)
	server.jotService = service.NewJotService(server.jotRepo, server.userRepo, server.mediaStore, server.notificationService)
	server.commentService = service.NewCommentService(server.commentRepo, server.jotRepo, server.userRepo, server.notificationService)
	server.diaryService = service.NewDiaryService(server.diaryRepo, server.mediaStore)
	server.storyService = service.NewStoryService(server.storyRepo, server.mediaStore)
	server.emotionService = service.NewEmotionService(server.emotionRepo, server.userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Propagate request ID and user ID into the request context
	app.Use(middleware.ContextMiddleware())

	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
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

	// Global rate limiting (300 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return models.RespondWithError(c, models.NewRateLimitError(), false)
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Jotter Backend Metrics Dashboard",
	}))

	// Uploaded media served straight off disk
	if store, ok := s.mediaStore.(*media.DiskStore); ok {
		app.Static(s.config.MediaBaseURL, store.UploadDir())
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "register"), s.Register)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.AuthRequired(), s.Refresh)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Public user routes (profile pages work logged out)
	users := api.Group("/users")
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id/jots", s.GetUserJots)

	protected := api.Group("", s.AuthRequired())

	// Account routes; /me before /:id so the literal wins
	me := protected.Group("/users/me")
	me.Get("/", s.GetMyProfile)
	me.Put("/", s.UpdateMyProfile)
	me.Delete("/", s.DeleteMyAccount)
	me.Put("/avatar", s.UploadAvatar)

	users.Get("/:id", s.GetUserProfile)

	// Follow routes
	protected.Post("/users/:id/follow", middleware.RateLimit(
		s.redis, 30, time.Minute, "follow"), s.FollowUser)
	protected.Delete("/users/:id/follow", s.UnfollowUser)

	// Jot routes
	jots := protected.Group("/jots")
	jots.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_jot"), s.CreateJot)
	jots.Get("/feed", s.GetFeed)
	jots.Post("/:jotId/reactions", s.ReactToJot)
	jots.Get("/:jotId/reactions", s.GetJotReactions)
	jots.Post("/:jotId/comments", middleware.RateLimit(
		s.redis, 15, time.Minute, "create_comment"), s.CreateComment)
	jots.Get("/:jotId/comments", s.GetComments)
	jots.Delete("/:jotId/comments/:commentId", s.DeleteComment)
	jots.Get("/:jotId", s.GetJot)
	jots.Delete("/:jotId", s.DeleteJot)

	// Diary routes
	diaries := protected.Group("/diaries")
	diaries.Post("/", s.CreateDiary)
	diaries.Get("/", s.GetMyDiaries)
	diaries.Get("/public", s.GetPublicDiaries)
	diaries.Get("/:id/entries", s.GetDiaryEntries)
	diaries.Get("/:id", s.GetDiary)
	diaries.Put("/:id", s.UpdateDiary)
	diaries.Delete("/:id", s.DeleteDiary)

	entries := protected.Group("/diary-entries")
	entries.Post("/", s.CreateDiaryEntry)
	entries.Get("/:id", s.GetDiaryEntry)
	entries.Put("/:id", s.UpdateDiaryEntry)
	entries.Delete("/:id", s.DeleteDiaryEntry)

	// Tag routes
	protected.Get("/tags", s.GetMyTags)
	protected.Get("/tags/:id/entries", s.GetEntriesByTag)

	// Story routes
	stories := protected.Group("/stories")
	stories.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_story"), s.CreateStory)
	stories.Get("/feed", s.GetStoryFeed)
	stories.Get("/me", s.GetMyStories)
	stories.Post("/:id/view", s.ViewStory)
	stories.Get("/:id/views", s.GetStoryViews)
	stories.Get("/:id", s.GetStory)
	stories.Delete("/:id", s.DeleteStory)

	// Emotion routes
	emotions := protected.Group("/emotions")
	emotions.Get("/", s.GetEmotions)
	emotions.Post("/track", s.TrackEmotion)
	emotions.Get("/history", s.GetEmotionHistory)
	emotions.Post("/", s.CreateEmotion)
	emotions.Put("/:id", s.UpdateEmotion)
	emotions.Delete("/:id", s.DeleteEmotion)

	// Notification routes
	notifs := protected.Group("/notifications")
	notifs.Get("/", s.GetNotifications)
	notifs.Get("/unread-count", s.GetUnreadCount)
	notifs.Put("/read-all", s.MarkAllNotificationsRead)
	notifs.Put("/:id/read", s.MarkNotificationRead)
	notifs.Post("/tokens", s.RegisterFCMToken)
	notifs.Delete("/tokens/:token", s.RemoveFCMToken)
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
		// The API degrades without Redis but readiness should flag it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It verifies the
// signature and signing method, expiry, issuer, audience, and the Redis
// jti blacklist before trusting the subject claim.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c,
				models.NewAuthenticationError("Authorization required"), false)
		}

		claims, err := s.verifyToken(c.Context(), tokenString)
		if err != nil {
			return models.RespondWithError(c, err, false)
		}

		userID, parseErr := subjectUserID(claims)
		if parseErr != nil {
			return models.RespondWithError(c, parseErr, false)
		}

		c.Locals("userID", userID)
		c.Locals("claims", claims)
		// Sync to UserContext for logging and downstream services
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// verifyToken parses and fully validates a bearer token, returning its claims.
func (s *Server) verifyToken(ctx context.Context, tokenString string) (jwt.MapClaims, *models.AppError) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, models.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewAuthenticationError("Invalid token claims")
	}

	// Check JTI for revocation
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		blacklisted, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
		if err == nil && blacklisted > 0 {
			return nil, models.NewAuthenticationError("Token has been revoked")
		}
	}

	return claims, nil
}

func subjectUserID(claims jwt.MapClaims) (uint, *models.AppError) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewAuthenticationError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, models.NewAuthenticationError("Invalid user ID in token")
	}
	return uint(userID), nil
}

// optionalUserID extracts the user ID from a bearer token when one is
// present and valid, without enforcing authentication.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	claims, appErr := s.verifyToken(c.Context(), parts[1])
	if appErr != nil {
		return 0, false
	}
	userID, appErr := subjectUserID(claims)
	if appErr != nil {
		return 0, false
	}
	return userID, true
}

// generateToken creates a signed JWT for the given user.
func (s *Server) generateToken(userID uint, email string) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(userID), 10),
		"email": email,
		"iss":   tokenIssuer,
		"aud":   tokenAudience,
		"exp":   now.Add(tokenLifetime).Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
		"jti":   generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID so individual tokens can be revoked
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName:   "Jotter API",
		BodyLimit: (s.config.MediaMaxUploadSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, err, s.config.IsDevelopment())
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
