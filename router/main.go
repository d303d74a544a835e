package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/varsityrank/api/database"
	"github.com/varsityrank/api/handlers"
	auth_handlers "github.com/varsityrank/api/handlers/auth"
	forum_handlers "github.com/varsityrank/api/handlers/forum"
	review_handlers "github.com/varsityrank/api/handlers/review"
	university_handlers "github.com/varsityrank/api/handlers/university"
	"github.com/varsityrank/api/services"
	"github.com/varsityrank/api/utils/auth"
	"github.com/varsityrank/api/utils/cache"
	"github.com/varsityrank/api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "varsityrank-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	// Domain services
	emailService := services.NewEmailService()
	ratingService := services.NewRatingService(db)
	forumService := services.NewForumService(db)

	// Handlers
	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection, emailService)
	universityHandler := university_handlers.NewUniversityHandler(db)
	reviewHandler := review_handlers.NewReviewHandler(db, ratingService)
	forumHandler := forum_handlers.NewForumHandler(db, forumService)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoints (public)
	app.Get("/ping", handlers.HandleCheckHealth(store))
	app.Get("/on", handlers.HandleHeartbeat)

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/verify-email/:token", authHandler.VerifyEmail)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password/:token", authHandler.ResetPassword)

	// Profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)
	profileGroup.Put("/avatar", authHandler.SetAvatar)
	profileGroup.Post("/school-email", authHandler.AddSchoolEmail)

	// Universities routes
	universities := api.Group("/universities")
	universities.Get("/", universityHandler.ListUniversities)
	universities.Get("/names", universityHandler.ListUniversityNames)
	universities.Get("/:id", universityHandler.GetUniversity)
	universities.Get("/:id/branches", universityHandler.ListBranchesByUniversity)
	universities.Get("/:id/reviews", reviewHandler.ListByUniversity)
	universities.Post("/", authMiddleware.RequireAdmin(), universityHandler.CreateUniversity)
	universities.Put("/:id", authMiddleware.RequireAdmin(), universityHandler.UpdateUniversity)
	universities.Post("/:id/branches", authMiddleware.RequireAdmin(), universityHandler.AddBranch)
	universities.Get("/:id/students", authMiddleware.RequireAdmin(), universityHandler.GetStudentsByUniversity)

	// Branches routes
	branches := api.Group("/branches")
	branches.Get("/:id", universityHandler.GetBranch)
	branches.Get("/:id/programs", universityHandler.GetBranchPrograms)
	branches.Get("/:id/reviews", reviewHandler.ListByBranch)
	branches.Put("/:id", authMiddleware.RequireAdmin(), universityHandler.UpdateBranch)
	branches.Post("/:id/images", authMiddleware.RequireAdmin(), universityHandler.AddBranchImage)

	// Reviews routes (protected)
	reviews := api.Group("/reviews")
	reviews.Post("/", authMiddleware.Required(), reviewHandler.SubmitReview)
	reviews.Post("/:id/responses", authMiddleware.RequireAdmin(), reviewHandler.AddResponse)

	// Forum routes (all protected, branch membership checked per thread)
	forum := api.Group("/forum", authMiddleware.Required())
	forum.Get("/threads", forumHandler.ListThreads)
	forum.Get("/threads/:id", forumHandler.GetThread)
	forum.Post("/threads", authMiddleware.RequireAdmin(), forumHandler.CreateThread)
	forum.Put("/threads/:id", authMiddleware.RequireAdmin(), forumHandler.UpdateThread)
	forum.Delete("/threads/:id", authMiddleware.RequireAdmin(), forumHandler.DeleteThread)
	forum.Get("/threads/:id/posts", forumHandler.GetPostsForThread)
	forum.Post("/threads/:id/posts", forumHandler.CreatePost)
	forum.Put("/posts/:id", forumHandler.UpdatePost)
	forum.Delete("/posts/:id", forumHandler.DeletePost)
	forum.Post("/posts/:id/vote", forumHandler.VotePost)
}
