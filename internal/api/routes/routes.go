package routes

import (
	"github.com/cinetrack/movie-review-backend/internal/api/handlers"
	"github.com/cinetrack/movie-review-backend/internal/api/middleware"
	"github.com/cinetrack/movie-review-backend/internal/config"
	"github.com/cinetrack/movie-review-backend/internal/services"
	"github.com/cinetrack/movie-review-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.RateLimitMiddleware(cfg))

	// Optional collaborators
	var tmdbClient *services.TMDBClient
	if cfg.TMDBAPIKey != "" {
		tmdbClient = services.NewTMDBClient(cfg.TMDBAPIKey)
	}

	var s3Service *services.S3Service
	if cfg.S3BucketName != "" {
		s3Service = services.NewS3Service(cfg.S3Region, cfg.S3BucketName, cfg.S3AccessKey, cfg.S3SecretKey)
	}

	// Initialize services
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(db, cfg.JWTSecret, emailService, cfg.BaseURL)
	movieService := services.NewMovieService(db, tmdbClient)
	ratingService := services.NewRatingService(db)
	reviewService := services.NewReviewService(db, movieService, ratingService)
	watchlistService := services.NewWatchlistService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	passwordHandler := handlers.NewPasswordHandler(authService)
	movieHandler := handlers.NewMovieHandler(movieService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	watchlistHandler := handlers.NewWatchlistHandler(watchlistService)
	userHandler := handlers.NewUserHandler(authService, reviewService, s3Service)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "message": "Server is running"})
	})

	// API routes
	api := router.Group("/api/v1")

	// Auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", middleware.AuthMiddleware(cfg), authHandler.Logout)
		auth.POST("/refresh-token", authHandler.RefreshToken)
		auth.GET("/profile", middleware.AuthMiddleware(cfg), authHandler.GetProfile)
	}

	// Password reset routes
	passwordGroup := api.Group("/password")
	{
		passwordGroup.POST("/forgot", passwordHandler.ForgotPassword)
		passwordGroup.GET("/validate-reset-token", passwordHandler.ValidateResetToken)
		passwordGroup.POST("/reset", passwordHandler.ResetPassword)
		passwordGroup.POST("/change", middleware.AuthMiddleware(cfg), passwordHandler.ChangePassword)
	}

	// Movie routes
	movies := api.Group("/movies")
	{
		movies.GET("/", movieHandler.GetMovies)
		movies.GET("/:tmdb_id", movieHandler.GetMovie)
		movies.POST("/", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), movieHandler.CreateMovie)
		movies.GET("/:tmdb_id/reviews", reviewHandler.GetMovieReviews)
		movies.POST("/:tmdb_id/reviews", middleware.AuthMiddleware(cfg), reviewHandler.SubmitReview)
	}

	// Review routes
	reviews := api.Group("/reviews")
	{
		reviews.GET("/", reviewHandler.GetAllReviews)
		reviews.DELETE("/:review_id", middleware.AuthMiddleware(cfg), reviewHandler.DeleteReview)
	}

	// Watchlist routes
	watchlist := api.Group("/watchlist", middleware.AuthMiddleware(cfg))
	{
		watchlist.GET("/", watchlistHandler.GetWatchlist)
		watchlist.POST("/", watchlistHandler.AddToWatchlist)
		watchlist.DELETE("/:tmdb_id", watchlistHandler.RemoveFromWatchlist)
	}

	// User routes
	users := api.Group("/users")
	{
		users.GET("/:user_id", userHandler.GetUser)
		users.PUT("/:user_id", middleware.AuthMiddleware(cfg), userHandler.UpdateUser)
		users.GET("/:user_id/reviews", userHandler.GetUserReviews)
		users.POST("/avatar", middleware.AuthMiddleware(cfg), userHandler.UploadAvatar)
	}

	logger.Info("Routes initialized successfully")
}
