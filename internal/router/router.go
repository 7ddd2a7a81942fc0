package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/zerooneblog/backend/internal/handlers"
	"github.com/zerooneblog/backend/internal/middleware"
	"github.com/zerooneblog/backend/internal/models"
	"github.com/zerooneblog/backend/internal/repositories"
	"github.com/zerooneblog/backend/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// mgClient and firebaseAuthClient may be nil; the fan-out journal then runs
// in-memory and Firebase login returns 501.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client, jwtSecret string) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Follow{},
		&models.Like{},
		&models.Comment{},
		&models.Notification{},
		&models.Report{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	reportRepo := repositories.NewPostgresReportRepository(pgdb)

	var journal repositories.DeliveryJournal
	if mgClient != nil {
		mongoJournal, err := repositories.NewMongoDeliveryJournal(context.Background(), mgClient.Database("zerooneblog"))
		if err != nil {
			log.Fatalf("Failed to initialize fan-out delivery journal: %v", err)
		}
		journal = mongoJournal
		log.Println("Fan-out delivery journal backed by MongoDB.")
	} else {
		journal = repositories.NewMemoryDeliveryJournal()
		log.Println("Fan-out delivery journal running in-memory.")
	}

	// --- Initialize Services ---
	followService := services.NewFollowService(followRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo, followRepo, journal)
	feedService := services.NewFeedService(postRepo, followRepo, userRepo, likeRepo, commentRepo)
	reportService := services.NewReportService(reportRepo)
	purgeService := services.NewPurgeService(pgdb)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, jwtSecret)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo, followService)
	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followService, notificationService, userRepo)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Post routes
	postHandler := handlers.NewPostHandler(postRepo, likeRepo, commentRepo, notificationService)
	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	// Like routes
	likeHandler := handlers.NewLikeHandler(likeRepo, postRepo, userRepo, notificationService)
	likeHandler.RegisterLikeRoutes(api)
	log.Println("Like routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, userRepo, notificationService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Feed routes
	feedHandler := handlers.NewFeedHandler(feedService)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationService, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Report routes
	reportHandler := handlers.NewReportHandler(reportService)
	reportHandler.RegisterReportRoutes(api)
	log.Println("Report routes configured.")

	// --- Admin routes (JWT + admin role) ---
	adminGroup := e.Group("/api/v1/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(jwtSecret), middleware.RequireAdmin())
	adminHandler := handlers.NewAdminHandler(userRepo, postRepo, likeRepo, commentRepo, notificationService, reportService, purgeService)
	adminHandler.RegisterAdminRoutes(adminGroup)
	log.Println("Admin routes configured.")

	log.Println("All routes configured.")
}
