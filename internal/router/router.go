package router

import (
	"log"

	"github.com/aheel03/Artspire/internal/handlers"
	"github.com/aheel03/Artspire/internal/middleware"
	"github.com/aheel03/Artspire/internal/models"
	"github.com/aheel03/Artspire/internal/repositories"
	"github.com/aheel03/Artspire/internal/services"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Comment{},
		&models.Follow{},
		&models.Upvote{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database("artspire"))
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	upvoteRepo := repositories.NewPostgresUpvoteRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Notification policy layer ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, postRepo, commentRepo)

	// --- Authenticated routes ---
	api := e.Group("/api/v1")
	api.Use(middleware.IdentityMiddleware())
	log.Println("Identity middleware applied to /api/v1 group.")

	// Follow routes
	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationService)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	// Upvote routes
	upvoteHandler := handlers.NewUpvoteHandler(upvoteRepo, postRepo, notificationService)
	upvoteHandler.RegisterUpvoteRoutes(api)
	log.Println("Upvote routes configured.")

	// Comment routes
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, notificationService)
	commentHandler.RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	// Notification routes
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
