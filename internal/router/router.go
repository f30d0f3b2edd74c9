package router

import (
	"context"
	"log"
	"time"

	"github.com/civic-connect/backend/internal/handlers"
	custommiddleware "github.com/civic-connect/backend/internal/middleware"
	"github.com/civic-connect/backend/internal/models"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/civic-connect/backend/internal/services"
	"github.com/civic-connect/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps carries the infrastructure the router wires the application with
type Deps struct {
	DB        *config.DB
	Cfg       *config.Config
	MongoDB   *mongo.Database
	Notifier  *services.NotificationService
	UserRepo  repositories.UserRepository
	NotifRepo repositories.NotificationRepository
}

// SetupRoutes wires repositories, services and handlers onto the Echo instance
func SetupRoutes(e *echo.Echo, deps Deps) {
	// Schema for the relational side
	if err := deps.DB.Postgres.AutoMigrate(&models.User{}, &models.Notification{}); err != nil {
		log.Fatalf("Failed to migrate PostgreSQL schema: %v", err)
	}
	log.Println("PostgreSQL schema migrated.")

	// Mongo repositories
	postRepo := repositories.NewMongoPostRepository(deps.MongoDB)
	commentRepo := repositories.NewMongoCommentRepository(deps.MongoDB)
	eventRepo := repositories.NewMongoEventRepository(deps.MongoDB)
	reportRepo := repositories.NewMongoReportRepository(deps.MongoDB)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := reportRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create report indexes: %v", err)
	}
	log.Println("MongoDB report indexes ensured.")

	// Services
	moderationService := services.NewModerationService(reportRepo, postRepo, commentRepo, eventRepo, deps.UserRepo, deps.Notifier)
	analyticsService := services.NewAnalyticsService(deps.UserRepo, postRepo, commentRepo, eventRepo, reportRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(deps.UserRepo, deps.Notifier, deps.Cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(deps.UserRepo)
	postHandler := handlers.NewPostHandler(postRepo, deps.Notifier, deps.Cfg.AllowSelfVote)
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo, deps.Notifier, deps.Cfg.AllowSelfVote)
	eventHandler := handlers.NewEventHandler(eventRepo)
	reportHandler := handlers.NewReportHandler(moderationService)
	notificationHandler := handlers.NewNotificationHandler(deps.NotifRepo)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/posts", postHandler.GetPosts)
	api.GET("/posts/trending", postHandler.GetTrendingPosts)
	api.GET("/posts/:id", postHandler.GetPost)
	api.GET("/posts/:id/comments", commentHandler.GetComments)
	api.GET("/events", eventHandler.GetEvents)
	api.GET("/events/:id", eventHandler.GetEvent)

	// Authenticated routes
	auth := api.Group("", custommiddleware.JWTAuthMiddleware(deps.Cfg.JWTSecret))

	auth.GET("/users/me", userHandler.GetMe)
	auth.PUT("/users/me/preferences", userHandler.UpdatePreferences)

	auth.POST("/posts", postHandler.CreatePost)
	auth.PUT("/posts/:id", postHandler.UpdatePost)
	auth.DELETE("/posts/:id", postHandler.DeletePost)
	auth.POST("/posts/:id/vote", postHandler.VotePost)
	auth.POST("/posts/:id/comments", commentHandler.CreateComment)

	auth.PUT("/comments/:id", commentHandler.UpdateComment)
	auth.DELETE("/comments/:id", commentHandler.DeleteComment)
	auth.POST("/comments/:id/vote", commentHandler.VoteComment)

	auth.POST("/events", eventHandler.CreateEvent)
	auth.PUT("/events/:id", eventHandler.UpdateEvent)
	auth.DELETE("/events/:id", eventHandler.DeleteEvent)
	auth.POST("/events/:id/register", eventHandler.RegisterForEvent)
	auth.DELETE("/events/:id/register", eventHandler.CancelRegistration)
	auth.GET("/events/my", eventHandler.GetMyEvents)

	auth.POST("/reports", reportHandler.CreateReport)

	auth.GET("/notifications", notificationHandler.GetNotifications)
	auth.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
	auth.PUT("/notifications/:id/read", notificationHandler.MarkAsRead)
	auth.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	auth.DELETE("/notifications/:id", notificationHandler.DeleteNotification)

	// Moderator routes
	admin := auth.Group("/admin", custommiddleware.RequireModerator())

	admin.GET("/reports", reportHandler.GetReports)
	admin.GET("/reports/stats", reportHandler.GetModerationStats)
	admin.GET("/reports/:id", reportHandler.GetReport)
	admin.PUT("/reports/:id/review", reportHandler.ReviewReport)
	admin.PUT("/reports/:id/resolve", reportHandler.ResolveReport)
	admin.PUT("/reports/:id/dismiss", reportHandler.DismissReport)
	admin.GET("/analytics/dashboard", analyticsHandler.GetDashboard)

	// Admin-only user management
	adminOnly := auth.Group("/admin", custommiddleware.RequireRoles(models.RoleAdmin))

	adminOnly.GET("/users", userHandler.GetUsers)
	adminOnly.PUT("/users/:id/role", userHandler.UpdateUserRole)
	adminOnly.PUT("/users/:id/status", userHandler.SetUserActive)

	log.Println("Routes registered.")
}
