package main

import (
	"context"
	"log"
	"time"

	"github.com/civic-connect/backend/internal/queue"
	"github.com/civic-connect/backend/internal/realtime"
	"github.com/civic-connect/backend/internal/repositories"
	"github.com/civic-connect/backend/internal/router"
	"github.com/civic-connect/backend/internal/services"
	"github.com/civic-connect/backend/pkg/config"
	"github.com/civic-connect/backend/pkg/firebase"
	"github.com/civic-connect/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	mongoDB := db.Mongo.Database(cfg.MongoDBName)

	// Real-time push transports. Redis pub/sub for web clients, FCM for
	// mobile when credentials are configured. Missing transports degrade to
	// logging only.
	var pushers []realtime.Pusher
	if redisClient := config.NewRedisClient(cfg.RedisAddr); redisClient != nil {
		pushers = append(pushers, realtime.NewRedisPusher(redisClient))
		log.Println("Redis push transport enabled.")
	} else {
		log.Println("Redis unavailable, web push disabled.")
	}
	if cfg.FirebaseCredentialsPath != "" {
		fbApp, err := firebase.InitFirebase(context.Background(), cfg.FirebaseCredentialsPath)
		if err != nil {
			log.Printf("Firebase init failed, mobile push disabled: %v", err)
		} else {
			pushers = append(pushers, realtime.NewFCMPusher(fbApp.MessagingClient))
		}
	}
	var pusher realtime.Pusher = realtime.NopPusher{}
	if len(pushers) > 0 {
		pusher = realtime.NewMultiPusher(pushers...)
	}

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	notifRepo := repositories.NewPostgresNotificationRepository(db.Postgres)

	publisher := queue.NewAMQPPublisher(cfg.AMQPURL)
	defer publisher.Close()
	notifier := services.NewNotificationService(notifRepo, userRepo, pusher, publisher)

	// Background delivery worker for email/SMS jobs
	go queue.StartDeliveryConsumer(cfg.AMQPURL, notifRepo, queue.LogSender{})

	// Hourly sweep of expired notifications
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			notifier.SweepExpired()
		}
	}()

	e := echo.New()
	e.Validator = validators.NewValidator()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	router.SetupRoutes(e, router.Deps{
		DB:        db,
		Cfg:       cfg,
		MongoDB:   mongoDB,
		Notifier:  notifier,
		UserRepo:  userRepo,
		NotifRepo: notifRepo,
	})

	log.Printf("Starting server on port %s (env: %s)", cfg.Port, cfg.Env)
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
