package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nvolkov/brewhub-backend/config"
	"github.com/nvolkov/brewhub-backend/internal/app/controller"
	"github.com/nvolkov/brewhub-backend/internal/app/repository"
	"github.com/nvolkov/brewhub-backend/internal/app/service"
	"github.com/nvolkov/brewhub-backend/internal/db"
	"github.com/nvolkov/brewhub-backend/internal/middleware"
	"github.com/nvolkov/brewhub-backend/internal/realtime"
	"github.com/nvolkov/brewhub-backend/internal/router"
	"github.com/nvolkov/brewhub-backend/internal/scheduler"
	"github.com/nvolkov/brewhub-backend/internal/storage"
	"github.com/nvolkov/brewhub-backend/pkg/logger"
	"github.com/nvolkov/brewhub-backend/pkg/mailer"
	"github.com/nvolkov/brewhub-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting BrewHub Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis holds the email verification codes
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer redis.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	questionRepo := repository.NewQuestionRepository(db.GetDB())
	answerRepo := repository.NewAnswerRepository(db.GetDB())
	contactRepo := repository.NewContactRepository(db.GetDB())

	// Shared infrastructure
	mail := mailer.New(&cfg.SMTP)
	hub := realtime.NewHub()
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Services
	authService := service.NewAuthService(userRepo, mail, &cfg.JWT)
	userService := service.NewUserService(userRepo)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	cartService := service.NewCartService(db.GetDB(), cartRepo, productRepo)
	orderService := service.NewOrderService(db.GetDB(), orderRepo, cartRepo, hub)
	surveyService := service.NewSurveyService(questionRepo, answerRepo)
	contactService := service.NewContactService(contactRepo, mail, cfg.SMTP.ContactEmail)

	// Controllers
	authController := controller.NewAuthController(authService)
	userController := controller.NewUserController(userService)
	catalogController := controller.NewCatalogController(catalogService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	surveyController := controller.NewSurveyController(surveyService)
	contactController := controller.NewContactController(contactService)
	uploadController := controller.NewUploadController(s3Storage)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Background sweep for abandoned pending orders
	orderScheduler := scheduler.NewOrderScheduler(orderService, cfg.Orders.PendingTimeout)
	if err := orderScheduler.Start(); err != nil {
		logger.Fatal("Failed to start order scheduler", err)
	}
	defer orderScheduler.Stop()

	r := router.NewRouter(
		authController,
		userController,
		catalogController,
		cartController,
		orderController,
		surveyController,
		contactController,
		uploadController,
		hub,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
