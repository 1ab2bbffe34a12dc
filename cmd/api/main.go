package main

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/smoker-app/backend/internal/auth"
	"github.com/smoker-app/backend/internal/config"
	"github.com/smoker-app/backend/internal/database"
	"github.com/smoker-app/backend/internal/handler"
	"github.com/smoker-app/backend/internal/middleware"
	"github.com/smoker-app/backend/internal/repository"
	"github.com/smoker-app/backend/internal/service"
	"github.com/smoker-app/backend/internal/storage"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize MinIO client
	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MinIO: %v", err)
	}

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	authRepo := repository.NewAuthRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// Initialize services
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	commentService.SetNotificationService(notificationService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(userRepo, authRepo, jwtService)
	commentHandler := handler.NewCommentHandler(commentService)
	uploadHandler := handler.NewUploadHandler(minioClient)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	postHandler := handler.NewPostHandler(postRepo, commentRepo)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, db)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error": fiber.Map{
					"code":    "INTERNAL_ERROR",
					"message": err.Error(),
				},
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.CORS.Origins, ","),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: true,
	}))

	// API v1 routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authRoutes.Post("/act-as", authMiddleware.Required(), authHandler.ActAs)
	authRoutes.Get("/entities", authMiddleware.Required(), authHandler.Entities)
	authRoutes.Post("/entities", authMiddleware.Required(), authHandler.CreateEntity)

	// Post routes
	postRoutes := api.Group("/posts")
	postRoutes.Post("/", authMiddleware.Required(), postHandler.Create)
	postRoutes.Get("/:post_id", authMiddleware.Optional(), postHandler.Get)
	postRoutes.Delete("/:post_id", authMiddleware.Required(), postHandler.Delete)

	// Comment routes
	commentRoutes := api.Group("/posts/:post_id/comments")
	commentRoutes.Get("/", authMiddleware.Optional(), commentHandler.GetByPostID)
	commentRoutes.Post("/", authMiddleware.Required(), commentHandler.Create)
	commentRoutes.Patch("/:id", authMiddleware.Required(), commentHandler.Update)
	commentRoutes.Delete("/:id", authMiddleware.Required(), commentHandler.Delete)
	commentRoutes.Post("/:id/like", authMiddleware.Required(), commentHandler.Like)
	commentRoutes.Delete("/:id/like", authMiddleware.Required(), commentHandler.Unlike)

	// Reply routes
	commentRoutes.Post("/:id/replies", authMiddleware.Required(), commentHandler.CreateReply)
	commentRoutes.Patch("/:id/replies/:reply_id", authMiddleware.Required(), commentHandler.UpdateReply)
	commentRoutes.Delete("/:id/replies/:reply_id", authMiddleware.Required(), commentHandler.DeleteReply)
	commentRoutes.Post("/:id/replies/:reply_id/like", authMiddleware.Required(), commentHandler.LikeReply)
	commentRoutes.Delete("/:id/replies/:reply_id/like", authMiddleware.Required(), commentHandler.UnlikeReply)

	// Notification routes
	notificationRoutes := api.Group("/notifications")
	notificationRoutes.Get("/", authMiddleware.Required(), notificationHandler.List)
	notificationRoutes.Post("/:id/read", authMiddleware.Required(), notificationHandler.MarkRead)

	// Upload routes
	uploadRoutes := api.Group("/uploads")
	uploadRoutes.Post("/presign", authMiddleware.Required(), uploadHandler.Presign)
	uploadRoutes.Post("/confirm", authMiddleware.Required(), uploadHandler.Confirm)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
