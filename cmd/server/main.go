package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/BereketMelese/Bloom/internal/config"
	"github.com/BereketMelese/Bloom/internal/database"
	"github.com/BereketMelese/Bloom/internal/handlers"
	"github.com/BereketMelese/Bloom/internal/repository"
	cron "github.com/BereketMelese/Bloom/internal/scheduler"
	"github.com/BereketMelese/Bloom/internal/services"
	"github.com/BereketMelese/Bloom/pkg/images"
	"github.com/BereketMelese/Bloom/pkg/logger"
	"github.com/BereketMelese/Bloom/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Cloudinary is optional: without credentials the profile endpoints
	// store image URLs as-is.
	var uploader services.ImageUploader
	if cfg.CloudName != "" {
		cld, err := images.New(cfg.CloudName, cfg.CloudKey, cfg.CloudSec)
		if err != nil {
			log.Fatalf("Cloudinary initialization error: %v", err)
		}
		uploader = cld
	} else {
		logger.Log.Warn("Cloudinary credentials missing, image uploads disabled")
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	followRepo := repository.NewFollowRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	// --- Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo, postRepo)
	userService := services.NewUserService(userRepo, followRepo, postRepo, uploader)
	postService := services.NewPostService(postRepo, userRepo, followRepo)
	commentService := services.NewCommentService(commentRepo, postRepo, userRepo, notificationService)
	interactionService := services.NewInteractionService(interactionRepo, postRepo, userRepo, notificationService)
	followService := services.NewFollowService(followRepo, userRepo, notificationService)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService, cfg)
	postHandler := handlers.NewPostHandler(postService, interactionService)
	commentHandler := handlers.NewCommentHandler(commentService)
	userHandler := handlers.NewUserHandler(userService, followService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Public auth routes
	api.HandleFunc("/auth/register", authHandler.RegisterHandler).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.LoginHandler).Methods("POST")

	// Protected auth routes
	authRoutes := api.PathPrefix("/auth").Subrouter()
	authRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret, userService))
	authRoutes.HandleFunc("/me", authHandler.GetMeHandler).Methods("GET")
	authRoutes.HandleFunc("/profile", authHandler.UpdateProfileHandler).Methods("PUT")
	authRoutes.HandleFunc("/logout", authHandler.LogoutHandler).Methods("POST")

	// Post routes
	postRoutes := api.PathPrefix("/post").Subrouter()
	postRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret, userService))
	postRoutes.HandleFunc("", postHandler.CreatePostHandler).Methods("POST")
	postRoutes.HandleFunc("", postHandler.GetPostsHandler).Methods("GET")
	postRoutes.HandleFunc("/feed", postHandler.GetFeedHandler).Methods("GET")
	postRoutes.HandleFunc("/user/{userId}", postHandler.GetUserPostsHandler).Methods("GET")
	postRoutes.HandleFunc("/{id}", postHandler.GetPostHandler).Methods("GET")
	postRoutes.HandleFunc("/{id}", postHandler.UpdatePostHandler).Methods("PUT")
	postRoutes.HandleFunc("/{id}", postHandler.DeletePostHandler).Methods("DELETE")
	postRoutes.HandleFunc("/{id}/like", postHandler.ToggleLikeHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/bookmark", postHandler.ToggleBookmarkHandler).Methods("POST")
	postRoutes.HandleFunc("/{id}/likes", postHandler.GetLikesHandler).Methods("POST")

	// Comment routes
	commentRoutes := api.PathPrefix("/comments").Subrouter()
	commentRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret, userService))
	commentRoutes.HandleFunc("/post/{id}", commentHandler.CreateCommentHandler).Methods("POST")
	commentRoutes.HandleFunc("/post/{id}", commentHandler.GetCommentsHandler).Methods("GET")
	commentRoutes.HandleFunc("/{commentId}", commentHandler.UpdateCommentHandler).Methods("PUT")
	commentRoutes.HandleFunc("/{commentId}", commentHandler.DeleteCommentHandler).Methods("DELETE")

	// User routes
	userRoutes := api.PathPrefix("/user").Subrouter()
	userRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret, userService))
	userRoutes.HandleFunc("", userHandler.GetUsersHandler).Methods("GET")
	userRoutes.HandleFunc("/{id}", userHandler.WithUserCheck(userHandler.GetUserHandler)).Methods("GET")
	userRoutes.HandleFunc("/{id}/followers", userHandler.WithUserCheck(userHandler.GetFollowersHandler)).Methods("GET")
	userRoutes.HandleFunc("/{id}/following", userHandler.WithUserCheck(userHandler.GetFollowingHandler)).Methods("GET")
	userRoutes.HandleFunc("/{id}/follow", userHandler.WithUserCheck(userHandler.ToggleFollowHandler)).Methods("POST")

	// Notification routes
	notificationRoutes := api.PathPrefix("/notification").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret, userService))
	notificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/unread-count", notificationHandler.GetUnreadCountHandler).Methods("GET")
	notificationRoutes.HandleFunc("/read", notificationHandler.MarkAsReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/read/{id}", notificationHandler.MarkAsReadHandler).Methods("POST")

	// Admin routes
	adminRoutes := api.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret, userService))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/posts", postHandler.AdminGetAllPostsHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background notification cleanup
	cron.StartNotificationCronJobs(notificationService)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
