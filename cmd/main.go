package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lasexta-backend/internal/auth"
	"lasexta-backend/internal/config"
	"lasexta-backend/internal/database"
	"lasexta-backend/internal/email"
	"lasexta-backend/internal/handlers"
	"lasexta-backend/internal/services"
	"lasexta-backend/internal/stream"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Outgoing email is optional in development: without SMTP settings
	// the ticket-send and password-reset endpoints report a 500 instead
	// of delivering mail.
	var mailSender email.Sender
	if smtpSender, err := email.NewSMTPSender(cfg.SMTP); err != nil {
		log.Printf("Warning: email disabled: %v", err)
	} else {
		mailSender = smtpSender
	}

	// Event stream hub
	hub := stream.NewHub(stream.DefaultPingInterval)

	// Initialize services
	notificationService := services.NewNotificationService(database.GetDB())
	authService := services.NewAuthService(database.GetDB(), mailSender)
	ticketService := services.NewTicketService(database.GetDB(), mailSender, notificationService)
	pointsService := services.NewPointsService(database.GetDB(), notificationService)
	eventService := services.NewEventService(database.GetDB(), hub)
	benefitService := services.NewBenefitService(database.GetDB())
	rewardService := services.NewRewardService(database.GetDB())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(authService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	pointsHandler := handlers.NewPointsHandler(pointsService)
	eventHandler := handlers.NewEventHandler(eventService, hub)
	benefitHandler := handlers.NewBenefitHandler(benefitService)
	rewardHandler := handlers.NewRewardHandler(rewardService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set up Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// CORS middleware
	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:5173",
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")

	// Authentication routes (public)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
		authRoutes.POST("/forgot-password", authHandler.ForgotPassword)
		authRoutes.POST("/verify-reset-code", authHandler.VerifyResetCode)
		authRoutes.POST("/reset-password", authHandler.ResetPassword)
	}

	// Authenticated /auth/me route
	authProtected := api.Group("/auth")
	authProtected.Use(auth.RequireUser())
	{
		authProtected.GET("/me", authHandler.Me)
	}

	// Public catalog routes
	api.GET("/events", eventHandler.List)
	api.GET("/events/stream", eventHandler.Stream)
	api.GET("/benefits", benefitHandler.List)
	api.GET("/rewards", rewardHandler.List)

	// Client routes (protected)
	client := api.Group("")
	client.Use(auth.RequireUser())
	{
		client.GET("/tickets/users/:userId/active", ticketHandler.Active)
		client.GET("/tickets/users/:userId/history", ticketHandler.History)

		client.GET("/points/me", pointsHandler.Me)
		client.GET("/points/movements", pointsHandler.Movements)
		client.POST("/points/generate-redeem-code", pointsHandler.GenerateRedeemCode)

		client.GET("/notifications/me", notificationHandler.List)
		client.GET("/notifications/me/unread-count", notificationHandler.UnreadCount)
		client.PATCH("/notifications/me/mark-read", notificationHandler.MarkRead)
	}

	// Admin login (public)
	api.POST("/admin/login", adminHandler.Login)

	// Admin routes (protected + admin only)
	admin := api.Group("/admin")
	admin.Use(auth.RequireAdmin())
	{
		admin.GET("/me", adminHandler.Me)
		admin.GET("/users", adminHandler.Users)

		// Ticket management
		admin.GET("/tickets/all", ticketHandler.All)
		admin.GET("/tickets/user/:userId", ticketHandler.ForUser)
		admin.POST("/tickets/generate", ticketHandler.Generate)
		admin.POST("/tickets/send/:userId", ticketHandler.Send)
		admin.PUT("/tickets/use/:ticketId", ticketHandler.Use)
		admin.POST("/tickets/validate/:codigoQR", ticketHandler.Validate)

		// Points management
		admin.POST("/points/add", pointsHandler.Add)
		admin.POST("/points/validate-redeem", pointsHandler.ValidateRedeem)
		admin.GET("/points/check-eligibility/:usuarioId", pointsHandler.CheckEligibility)

		// Catalog management
		admin.POST("/events", eventHandler.Create)
		admin.PUT("/events/:eventId", eventHandler.Update)
		admin.DELETE("/events/:eventId", eventHandler.Delete)

		admin.GET("/benefits", benefitHandler.ListAll)
		admin.POST("/benefits", benefitHandler.Create)
		admin.PUT("/benefits/:benefitId", benefitHandler.Update)
		admin.DELETE("/benefits/:benefitId", benefitHandler.Delete)

		admin.GET("/rewards", rewardHandler.ListAll)
		admin.POST("/rewards", rewardHandler.Create)
		admin.PUT("/rewards/:rewardId", rewardHandler.Update)
		admin.DELETE("/rewards/:rewardId", rewardHandler.Delete)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
