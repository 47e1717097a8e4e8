package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campus-connect-server/config"
	"campus-connect-server/database"
	"campus-connect-server/jobs"
	"campus-connect-server/middleware"
	"campus-connect-server/routes"
	ws "campus-connect-server/websocket"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Redis is optional; ad counters fall back to direct DB writes
	database.InitializeRedis()

	// Seed marketplace categories
	if err := seedListingCategories(); err != nil {
		log.Printf("⚠️ Category seeding failed: %v", err)
	}

	// Set Gin mode
	if config.AppConfig.Server.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.RedirectTrailingSlash = false
	router.RedirectFixedPath = false

	middleware.StartRateLimiterCleanup()

	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RateLimitMiddleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Campus Connect Server is running",
			"time":    time.Now().UTC(),
		})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket hub for direct messages
	messageHub := ws.NewHub()
	go messageHub.Run()
	routes.InitMessageHub(messageHub)

	// API routes
	api := router.Group("/api/v1")
	{
		// Auth routes (no authentication required) - with strict rate limiting
		authRoutes := api.Group("/auth")
		authRoutes.Use(middleware.AuthRateLimitMiddleware())
		routes.RegisterAuthRoutes(authRoutes)

		// Scheduled notification trigger, driven by an external cron and
		// authenticated by a shared key instead of a user token
		api.POST("/cron/scheduled-notifications", routes.TriggerScheduledNotifications)

		// WebSocket endpoint authenticates via query token
		api.GET("/ws/messages", middleware.WebSocketAuthMiddleware(), ws.ServeWS(messageHub))

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/auth/me", routes.GetCurrentUser)

			routes.RegisterUserRoutes(protected.Group("/users"))
			routes.RegisterSubjectRoutes(protected.Group("/subjects"))
			routes.RegisterAttendanceRoutes(protected.Group("/attendance"))
			routes.RegisterNotificationRoutes(protected.Group("/notifications"))
			routes.RegisterCommunityRoutes(protected.Group("/communities"))
			routes.RegisterPostRoutes(protected.Group("/posts"))
			routes.RegisterListingRoutes(protected.Group("/listings"))
			routes.RegisterAdRoutes(protected.Group("/ads"))
			routes.RegisterMessageRoutes(protected.Group("/messages"))
		}

		// Admin routes gated by the policy layer
		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware())
		{
			admin.GET("/dashboard/stats",
				middleware.RequirePermission(middleware.ActionViewDashboard), routes.GetDashboardStats)

			users := admin.Group("/users")
			users.Use(middleware.RequirePermission(middleware.ActionManageUsers))
			routes.RegisterAdminUserRoutes(users)

			admin.POST("/notifications/send",
				middleware.RequirePermission(middleware.ActionSendNotifications), routes.SendNotification)

			schedules := admin.Group("/notifications/schedules")
			schedules.Use(middleware.RequirePermission(middleware.ActionManageSchedules))
			routes.RegisterScheduledNotificationRoutes(schedules)

			ads := admin.Group("/ads")
			ads.Use(middleware.RequirePermission(middleware.ActionManageAds))
			routes.RegisterAdminAdRoutes(ads)
		}
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = config.AppConfig.Server.Port
	}

	// Start background jobs
	retentionJob := jobs.NewRetentionJob()
	retentionJob.Start()
	defer retentionJob.Stop()

	adMetricsJob := jobs.NewAdMetricsJob()
	adMetricsJob.Start()
	defer adMetricsJob.Stop()

	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
