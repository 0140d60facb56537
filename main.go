package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/noteshub/noteshub-api/config"
	"github.com/noteshub/noteshub-api/controllers"
	"github.com/noteshub/noteshub-api/middleware"
	"github.com/noteshub/noteshub-api/models"
	"github.com/noteshub/noteshub-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting NotesHub API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Account{},
		&models.Profile{},
		&models.Subject{},
		&models.Note{},
		&models.Order{},
		&models.Review{},
		&models.WishlistItem{},
		&models.RefreshToken{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize S3-backed attachment storage when a bucket is configured
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, note attachments disabled")
	}

	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the Gin engine with all API routes registered
func setupRouter() *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Authentication
		v1.POST("/register", controllers.Register)
		v1.POST("/login", controllers.Login)
		v1.POST("/token/refresh", controllers.RefreshToken)

		// Subjects
		v1.GET("/subjects", controllers.ListSubjects)

		// Public catalog, with optional viewer annotation
		v1.GET("/notes", middleware.OptionalAuth(), controllers.ListNotes)
		v1.GET("/search", middleware.OptionalAuth(), controllers.SearchNotes)
		v1.GET("/notes/:id/reviews", controllers.ListNoteReviews)

		// Authenticated routes
		authed := v1.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("/profile", controllers.GetMyProfile)
			authed.POST("/profile", controllers.CreateProfile)

			authed.POST("/notes/create", controllers.CreateNote)
			authed.POST("/notes/:id/file", controllers.UploadNoteFile)
			authed.POST("/notes/:id/reviews", controllers.CreateReview)

			authed.GET("/wishlist", controllers.ListWishlist)
			authed.POST("/wishlist/add", controllers.AddToWishlist)
			authed.DELETE("/wishlist/:id", controllers.RemoveFromWishlist)

			authed.GET("/orders", controllers.ListMyOrders)
			authed.POST("/orders/create", controllers.CreateOrder)
			authed.POST("/orders/:id/complete", controllers.CompleteOrder)
			authed.POST("/orders/:id/cancel", controllers.CancelOrder)

			authed.GET("/dashboard/stats", controllers.DashboardStats)
			authed.GET("/dashboard/activity", controllers.DashboardActivity)
			authed.GET("/dashboard/top-notes", controllers.DashboardTopNotes)
			authed.GET("/analytics", controllers.Analytics)
		}
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "NotesHub API is running",
	})
}
