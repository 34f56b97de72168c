package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/grav-clothing/grav-cms-api/config"
	"github.com/grav-clothing/grav-cms-api/controllers"
	"github.com/grav-clothing/grav-cms-api/middleware"
	"github.com/grav-clothing/grav-cms-api/models"
	"github.com/grav-clothing/grav-cms-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Grav CMS API server...")

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
	if err := db.AutoMigrate(&models.Tender{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Initialize the label pipeline services
	services.InitBarcodeRenderer()
	services.InitExportService()

	// S3 is only needed for the archive endpoint; skip when not configured
	if cfg.AWSS3Bucket != "" {
		if _, err := services.InitS3Service(); err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
	} else {
		log.Println("AWS_S3_BUCKET not set, label archiving disabled")
	}

	// Initialize Gin router
	router := setupRouter()

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the router with all middleware and routes attached
func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middleware.RequestID())
	router.Use(cors.Default())

	v1 := router.Group("/api/cms/v1")
	{
		// Health check endpoint
		v1.GET("/health", healthCheck)

		// Database status endpoint
		v1.GET("/database/status", databaseStatus)

		// Tender CRUD
		v1.POST("/tenders", controllers.CreateTender)
		v1.GET("/tenders", controllers.ListTenders)
		v1.GET("/tenders/:id", controllers.GetTender)
		v1.PUT("/tenders/:id", controllers.UpdateTender)
		v1.DELETE("/tenders/:id", controllers.DeleteTender)

		// Order model mutations
		v1.POST("/tenders/:id/categories", controllers.AddCategory)
		v1.PATCH("/tenders/:id/categories/:categoryId", controllers.UpdateCategory)
		v1.DELETE("/tenders/:id/categories/:categoryId", controllers.RemoveCategory)
		v1.POST("/tenders/:id/categories/:categoryId/variants", controllers.AddVariant)
		v1.PATCH("/tenders/:id/categories/:categoryId/variants/:variantId", controllers.UpdateVariant)
		v1.DELETE("/tenders/:id/categories/:categoryId/variants/:variantId", controllers.RemoveVariant)
		v1.POST("/tenders/:id/categories/:categoryId/variants/:variantId/operations", controllers.AddOperation)
		v1.PUT("/tenders/:id/categories/:categoryId/variants/:variantId/operations/:index", controllers.SetOperation)
		v1.DELETE("/tenders/:id/categories/:categoryId/variants/:variantId/operations/:index", controllers.RemoveOperation)

		// Label pipeline
		v1.POST("/tenders/:id/labels", controllers.GenerateLabels)
		v1.GET("/tenders/:id/labels", controllers.GetLabels)
		v1.GET("/tenders/:id/labels/pdf", controllers.DownloadLabelPDF)
		v1.GET("/tenders/:id/labels/print", controllers.PrintLabels)
		v1.POST("/tenders/:id/labels/archive", controllers.ArchiveLabels)

		// QR download
		v1.GET("/qr", controllers.DownloadQR)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Grav CMS API is running",
	})
}

// databaseStatus checks database connectivity and returns table information
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	// Get the underlying SQL database to check connection
	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	// Ping the database to verify connection
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	// Get list of tables
	var tables []string
	if err := db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public'").Scan(&tables).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_QUERY_ERROR",
				"message": "Failed to query tables",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
		"tables":  tables,
	})
}
