package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/michaelfullmer/contentcreatorforbusiness/api"
	"github.com/michaelfullmer/contentcreatorforbusiness/config"
	"github.com/michaelfullmer/contentcreatorforbusiness/database"
	"github.com/michaelfullmer/contentcreatorforbusiness/middleware"
	"github.com/michaelfullmer/contentcreatorforbusiness/models"
	"github.com/michaelfullmer/contentcreatorforbusiness/repository"
	"github.com/michaelfullmer/contentcreatorforbusiness/services"

	"gorm.io/gorm"
)

func main() {
	// Load application configuration
	config.LoadConfig()

	// Initialize database connection
	db, err := database.Init()
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to initialize database: %v", err)
	}

	// Auto-migrate database schema
	runMigrations(db)

	// Initialize Repositories
	usageRepo := repository.NewUsageRepository(db)
	contentRepo := repository.NewContentRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	log.Println("INFO: [Main] Repositories initialized.")

	// Initialize Services
	entitlementService := services.NewEntitlementService(usageRepo)
	quotaService := services.NewQuotaService(entitlementService, usageRepo)
	generatorService := services.NewGeneratorService(quotaService, usageRepo, services.NewOpenAIStreamer())
	rolloverService := services.NewRolloverService(usageRepo)
	log.Println("INFO: [Main] Services initialized.")

	// Start the billing-period sweep
	if err := rolloverService.Start(config.AppConfig.RolloverSchedule); err != nil {
		log.Fatalf("FATAL: [Main] Failed to start rollover scheduler: %v", err)
	}
	defer rolloverService.Stop()

	// Initialize API Handler with all dependencies
	apiHandler := api.NewAPIHandler(
		usageRepo,
		contentRepo,
		templateRepo,
		brandRepo,
		entitlementService,
		quotaService,
		generatorService,
		db,
	)
	log.Println("INFO: [Main] API Handler initialized.")

	// Create Gin engine
	r := gin.Default()
	r.SetTrustedProxies(nil)

	// Register middlewares
	r.Use(middleware.Logger())
	r.Use(middleware.Cors())
	log.Println("INFO: [Main] Middlewares registered.")

	// Register routes
	registerRoutes(r, apiHandler)
	log.Println("INFO: [Main] Routes registered.")

	// Start the server
	serverPort := ":" + config.AppConfig.Server.Port
	if config.AppConfig.Server.Port == "" {
		log.Println("WARN: [Main] Server port not configured, using default :8080.")
		serverPort = ":8080"
	}
	log.Printf("INFO: [Main] Starting server on port %s", serverPort)
	if err := r.Run(serverPort); err != nil {
		log.Fatalf("FATAL: [Main] Server failed to start: %v", err)
	}
}

func runMigrations(db *gorm.DB) {
	log.Println("INFO: [Main] Running database migrations...")
	err := db.AutoMigrate(
		&models.UserSubscription{},
		&models.ContentItem{},
		&models.Template{},
		&models.BrandProfile{},
	)
	if err != nil {
		log.Fatalf("FATAL: [Main] Failed to auto-migrate database: %v", err)
	}
	log.Println("INFO: [Main] Database migration completed.")
}

func registerRoutes(r *gin.Engine, handler *api.APIHandler) {
	apiGroup := r.Group("/api")
	{
		// Generation and usage
		apiGroup.POST("/generate-content", handler.GenerateContentHandler)
		apiGroup.GET("/usage", handler.UsageHandler)

		// Content items
		contentGroup := apiGroup.Group("/content")
		{
			contentGroup.GET("", handler.ListContentHandler)
			contentGroup.GET("/:id", handler.GetContentHandler)
			contentGroup.POST("", handler.CreateContentHandler)
			contentGroup.PATCH("/:id", handler.UpdateContentHandler)
			contentGroup.DELETE("/:id", handler.DeleteContentHandler)
		}

		// Template catalog
		apiGroup.GET("/templates", handler.ListTemplatesHandler)

		// Brand profile
		apiGroup.GET("/brand", handler.GetBrandHandler)
		apiGroup.POST("/brand", handler.SaveBrandHandler)

		// Subscription lifecycle (fed by the billing integration)
		subscriptionGroup := apiGroup.Group("/subscription")
		{
			subscriptionGroup.POST("", handler.ApplySubscriptionHandler)
			subscriptionGroup.POST("/reset", handler.ResetSubscriptionHandler)
		}
	}
}
