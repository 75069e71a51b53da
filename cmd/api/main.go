package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"real-estate-marketplace/internal/analytics"
	"real-estate-marketplace/internal/auth"
	"real-estate-marketplace/internal/cache"
	"real-estate-marketplace/internal/config"
	"real-estate-marketplace/internal/database"
	"real-estate-marketplace/internal/handlers"
	"real-estate-marketplace/internal/notify"
	"real-estate-marketplace/internal/ratelimit"
	"real-estate-marketplace/internal/scheduler"
	"real-estate-marketplace/internal/search"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	db           *database.DB
	gormDB       *database.GormDB
	searchClient *search.SearchClient
	appConfig    *config.Config
	rateLimiter  *ratelimit.RateLimiter
	appScheduler *scheduler.Scheduler
)

func main() {
	// Load configuration
	configPath := getEnv("CONFIG_PATH", "/app/config/app_config.yaml")
	var err error
	appConfig, err = config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Initialize database based on configuration
	dbType := appConfig.Database.Type
	if dbType == "" {
		dbType = getEnv("DB_TYPE", "mysql")
	}

	if dbType == "mysql" {
		log.Println("Using MySQL with GORM")
		mysqlCfg := appConfig.Database.MySQL

		portStr := ""
		if mysqlCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", mysqlCfg.Port)
		}

		gormDB, err = database.NewGormDB(
			getEnvOrConfig(mysqlCfg.Host, "DB_HOST", "mysql"),
			getEnvOrConfig(portStr, "DB_PORT", "3306"),
			getEnvOrConfig(mysqlCfg.User, "DB_USER", "marketplace_user"),
			getEnvOrConfig(mysqlCfg.Password, "DB_PASSWORD", "marketplace_pass"),
			getEnvOrConfig(mysqlCfg.Database, "DB_NAME", "marketplace_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to MySQL: %v", err)
		}
		defer gormDB.Close()

		// Initialize schema with GORM AutoMigrate
		if err := gormDB.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	} else {
		// The legacy store serves the reduced public catalog only
		log.Println("Using PostgreSQL (legacy reduced mode)")
		pgCfg := appConfig.Database.Postgres

		portStr := ""
		if pgCfg.Port > 0 {
			portStr = fmt.Sprintf("%d", pgCfg.Port)
		}

		db, err = database.NewDB(
			getEnvOrConfig(pgCfg.Host, "DB_HOST", "db"),
			getEnvOrConfig(portStr, "DB_PORT", "5432"),
			getEnvOrConfig(pgCfg.User, "DB_USER", "marketplace_user"),
			getEnvOrConfig(pgCfg.Password, "DB_PASSWORD", "marketplace_pass"),
			getEnvOrConfig(pgCfg.Database, "DB_NAME", "marketplace_db"),
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
	}

	// Initialize Meilisearch
	if appConfig.Search.Enabled {
		meilisearchHost := appConfig.Search.Meilisearch.Host
		if meilisearchHost == "" {
			meilisearchHost = getEnv("MEILISEARCH_HOST", "http://meilisearch:7700")
		}
		meilisearchKey := appConfig.Search.Meilisearch.APIKey

		searchClient = search.NewSearchClient(meilisearchHost, meilisearchKey)

		// Wait for Meilisearch to be ready
		time.Sleep(2 * time.Second)

		if err := searchClient.InitIndex(); err != nil {
			log.Printf("Warning: Failed to initialize search index: %v", err)
		}
	} else {
		log.Println("Search is disabled in configuration")
	}

	// Initialize rate limiter for the public tracking endpoint
	rateLimiter = ratelimit.NewRateLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Rate limiter initialized: %d req/min, %d req/hour (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)

	// Push delivery
	sender := notify.NewSender(appConfig.Notifications.FCMServerKey, appConfig.Notifications.FCMEndpoint)
	dispatcher := notify.NewDispatcher(sender)

	// Start announcement delivery (MySQL only)
	if gormDB != nil {
		appScheduler = scheduler.NewScheduler(gormDB.DB(), dispatcher, appConfig)
		if err := appScheduler.Start(); err != nil {
			log.Printf("Warning: Failed to start scheduler: %v", err)
		}
		defer appScheduler.Stop()
	}

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     appConfig.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(handlers.RequestID())
	if appConfig.Logging.LogRequests {
		r.Use(handlers.RequestLogger())
	}

	// Token parsing is optional on public routes; the catalog scope depends on
	// who is asking
	r.Use(auth.Middleware(appConfig.Auth.JWTSecret))

	r.GET("/health", healthCheck)

	if gormDB != nil {
		registerRoutes(r, dispatcher)
	} else {
		registerLegacyRoutes(r)
	}

	port := appConfig.Server.Port
	if port == "" {
		port = getEnv("PORT", "8080")
	}
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// registerRoutes wires the full API against the primary MySQL store
func registerRoutes(r *gin.Engine, dispatcher *notify.Dispatcher) {
	sqlDB := gormDB.DB()

	settingsCache := cache.NewSettings(sqlDB, appConfig.Cache.SettingsTTL())
	notifyService := notify.NewService(sqlDB, dispatcher)
	analyticsService := analytics.NewService(sqlDB)

	catalogHandler := handlers.NewCatalogHandler(sqlDB)
	listingHandler := handlers.NewListingHandler(gormDB, searchClient)
	promotionHandler := handlers.NewPromotionHandler(sqlDB)
	favoriteHandler := handlers.NewFavoriteHandler(sqlDB)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	notificationHandler := handlers.NewNotificationHandler(sqlDB)
	searchHandler := handlers.NewSearchHandler(searchClient)
	adminHandler := handlers.NewAdminHandler(sqlDB, searchClient, appScheduler, notifyService, settingsCache)

	api := r.Group("/api")
	{
		// Public catalog
		api.GET("/governorates", catalogHandler.GetGovernorates)
		api.GET("/cities", catalogHandler.GetCities)
		api.GET("/major-zones", catalogHandler.GetMajorZones)
		api.GET("/subdivisions", catalogHandler.GetSubdivisions)
		api.GET("/categories", catalogHandler.GetCategories)
		api.GET("/categories/:id/features", catalogHandler.GetCategoryFeatures)
		api.GET("/contact-info", catalogHandler.GetContactInfo)

		api.GET("/listings", listingHandler.List)
		api.GET("/listings/:id", listingHandler.Get)
		api.GET("/promotions", promotionHandler.List)
		api.GET("/promotions/:id", promotionHandler.Get)
		api.GET("/search", searchHandler.Search)

		api.POST("/analytics/track", rateLimiter.Middleware(), analyticsHandler.Track)

		// Authenticated
		authed := api.Group("", auth.RequireAuth())
		{
			authed.POST("/listings", listingHandler.Create)
			authed.PUT("/listings/:id", listingHandler.Update)
			authed.PATCH("/listings/:id", listingHandler.Update)
			authed.DELETE("/listings/:id", listingHandler.Delete)
			authed.GET("/listings/my", listingHandler.My)

			authed.GET("/favorites", favoriteHandler.List)
			authed.POST("/favorites/toggle", favoriteHandler.Toggle)

			authed.GET("/notifications", notificationHandler.List)
			authed.POST("/notifications/mark-all-read", notificationHandler.MarkAllRead)
			authed.POST("/notifications/fcm-token", notificationHandler.UpdateFCMToken)
		}

		// Admin
		admin := api.Group("/admin", auth.RequireAdmin())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/stats/governorates", adminHandler.GetGovernorateStats)
			admin.GET("/stats/price-distribution", adminHandler.GetPriceDistribution)

			admin.POST("/listings/:id/approve", adminHandler.ApproveListing)
			admin.POST("/listings/:id/reject", adminHandler.RejectListing)

			admin.PUT("/settings/:key", adminHandler.UpdateSetting)
			admin.POST("/announcements", adminHandler.CreateAnnouncement)
			admin.POST("/announcements/deliver", adminHandler.DeliverAnnouncements)

			admin.POST("/search/reindex", adminHandler.Reindex)
			admin.POST("/cleanup/run", adminHandler.RunCleanup)
		}
	}

	log.Println("API routes registered at /api/*")
}

// registerLegacyRoutes wires the reduced catalog against the legacy store
func registerLegacyRoutes(r *gin.Engine) {
	legacyHandler := handlers.NewLegacyListingHandler(db)

	api := r.Group("/api")
	{
		api.GET("/listings", legacyHandler.List)
		api.GET("/listings/:id", legacyHandler.Get)
		api.POST("/analytics/track", rateLimiter.Middleware(), legacyHandler.Track)
	}

	log.Println("Legacy API routes registered at /api/* (reduced mode)")
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}
