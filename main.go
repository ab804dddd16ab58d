package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rulehub/config"
	"rulehub/githubapi"
	"rulehub/handlers"
	"rulehub/helper"
	"rulehub/middleware"
	"rulehub/repositories"
	"rulehub/scheduler"
	"rulehub/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	version, err := config.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "schema_version", version)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	ruleRepo := repositories.NewRuleRepository(db)
	voteRepo := repositories.NewVoteRepository(db)
	docPageRepo := repositories.NewDocPageRepository(db)
	docTagRepo := repositories.NewDocTagRepository(db)
	docCommentRepo := repositories.NewDocCommentRepository(db)
	collectionRepo := repositories.NewCollectionRepository(db)
	adminRepo := repositories.NewAdminRepository(db)
	syncLogRepo := repositories.NewSyncLogRepository(db)

	// Initialize services
	githubClient := githubapi.NewClient(cfg)
	authService := services.NewAuthService(userRepo, cfg)
	ruleService := services.NewRuleService(ruleRepo, categoryRepo)
	docService := services.NewDocService(docPageRepo, docTagRepo, docCommentRepo)
	voteService := services.NewVoteService(voteRepo, ruleRepo)
	collectionService := services.NewCollectionService(collectionRepo, ruleRepo)
	setupService := services.NewSetupService(ruleRepo)
	syncService := services.NewSyncService(githubClient, ruleRepo, categoryRepo, syncLogRepo, cfg.RulesPath)
	adminService := services.NewAdminService(adminRepo, userRepo, ruleRepo, categoryRepo, docPageRepo, syncLogRepo)

	// Initialize handlers
	httpHelper := helper.NewHTTPHelper()
	authHandler := handlers.NewAuthHandler(authService)
	ruleHandler := handlers.NewRuleHandler(ruleService)
	docHandler := handlers.NewDocHandler(docService)
	voteHandler := handlers.NewVoteHandler(voteService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	setupHandler := handlers.NewSetupHandler(setupService)
	syncHandler := handlers.NewSyncHandler(syncService, cfg)
	adminHandler := handlers.NewAdminHandler(adminService)
	metricsHandler := handlers.NewMetricsHandler()

	authHandler.Helper = httpHelper
	ruleHandler.Helper = httpHelper
	docHandler.Helper = httpHelper
	voteHandler.Helper = httpHelper
	collectionHandler.Helper = httpHelper
	setupHandler.Helper = httpHelper
	syncHandler.Helper = httpHelper
	adminHandler.Helper = httpHelper
	metricsHandler.Helper = httpHelper

	// Setup router
	router := gin.Default()

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-API-Key")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Public catalog routes
		v1.GET("/categories", ruleHandler.GetCategories)
		v1.GET("/categories/:identifier", ruleHandler.GetCategory)
		v1.GET("/rules", ruleHandler.GetRules)
		v1.GET("/rules/lookup", ruleHandler.LookupRule)
		v1.GET("/rules/:identifier", ruleHandler.GetRule)
		v1.GET("/rules/:identifier/versions", ruleHandler.GetRuleVersions)

		// Public documentation routes
		docs := v1.Group("/docs")
		{
			docs.GET("/tree", docHandler.GetTree)
			docs.GET("/search", docHandler.SearchPages)
			docs.GET("/tags", docHandler.GetTags)
			docs.GET("/pages/:identifier", docHandler.GetPage)
			docs.GET("/pages/:identifier/comments", docHandler.GetComments)
		}

		v1.GET("/public/collections", collectionHandler.GetPublic)

		// Setup wizard
		v1.POST("/setup/generate", setupHandler.GeneratePackage)

		// Browser performance samples
		v1.POST("/vitals", metricsHandler.ReportWebVital)

		// Source repository webhook (HMAC-authenticated)
		v1.POST("/webhook/github", syncHandler.Webhook)

		// Protected routes
		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			// Profile
			protected.GET("/profile", authHandler.GetProfile)

			// Votes
			protected.POST("/rules/:identifier/vote", voteHandler.AddVote)
			protected.DELETE("/rules/:identifier/vote", voteHandler.RemoveVote)
			protected.GET("/rules/:identifier/vote", voteHandler.GetVoteStatus)

			// Collections
			collections := protected.Group("/collections")
			{
				collections.POST("", collectionHandler.Create)
				collections.GET("", collectionHandler.GetMine)
				collections.GET("/:id", collectionHandler.Get)
				collections.PUT("/:id", collectionHandler.Update)
				collections.DELETE("/:id", collectionHandler.Delete)
				collections.POST("/:id/rules/:rule_id", collectionHandler.AddRule)
				collections.DELETE("/:id/rules/:rule_id", collectionHandler.RemoveRule)
			}

			// Page comments
			protected.POST("/docs/pages/:identifier/comments", docHandler.CreateComment)
			protected.PUT("/docs/comments/:comment_id", docHandler.UpdateComment)
			protected.DELETE("/docs/comments/:comment_id", docHandler.DeleteComment)
			protected.POST("/docs/comments/:comment_id/resolve", docHandler.ResolveComment)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(cfg), middleware.AdminMiddleware(adminRepo))
		{
			// Sync
			admin.POST("/sync", syncHandler.TriggerSync)
			admin.GET("/sync/status", syncHandler.SyncStatus)
			admin.GET("/sync/history", syncHandler.SyncHistory)

			// Content management
			admin.POST("/rules", ruleHandler.CreateRule)
			admin.PUT("/rules/:id", ruleHandler.UpdateRule)
			admin.DELETE("/rules/:id", ruleHandler.DeleteRule)
			admin.POST("/categories", ruleHandler.CreateCategory)
			admin.PUT("/categories/:id", ruleHandler.UpdateCategory)
			admin.DELETE("/categories/:id", ruleHandler.DeleteCategory)

			// Documentation management
			admin.POST("/docs/pages", docHandler.CreatePage)
			admin.PUT("/docs/pages/:id", docHandler.UpdatePage)
			admin.DELETE("/docs/pages/:id", docHandler.DeletePage)
			admin.POST("/docs/tags", docHandler.CreateTag)
			admin.PUT("/docs/tags/:id", docHandler.UpdateTag)
			admin.DELETE("/docs/tags/:id", docHandler.DeleteTag)

			// Admin allow-list
			admin.GET("/admins", adminHandler.ListAdmins)
			admin.POST("/admins", adminHandler.AddAdmin)
			admin.DELETE("/admins/:email", adminHandler.RemoveAdmin)

			// Users
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/users/stats", adminHandler.UserStats)

			// Database operations
			admin.GET("/database/stats", adminHandler.DatabaseStats)
			admin.POST("/database/backup", adminHandler.Backup)
			admin.POST("/database/cleanup", adminHandler.Cleanup)
			admin.POST("/database/optimize", adminHandler.Optimize)
		}
	}

	// Periodic sync
	var syncScheduler *scheduler.Scheduler
	if cfg.SyncIntervalMinutes > 0 {
		syncScheduler = scheduler.New(syncService, time.Duration(cfg.SyncIntervalMinutes)*time.Minute)
		syncScheduler.Start()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	if syncScheduler != nil {
		syncScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
