package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"news-cms/internal/config"
	"news-cms/internal/db"
	"news-cms/internal/logger"
	"news-cms/internal/middleware"
	"news-cms/internal/page"
	"news-cms/internal/revalidate"
	"news-cms/internal/section"
	"news-cms/internal/validation"
	"news-cms/internal/worker"
	"news-cms/redis"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	config.LoadConfig()
	logger.Init(config.AppConfig.Environment, config.AppConfig.LogLevel)

	// Connect to database
	if err := db.ConnectDb(); err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.CloseDb()

	// Migrate database schema
	db.Migrate()

	// Seed database with initial data (for development)
	if config.AppConfig.Environment == "development" {
		db.SeedData()
	}

	// Initialize Redis
	redis.InitRedis()
	defer redis.CloseRedis()
	cache := redis.NewCache(redis.RedisClient)

	// Background revalidation of the public site
	pool := worker.NewWorkerPool(config.AppConfig.WorkerPoolSize, 100, 5*time.Second)
	defer pool.Shutdown()

	var revalidator revalidate.Revalidator
	if config.AppConfig.FrontendAddress != "" {
		revalidator = revalidate.NewClient(config.AppConfig.FrontendAddress, config.AppConfig.RevalidateSecret)
	} else {
		log.Warn().Msg("FRONTEND_ADDRESS not set, revalidation disabled")
	}
	notifier := revalidate.NewNotifier(revalidator, pool)

	// Initialize repository
	pageRepo := page.NewRepository(db.AppDb)
	sectionRepo := section.NewRepository(db.AppDb)
	// Initialize service
	pageService := page.NewService(pageRepo, cache, config.AppConfig.CacheTTL, notifier)
	sectionService := section.NewService(sectionRepo, pageService, notifier)
	// Initialize handler
	pageHandler := page.NewHandler(pageService)
	sectionHandler := section.NewHandler(sectionService)

	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.Register()

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.ErrorHandler())

	// cors setting
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if config.AppConfig.Environment == "development" {
		// Allow all origins in development
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.AppConfig.AllowedOrigins
	}
	router.Use(cors.New(corsConfig))

	// Page routes
	router.POST("/pages", pageHandler.Create)
	router.GET("/pages", pageHandler.List)
	router.GET("/pages/public/:slug", pageHandler.ShowPublic)
	router.GET("/pages/:id", pageHandler.Show)

	// Section routes
	router.POST("/sections", sectionHandler.Create)
	router.POST("/sections/reorder", sectionHandler.Reorder)
	router.GET("/sections/page/:pageId", sectionHandler.ListByPage)
	router.GET("/sections/:id", sectionHandler.Show)
	router.PATCH("/sections/:id", sectionHandler.Update)
	router.DELETE("/sections/:id", sectionHandler.Delete)
	router.POST("/sections/:id/move", sectionHandler.Move)

	router.GET("/healthz", healthz)

	// Server configuration
	serverPort := config.AppConfig.ServerPort
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverPort),
		Handler: router.Handler(),
	}

	// Start server
	go func() {
		log.Info().Str("port", serverPort).Msg("Server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server shutdown complete")
}

func healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := gin.H{"database": "up", "redis": "disabled"}
	code := http.StatusOK

	if err := db.Ping(ctx, db.AppDb); err != nil {
		status["database"] = "down"
		code = http.StatusServiceUnavailable
	}
	if redis.RedisClient != nil {
		status["redis"] = "up"
		if err := redis.RedisClient.Ping(ctx).Err(); err != nil {
			// the api keeps serving from the database without redis
			status["redis"] = "down"
		}
	}

	c.JSON(code, status)
}
