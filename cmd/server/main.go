package main

import (
	"fmt"
	"log"
	"net/http"

	"swiftaid/internal/config"
	"swiftaid/internal/handlers"
	"swiftaid/internal/repositories/mongodb"
	"swiftaid/internal/services"
	"swiftaid/pkg/cache"
	"swiftaid/pkg/database"
	"swiftaid/pkg/logger"
	"swiftaid/pkg/websocket"
	"swiftaid/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logFormat := "text"
	if cfg.App.Environment == "production" {
		logFormat = "json"
	}
	appLogger, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: logFormat,
		Output: "stdout",
		Colors: cfg.App.Environment != "production",
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	// MongoDB
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		appLogger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db.Database).Up(); err != nil {
		appLogger.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.App.SeedData {
		if err := database.SeedUsers(db.Database); err != nil {
			appLogger.Fatalf("Failed to seed users: %v", err)
		}
	}

	// Redis is optional; without it reads go straight to MongoDB.
	var cacheService services.CacheService
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		appLogger.Warnf("Redis unavailable, running without cache: %v", err)
		cacheService = services.NewNoopCacheService()
	} else {
		defer redisCache.Close()
		cacheService = services.NewCacheService(redisCache)
	}

	// Repositories
	requestRepo := mongodb.NewRequestRepository(db.Database, cacheService)
	userRepo := mongodb.NewUserRepository(db.Database)

	// WebSocket hub doubles as the engine's notifier
	wsHandler := websocket.NewHandler(&websocket.Config{
		ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
		WriteBufferSize: cfg.WebSocket.WriteBufferSize,
		AllowedOrigins:  cfg.WebSocket.AllowedOrigins,
	})

	// Lifecycle events reach the in-process hub and the Redis change channel
	notifier := services.NewEventPublisher(wsHandler, cacheService, appLogger)

	// Services
	dispatchService := services.NewDispatchService(requestRepo, userRepo, notifier, appLogger)
	chatService := services.NewChatService(requestRepo, notifier, appLogger)
	driverService := services.NewDriverService(userRepo, appLogger)
	statsService := services.NewStatsService(requestRepo, userRepo)

	// Handlers
	requestHandler := handlers.NewRequestHandler(dispatchService, chatService)
	driverHandler := handlers.NewDriverHandler(dispatchService, driverService)
	adminHandler := handlers.NewAdminHandler(dispatchService, driverService, statsService)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Security.CORSAllowedOrigins
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowOrigins = nil
	}
	router.Use(cors.New(corsConfig))

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			appLogger.Fatalf("Failed to set trusted proxies: %v", err)
		}
	}

	v1 := router.Group("/api/v1")
	routes.SetupRoutes(v1, cfg.Security.JWTSecret, requestHandler, driverHandler, adminHandler, wsHandler)

	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"version": cfg.App.Version,
		})
	})

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	appLogger.Infof("Starting %s on %s", cfg.App.Name, addr)
	if err := router.Run(addr); err != nil {
		appLogger.Fatalf("Failed to start server: %v", err)
	}
}
