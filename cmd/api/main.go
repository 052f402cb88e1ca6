package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/videotube/videotube/internal/auth"
	"github.com/videotube/videotube/internal/config"
	"github.com/videotube/videotube/internal/handlers"
	"github.com/videotube/videotube/internal/middleware"
	"github.com/videotube/videotube/internal/repository"
	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/internal/storage"
	"github.com/videotube/videotube/pkg/cache"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.SetLevelName(cfg.Server.LogLevel)
	logger.Info("Starting VideoTube API server...")

	db, err := repository.NewDatabase(&cfg.Database)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	if err := db.AutoMigrate(); err != nil {
		logger.WithError(err).Fatal("Failed to migrate database")
	}

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx := context.Background()
	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	media, err := storage.NewMinioStorage(ctx, &cfg.Storage)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialise media storage")
	}

	userEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.UserEvents)
	defer userEventsProducer.Close()

	subscriptionEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.SubscriptionEvents)
	defer subscriptionEventsProducer.Close()

	videoEventsProducer := queue.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics.VideoEvents)
	defer videoEventsProducer.Close()

	userRepo := repository.NewUserRepository(db.DB)
	subscriptionRepo := repository.NewSubscriptionRepository(db.DB)
	videoRepo := repository.NewVideoRepository(db.DB)
	historyRepo := repository.NewWatchHistoryRepository(db.DB)
	tweetRepo := repository.NewTweetRepository(db.DB)

	issuer := auth.NewIssuer(
		cfg.JWT.AccessSecret, cfg.JWT.AccessExpireTime,
		cfg.JWT.RefreshSecret, cfg.JWT.RefreshExpireTime,
	)
	stats := services.NewStatsCache(redisClient, cfg.Cache.ChannelStatsTTL, logger)

	userService := services.NewUserService(userRepo, media, issuer, userEventsProducer, logger)
	channelService := services.NewChannelService(userRepo, subscriptionRepo, historyRepo, stats, subscriptionEventsProducer, logger)
	videoService := services.NewVideoService(videoRepo, historyRepo, media, videoEventsProducer, logger)
	tweetService := services.NewTweetService(tweetRepo, userRepo, userEventsProducer, logger)

	h := &handlers.Handlers{
		User:         handlers.NewUserHandler(userService, channelService, issuer, cfg.Server.SecureCookies, logger),
		Subscription: handlers.NewSubscriptionHandler(channelService, logger),
		Video:        handlers.NewVideoHandler(videoService, logger),
		Tweet:        handlers.NewTweetHandler(tweetService, logger),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"database": db.Ping,
			"redis":    redisClient.Ping,
		}),
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(handlers.LimitBody(cfg.Server.MaxUploadSize))

	// Auth travels in cookies, so the origin is echoed instead of "*".
	router.Use(func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	handlers.RegisterRoutes(router.Group("/api/v1"), h, issuer)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.WithField("port", cfg.Server.Port).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server exited")
}

func init() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	if err := os.MkdirAll("configs", 0755); err != nil {
		log.Printf("Failed to create configs directory: %v", err)
		return
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := createDefaultConfig(configPath); err != nil {
			log.Printf("Failed to create default config: %v", err)
		}
	}
}

func createDefaultConfig(path string) error {
	defaultConfig := `server:
  port: ":8000"
  mode: "debug"
  read_timeout: 30s
  write_timeout: 30s
  shutdown_timeout: 30s
  secure_cookies: false
  max_upload_size: 209715200
  log_level: "info"

database:
  host: "localhost"
  port: 5432
  user: "videotube"
  password: "videotube"
  dbname: "videotube"
  sslmode: "disable"
  max_open_conns: 50
  max_idle_conns: 10

redis:
  host: "localhost"
  port: 6379
  password: ""
  db: 0
  pool_size: 50
  min_idle_conns: 5

kafka:
  brokers:
    - "localhost:9092"
  topics:
    user_events: "user-events"
    subscription_events: "subscription-events"
    video_events: "video-events"
  group_id: "videotube-worker"

jwt:
  access_secret: "change-me-access"
  access_expire_time: 24h
  refresh_secret: "change-me-refresh"
  refresh_expire_time: 240h

storage:
  endpoint: "localhost:9000"
  access_key: "minioadmin"
  secret_key: "minioadmin"
  use_ssl: false
  bucket: "videotube"
  public_url: "http://localhost:9000"

cache:
  channel_stats_ttl: 5m`

	return os.WriteFile(path, []byte(defaultConfig), 0644)
}
