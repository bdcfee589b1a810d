package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"collelink/database"
	"collelink/internal/config"
	"collelink/internal/feed"
	"collelink/internal/jobs"
	"collelink/internal/microservices/http-api/handler"
	"collelink/internal/microservices/http-api/middleware"
	"collelink/internal/microservices/http-api/repository"
	"collelink/internal/microservices/http-api/service"
	"collelink/internal/microservices/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	redisClient := connectRedis(cfg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// feed: local hub + redis bridge for cross-instance delivery
	hub := feed.NewHub()
	bridge := feed.NewBridge(redisClient, hub, logger)
	go func() {
		if err := bridge.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("feed bridge stopped", "error", err)
		}
	}()

	// repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	clubRepo := repository.NewClubRepository(db)
	eventRepo := repository.NewEventRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)

	// services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notificationService := service.NewNotificationService(notificationRepo, bridge)
	clubService := service.NewClubService(clubRepo, notificationService, logger)
	eventService := service.NewEventService(eventRepo, clubRepo, notificationService, logger)
	messageService := service.NewMessageService(messageRepo, userRepo, notificationService, logger)
	leaderboardService := service.NewLeaderboardService(certificateRepo, redisClient, notificationService, logger)

	// background jobs
	scheduler := jobs.NewScheduler(eventService, cfg.ReminderWindow, logger)
	if err := scheduler.Start(cfg.ReminderSpec); err != nil {
		logger.Error("failed to start reminder job", "error", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	router := newRouter(cfg, logger, hub, authService, notificationService,
		clubService, eventService, messageService, leaderboardService)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		logger.Info("api server listening", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// connectRedis returns nil when redis is unreachable; the feed degrades to
// local delivery and the leaderboard falls back to Postgres.
func connectRedis(cfg *config.Config, logger *slog.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("invalid redis url, running without redis", "error", err)
		return nil
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("redis unreachable, running without redis", "error", err)
		client.Close()
		return nil
	}
	return client
}

func newRouter(
	cfg *config.Config,
	logger *slog.Logger,
	hub *feed.Hub,
	authService service.AuthService,
	notificationService service.NotificationService,
	clubService service.ClubService,
	eventService service.EventService,
	messageService service.MessageService,
	leaderboardService service.LeaderboardService,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authLimiter := middleware.NewRateLimiter(cfg.AuthRatePerSecond, cfg.AuthRateBurst)
	authGroup := api.Group("/auth", authLimiter.Middleware())
	handler.NewAuthHandler(authService).RegisterRoutes(authGroup)

	wsHandler := websocket.NewHandler(hub, authService, notificationService, logger)
	api.GET("/ws", wsHandler.Serve)

	protected := api.Group("", middleware.AuthMiddleware(authService))
	handler.NewNotificationHandler(notificationService).RegisterRoutes(protected.Group("/notifications"))
	handler.NewClubHandler(clubService).RegisterRoutes(protected.Group("/clubs"))
	handler.NewEventHandler(eventService).RegisterRoutes(protected.Group("/events"))
	handler.NewMessageHandler(messageService).RegisterRoutes(protected.Group("/messages"))

	leaderboardHandler := handler.NewLeaderboardHandler(leaderboardService)
	leaderboardHandler.RegisterRoutes(protected.Group("/leaderboard"))
	protected.POST("/leaderboard/award", middleware.RequireAdmin(), leaderboardHandler.Award)

	return router
}
