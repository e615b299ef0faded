package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mcha311/rehab-backend/internal/cache"
	"github.com/mcha311/rehab-backend/internal/config"
	"github.com/mcha311/rehab-backend/internal/db"
	"github.com/mcha311/rehab-backend/internal/handlers"
	"github.com/mcha311/rehab-backend/internal/logger"
	"github.com/mcha311/rehab-backend/internal/middleware"
	"github.com/mcha311/rehab-backend/internal/repository"
	"github.com/mcha311/rehab-backend/internal/scheduler"
	"github.com/mcha311/rehab-backend/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long:  `Start the HTTP API server, the streak update worker and the maintenance scheduler.`,
	RunE:  runServe,
}

var (
	port string
)

func init() {
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Override port from flag if provided
	if port != "" {
		cfg.Server.Port = port
	}

	setupLogger(cfg)
	logger.Info("starting rehab API server", logger.String("env", cfg.Server.Env))

	gdb, err := db.Open(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	streakCache := openStreakCache(cfg)

	// Repositories
	planRepo := repository.NewPlanRepository(gdb)
	exerciseRepo := repository.NewExerciseLogRepository(gdb)
	medicationRepo := repository.NewMedicationLogRepository(gdb)
	dietRepo := repository.NewDietLogRepository(gdb)
	summaryRepo := repository.NewDailySummaryRepository(gdb)
	streakRepo := repository.NewStreakRepository(gdb)

	// Services; the queue decouples summary writes from streak updates
	streakService := service.NewStreakService(streakRepo, summaryRepo, streakCache)
	streakQueue := service.NewStreakUpdateQueue(streakService, 256)
	streakQueue.Start()
	defer streakQueue.Stop()

	summaryService := service.NewSummaryService(planRepo, exerciseRepo, medicationRepo, dietRepo, summaryRepo, streakQueue)
	logService := service.NewActivityLogService(planRepo, exerciseRepo, medicationRepo, dietRepo, summaryService)

	// Handlers
	logsHandler := handlers.NewLogsHandler(logService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)
	streakHandler := handlers.NewStreakHandler(streakService)

	sched := scheduler.New(streakService)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	router := buildRouter(cfg, logsHandler, summaryHandler, streakHandler)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", logger.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func setupLogger(cfg *config.Config) {
	logCfg := logger.Config{Level: logger.LevelDebug, Format: "text"}
	if cfg.Server.Env == "production" {
		logCfg = logger.Config{Level: logger.LevelInfo, Format: "json"}
	}
	logger.SetDefault(logger.NewSlogLogger(logCfg))
}

// openStreakCache connects to redis when configured. The cache is
// optional: without it streak reads just hit the database.
func openStreakCache(cfg *config.Config) *cache.StreakCache {
	if cfg.Redis.Addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, streak caching disabled",
			logger.String("addr", cfg.Redis.Addr), logger.Err(err))
		return nil
	}

	logger.Info("streak cache enabled", logger.String("addr", cfg.Redis.Addr))
	return cache.NewStreakCache(client, cfg.Redis.CacheTTL)
}

func buildRouter(cfg *config.Config, logsHandler *handlers.LogsHandler, summaryHandler *handlers.SummaryHandler, streakHandler *handlers.StreakHandler) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(corsConfig()))
	router.Use(middleware.RateLimit())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    cfg.Server.Env,
		})
	})

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(cfg.Auth.JWTSecret))
	{
		writes := v1.Group("")
		writes.Use(middleware.RateLimitWrites())
		{
			writes.POST("/exercise-logs", logsHandler.CreateExerciseLog)
			writes.POST("/medication-logs", logsHandler.CreateMedicationLog)
			writes.POST("/diet-logs", logsHandler.CreateDietLog)
			writes.POST("/daily-summary/recompute", summaryHandler.RecomputeDailySummary)
		}

		v1.GET("/daily-summary", summaryHandler.GetDailySummary)
		v1.GET("/streak", streakHandler.GetStreak)
		v1.GET("/streak/simple", streakHandler.GetStreakSimple)
	}

	return router
}

func corsConfig() cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	return corsCfg
}
