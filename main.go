package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/adityasasidhar/quizproject/internal/config"
	"github.com/adityasasidhar/quizproject/internal/events"
	"github.com/adityasasidhar/quizproject/internal/handlers"
	"github.com/adityasasidhar/quizproject/internal/llm"
	"github.com/adityasasidhar/quizproject/internal/repositories/postgres"
	"github.com/adityasasidhar/quizproject/internal/services"
	"github.com/adityasasidhar/quizproject/internal/utils"
	"github.com/adityasasidhar/quizproject/internal/validator"
	"github.com/adityasasidhar/quizproject/pkg"
)

// dueSoonSweepInterval controls how often the due-soon reminder sweep runs.
const dueSoonSweepInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize database
	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = pkg.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to initialize Redis: %v", err)
		}
	}

	// Initialize repositories
	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{
		DB:          db,
		RedisClient: redisClient,
		PaperRoot:   cfg.PaperRoot,
		Logger:      slogLogger,
	})

	// Initialize validator
	v := validator.New()

	// Initialize the generative model client
	generator, err := llm.New(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.UploadTimeout, slogLogger)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	// Initialize the event publisher (Kafka if configured, otherwise a
	// local no-delivery publisher)
	var publisher events.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = events.NewKafkaEventPublisher(cfg.KafkaBrokers, slogLogger)
		if err != nil {
			log.Fatalf("Failed to initialize event publisher: %v", err)
		}
	} else {
		publisher = events.NewMockEventPublisher(slogLogger)
	}

	// Initialize services
	serviceManager := services.NewServiceManager(repo, generator, publisher, slogLogger, v, services.ServiceManagerConfig{
		JWTSecret:       cfg.JWTSecret,
		ContextRoot:     cfg.ContextRoot,
		RenderRoot:      cfg.RenderRoot,
		GenerationModel: cfg.Gemini.Model,
		GradingModel:    cfg.Gemini.GradingModel,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, logger, cfg.JWTSecret)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Background due-soon reminder sweep
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go runDueSoonSweep(sweepCtx, serviceManager.Notification(), slogLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	stopSweep()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services (closes the event publisher and repository)
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Close database connection
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}

// runDueSoonSweep periodically creates reminder notifications for
// assignments closing within the next day.
func runDueSoonSweep(ctx context.Context, notifier services.NotificationService, logger *slog.Logger) {
	ticker := time.NewTicker(dueSoonSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := notifier.SweepDueSoon(ctx); err != nil {
				logger.ErrorContext(ctx, "Due-soon sweep failed", "error", err)
			}
		}
	}
}
