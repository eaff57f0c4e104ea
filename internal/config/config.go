package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// GeminiConfig holds the configuration for the generative model API.
type GeminiConfig struct {
	APIKey        string
	Model         string
	GradingModel  string        // cheaper model used for answer-sheet extraction
	UploadTimeout time.Duration // per-file bound on file API uploads
}

// Config holds all application configuration loaded from the environment.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	// Filesystem roots
	PaperRoot   string // generated paper artifacts
	ContextRoot string // reference chapter documents for school exams
	RenderRoot  string // rendered question/answer PDFs

	// Auth
	JWTSecret string

	// Messaging
	KafkaBrokers []string

	Gemini GeminiConfig
}

// LoadConfig reads configuration from .env (if present) and the environment.
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),
		PaperRoot:   getEnv("PAPER_ROOT", "generated_papers"),
		ContextRoot: getEnv("CONTEXT_ROOT", "context/books"),
		RenderRoot:  getEnv("RENDER_ROOT", "rendered_papers"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		Gemini: GeminiConfig{
			APIKey:        os.Getenv("GEMINI_API_KEY"),
			Model:         getEnv("GEMINI_MODEL", "gemini-2.5-pro"),
			GradingModel:  getEnv("GEMINI_GRADING_MODEL", "gemini-2.5-flash-lite"),
			UploadTimeout: getEnvDuration("GEMINI_UPLOAD_TIMEOUT", 2*time.Minute),
		},
	}

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Gemini.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
