package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	// Server configuration
	ServerPort     string
	Environment    string
	AllowedOrigins []string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis configuration
	RedisAddress string
	CacheTTL     time.Duration

	// Public renderer (Next.js) used for on-demand revalidation
	FrontendAddress  string
	RevalidateSecret string

	WorkerPoolSize int
	LogLevel       string
}

// Global application configuration
var AppConfig Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Find .env file
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Try to find .env in parent directories
		envPath = filepath.Join("..", ".env")
		if _, err := os.Stat(envPath); os.IsNotExist(err) {
			envPath = filepath.Join("..", "..", ".env")
		}
	}

	// Load .env file if it exists
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			log.Warn().Err(err).Msg("error loading .env file")
		}
	}

	AppConfig = Config{
		ServerPort:       getEnv("PORT", "8080"),
		Environment:      getEnv("ENV", "development"),
		AllowedOrigins:   getEnvList("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "news_cms"),
		RedisAddress:     getEnv("REDIS_ADDRESS", "localhost:6379"),
		CacheTTL:         getEnvDuration("CACHE_TTL", 10*time.Minute),
		FrontendAddress:  getEnv("FRONTEND_ADDRESS", ""),
		RevalidateSecret: getEnv("REVALIDATE_SECRET", "news-cms-revalidate"),
		WorkerPoolSize:   getEnvInt("WORKER_POOL_SIZE", 4),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma separated variable, dropping empty entries
func getEnvList(key, defaultValue string) []string {
	var list []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}
