package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage backends selectable through STORAGE_BACKEND.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	LogLevel       string
	StorageBackend string

	JWTSecret string
	JWTIssuer string // Empty accepts tokens from any issuer

	CORSAllowedOrigins []string
	RateLimit          string // ulule limiter format, e.g. "100-M"

	ReadRetryMaxAttempts     int
	ReadRetryInitialInterval time.Duration

	// Sale events; an empty AMQPURL disables the consumer
	AMQPURL           string
	AMQPSalesExchange string
	AMQPSalesQueue    string

	SalesDefaultCategory string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("READ_RETRY_MAX_ATTEMPTS", 3)
	v.SetDefault("READ_RETRY_INITIAL_INTERVAL", "100ms")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_SALES_EXCHANGE", "sales")
	v.SetDefault("AMQP_SALES_QUEUE", "ledger.sales")
	v.SetDefault("SALES_DEFAULT_CATEGORY", "sales")

	// Defaults, then .env values, then actual environment variables.
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:          v.GetString("PGSQL_URL"),
		Port:                 v.GetString("PORT"),
		IsProduction:         v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:        v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:             strings.ToLower(v.GetString("LOG_LEVEL")),
		StorageBackend:       strings.ToLower(v.GetString("STORAGE_BACKEND")),
		JWTSecret:            v.GetString("JWT_SECRET"),
		JWTIssuer:            v.GetString("JWT_ISSUER"),
		CORSAllowedOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		RateLimit:            v.GetString("RATE_LIMIT"),
		ReadRetryMaxAttempts: v.GetInt("READ_RETRY_MAX_ATTEMPTS"),
		AMQPURL:              v.GetString("AMQP_URL"),
		AMQPSalesExchange:    v.GetString("AMQP_SALES_EXCHANGE"),
		AMQPSalesQueue:       v.GetString("AMQP_SALES_QUEUE"),
		SalesDefaultCategory: v.GetString("SALES_DEFAULT_CATEGORY"),
	}

	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	intervalStr := v.GetString("READ_RETRY_INITIAL_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil || interval <= 0 {
		interval = 100 * time.Millisecond
		log.Printf("Warning: Invalid value for READ_RETRY_INITIAL_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
	}
	cfg.ReadRetryInitialInterval = interval

	if cfg.ReadRetryMaxAttempts < 1 {
		log.Printf("Warning: READ_RETRY_MAX_ATTEMPTS must be at least 1. Defaulting to 1.\n")
		cfg.ReadRetryMaxAttempts = 1
	}

	switch cfg.StorageBackend {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL environment variable not set.")
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_BACKEND=memory, data is lost on restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND '%s', expected %s or %s", cfg.StorageBackend, StoragePostgres, StorageMemory)
	}

	if cfg.IsProduction && cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
