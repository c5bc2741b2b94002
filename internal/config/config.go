package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverSupabase = "supabase"
	StoreDriverMemory   = "memory"
)

type Config struct {
	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	// SupabaseServiceKey is the server-side secret key. The documents table
	// and the storage bucket are not reachable with the publishable key.
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Document store
	DatabaseURL string
	StoreDriver string

	// Session
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool

	// Redis (session revocation)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Kafka (activity events)
	KafkaBrokers []string
	KafkaTopic   string

	// Server
	Port        string
	Environment string
	LogLevel    string
}

func Load() (*Config, error) {
	cfg := &Config{
		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseServiceKey:     os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", "")),

		SessionSecret: getEnv("SESSION_SECRET", ""),
		SessionTTL:    time.Duration(getEnvInt("SESSION_TTL_HOURS", 168)) * time.Hour,
		CookieSecure:  getEnvBool("COOKIE_SECURE", false),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		KafkaBrokers: splitCSV(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "rakitin.activity"),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	if cfg.StoreDriver == "" {
		if cfg.DatabaseURL != "" {
			cfg.StoreDriver = StoreDriverPostgres
		} else {
			cfg.StoreDriver = StoreDriverSupabase
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabasePublishableKey == "" {
		return fmt.Errorf("SUPABASE_PUBLISHABLE_KEY is required")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("SESSION_SECRET is required and must be at least 16 characters")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL_HOURS must be positive")
	}
	if c.SupabaseStorageBucket != "" && c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required when SUPABASE_STORAGE_BUCKET is set")
	}
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store driver")
		}
	case StoreDriverSupabase:
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY is required for the supabase store driver")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}

// IsProduction reports whether the server runs with release settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
