package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the town service.
type Config struct {
	DB                     DBConfig
	Redis                  RedisConfig
	Feed                   FeedConfig
	Port                   string
	CapabilityRefreshHours int
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// FeedConfig points at the upstream town data feed used by admin sync.
type FeedConfig struct {
	APIKey  string
	BaseURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	refreshHours, err := strconv.Atoi(getEnv("CAPABILITY_REFRESH_HOURS", "24"))
	if err != nil || refreshHours < 0 {
		return nil, fmt.Errorf("invalid CAPABILITY_REFRESH_HOURS: %q", os.Getenv("CAPABILITY_REFRESH_HOURS"))
	}

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "town_service"),
			SSLMode:     getEnv("DB_SSLMODE", "verify-ca"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Feed: FeedConfig{
			APIKey:  getEnv("TOWN_FEED_API_KEY", ""),
			BaseURL: getEnv("TOWN_FEED_BASE_URL", "http://localhost:9090/v1"),
		},
		Port:                   getEnv("SERVER_PORT", "8081"),
		CapabilityRefreshHours: refreshHours,
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
