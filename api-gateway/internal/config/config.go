package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the API gateway.
type Config struct {
	Redis                    RedisConfig
	Port                     string
	TownServiceURL           string
	UserPreferenceServiceURL string
	MatchingServiceURL       string
	RateLimitMax             int
	MatchRateLimitMax        int
	RateLimitWindowSeconds   int
	ProxyTimeout             time.Duration
}

// RateLimitWindow is the fixed window shared by every quota.
func (c *Config) RateLimitWindow() time.Duration {
	return time.Duration(c.RateLimitWindowSeconds) * time.Second
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "3"))
	rateLimitMax, err := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "100"))
	if err != nil || rateLimitMax < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_MAX: %q", os.Getenv("RATE_LIMIT_MAX"))
	}
	matchRateLimitMax, err := strconv.Atoi(getEnv("MATCH_RATE_LIMIT_MAX", "20"))
	if err != nil || matchRateLimitMax < 0 {
		return nil, fmt.Errorf("invalid MATCH_RATE_LIMIT_MAX: %q", os.Getenv("MATCH_RATE_LIMIT_MAX"))
	}
	rateLimitWindow, err := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	if err != nil || rateLimitWindow < 1 {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW_SECONDS: %q", os.Getenv("RATE_LIMIT_WINDOW_SECONDS"))
	}
	proxyTimeout, err := time.ParseDuration(getEnv("PROXY_TIMEOUT", "30s"))
	if err != nil || proxyTimeout <= 0 {
		return nil, fmt.Errorf("invalid PROXY_TIMEOUT: %q", os.Getenv("PROXY_TIMEOUT"))
	}

	return &Config{
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Port:                     getEnv("SERVER_PORT", "8080"),
		TownServiceURL:           getEnv("TOWN_SERVICE_URL", "http://localhost:8081"),
		UserPreferenceServiceURL: getEnv("USER_PREFERENCE_SERVICE_URL", "http://localhost:8082"),
		MatchingServiceURL:       getEnv("MATCHING_SERVICE_URL", "http://localhost:8083"),
		RateLimitMax:             rateLimitMax,
		MatchRateLimitMax:        matchRateLimitMax,
		RateLimitWindowSeconds:   rateLimitWindow,
		ProxyTimeout:             proxyTimeout,
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
