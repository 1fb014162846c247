// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the API service.
type Config struct {
	Port                string
	DatabaseURL         string
	RedisURL            string
	TheirstackAPIKey    string
	TheirstackBaseURL   string // override for tests; empty means production
	JWTSecret           string
	ResponseCachePath   string // append-only raw-response retention; empty disables
	IngestIntervalHours int    // how often the saved-search cron fires
	AllowedOrigins      []string
}

// Load reads environment variables and returns a validated Config.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	// Missing .env is fine — real deployments set the environment directly.
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	interval := 6
	if s := os.Getenv("INGEST_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("INGEST_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	origins := []string{"http://localhost:3000", "http://localhost:9002"}
	if s := os.Getenv("ALLOWED_ORIGINS"); s != "" {
		origins = origins[:0]
		for _, o := range strings.Split(s, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return &Config{
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            redisURL,
		TheirstackAPIKey:    os.Getenv("THEIRSTACK_API_KEY"),
		TheirstackBaseURL:   os.Getenv("THEIRSTACK_BASE_URL"),
		JWTSecret:           secret,
		ResponseCachePath:   os.Getenv("RESPONSE_CACHE_PATH"),
		IngestIntervalHours: interval,
		AllowedOrigins:      origins,
	}, nil
}
