package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	BackendURL      string
	BackendTimeout  time.Duration
	SessionTTL      time.Duration
	CatalogTTL      time.Duration
	ShutdownTimeout time.Duration
	RedisAddr       string
	RedisPassword   string
	AllowedOrigins  []string
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		BackendURL:      envOrDefault("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout:  envDuration("BACKEND_TIMEOUT_SECONDS", 15*time.Second),
		SessionTTL:      envDuration("SESSION_TTL_SECONDS", 12*time.Hour),
		CatalogTTL:      envDuration("CATALOG_TTL_SECONDS", 5*time.Minute),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		RedisAddr:       envOrDefault("REDIS_ADDR", ""),
		RedisPassword:   envOrDefault("REDIS_PASSWORD", ""),
		AllowedOrigins:  envList("ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		seconds, err := strconv.Atoi(v)
		if err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return def
}

func envList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
