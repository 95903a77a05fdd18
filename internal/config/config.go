package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
	Username        string
	Password        string
	ClientID        int64
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() Config {
	return Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8090"),
		UpstreamBaseURL: envOrDefault("UPSTREAM_BASE_URL", "http://localhost:8080"),
		UpstreamTimeout: envDuration("UPSTREAM_TIMEOUT_SECONDS", 15*time.Second),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT_SECONDS", 10*time.Second),
		Username:        envOrDefault("POS_USERNAME", ""),
		Password:        envOrDefault("POS_PASSWORD", ""),
		ClientID:        envInt64("POS_CLIENT_ID", 1),
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

func envInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err == nil {
			return n
		}
	}
	return def
}
