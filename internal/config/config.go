package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a documented default; only DATABASE_URL is required.
// Both binaries load the same struct and use the sections they need.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Broker (RabbitMQ)
	BrokerHost           string
	BrokerPort           int
	BrokerUser           string
	BrokerPassword       string
	BrokerHeartbeat      time.Duration
	BrokerDialTimeout    time.Duration
	BrokerReconnectDelay time.Duration

	// Fashion agent (LLM)
	GeminiAPIKey     string
	GeminiModel      string
	ChatHistoryLimit int
	// Maximum LLM calls per second per user.
	ChatRateLimit int
}

func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: dbURL,
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 25)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 5)),

		BrokerHost:           getEnv("RABBITMQ_HOST", "localhost"),
		BrokerPort:           getInt("RABBITMQ_PORT", 5672),
		BrokerUser:           getEnv("RABBITMQ_USER", "guest"),
		BrokerPassword:       getEnv("RABBITMQ_PASSWORD", "guest"),
		BrokerHeartbeat:      getDuration("RABBITMQ_HEARTBEAT", 600*time.Second),
		BrokerDialTimeout:    getDuration("RABBITMQ_DIAL_TIMEOUT", 300*time.Second),
		BrokerReconnectDelay: getDuration("RABBITMQ_RECONNECT_DELAY", 5*time.Second),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		ChatHistoryLimit: getInt("CHAT_HISTORY_LIMIT", 10),
		ChatRateLimit:    getInt("CHAT_RATE_LIMIT", 2),
	}, nil
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
