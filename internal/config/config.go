// Package config provides configuration for the surrogate service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int
	WSPort   int

	// Database
	SQLitePath string

	// LLM settings
	Mode              string // MOCK selects the offline client
	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiModel       string
	ModelTemperature  float64
	MaxResponseTokens int
	LLMTimeout        time.Duration

	// Optional shared key checked during the WS hello handshake.
	APIKey string

	// WebSocket settings
	PingInterval   time.Duration
	WriteTimeout   time.Duration
	ReadTimeout    time.Duration
	MaxMessageSize int64

	// Jobs
	ConsolidationSchedule string
	ToolLogRetentionDays  int

	// Logging
	LogLevel string
}

// Load loads configuration from the environment. A .env file in the working
// directory is applied first, best effort.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:              getEnvInt("SURROGATE_HTTP_PORT", 8080),
		WSPort:                getEnvInt("SURROGATE_WS_PORT", 8090),
		SQLitePath:            getEnv("SURROGATE_SQLITE_PATH", "surrogate.db"),
		Mode:                  getEnv("SURROGATE_MODE", "MOCK"),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL:         getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		ModelTemperature:      getEnvFloat("MODEL_TEMPERATURE", 0.7),
		MaxResponseTokens:     getEnvInt("MAX_RESPONSE_TOKENS", 1000),
		LLMTimeout:            time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		APIKey:                getEnv("SURROGATE_API_KEY", ""),
		PingInterval:          time.Duration(getEnvInt("WS_PING_INTERVAL_MS", 30000)) * time.Millisecond,
		WriteTimeout:          time.Duration(getEnvInt("WS_WRITE_TIMEOUT_MS", 10000)) * time.Millisecond,
		ReadTimeout:           time.Duration(getEnvInt("WS_READ_TIMEOUT_MS", 60000)) * time.Millisecond,
		MaxMessageSize:        int64(getEnvInt("WS_MAX_MESSAGE_SIZE", 65536)),
		ConsolidationSchedule: getEnv("CONSOLIDATION_SCHEDULE", "0 3 * * *"),
		ToolLogRetentionDays:  getEnvInt("TOOL_LOG_RETENTION_DAYS", 14),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if floatVal, err := strconv.ParseFloat(val, 64); err == nil {
			return floatVal
		}
	}
	return defaultVal
}
