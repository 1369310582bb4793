package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port   string
	APIKey string // shared secret for the X-API-Key header

	// Classification/reply oracle (OpenAI-compatible chat completions API)
	OracleBaseURL string
	OracleAPIKey  string // empty enables the built-in stub oracle
	OracleModel   string
	OracleTimeout time.Duration
	OracleRate    float64 // outbound requests per second

	// Engagement pipeline
	ActionThreshold float64 // minimum confidence before a decoy reply is sent
	ContextTurns    int     // prior turns given to the oracle for continuity

	// Session retention (zero disables the sweeper)
	SessionTTL    time.Duration
	SweepInterval time.Duration

	RedisURL     string
	PersonasFile string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8000"),
		APIKey: getEnv("HONEYPOT_API_KEY", "hackathon_secret_key_12345"),

		OracleBaseURL: getEnv("ORACLE_BASE_URL", "https://api.openai.com/v1"),
		OracleAPIKey:  getEnv("ORACLE_API_KEY", ""),
		OracleModel:   getEnv("ORACLE_MODEL", "gpt-4o-mini"),
		OracleTimeout: getDurationEnv("ORACLE_TIMEOUT", 30*time.Second),
		OracleRate:    getFloatEnv("ORACLE_RATE_PER_SECOND", 5.0),

		ActionThreshold: getFloatEnv("ACTION_THRESHOLD", 0.6),
		ContextTurns:    getIntEnv("CONTEXT_TURNS", 3),

		SessionTTL:    getDurationEnv("SESSION_TTL", 0),
		SweepInterval: getDurationEnv("SESSION_SWEEP_INTERVAL", 10*time.Minute),

		RedisURL:     getEnv("REDIS_URL", ""),
		PersonasFile: getEnv("PERSONAS_FILE", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
