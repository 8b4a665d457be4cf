// Package config provides environment configuration for the chatbot server.
package config

import (
	"os"
	"strconv"
	"time"
)

// Session backends.
const (
	SessionBackendNATS   = "nats"
	SessionBackendMemory = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Env string

	// Server settings
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	RequestTimeout     time.Duration

	// NATS settings
	NATSURL      string
	NATSCAFile   string
	NATSCertFile string
	NATSKeyFile  string
	NATSToken    string

	// Session settings
	SessionBackend string
	SessionBucket  string
	SessionTTL     time.Duration

	// Record store
	DuckDBPath string

	// JWT settings for the admin routes
	JWTSecret string

	// LLM settings
	LLMProvider     string
	LLMModel        string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	AnthropicAPIKey string
	PromptsFile     string

	// Rate limiting
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Logging
	LogLevel string

	// Tracing
	TracingEndpoint    string
	TracingEnabled     bool
	TracingSampleRatio float64

	// Background jobs and optional surfaces
	MenuFormatEnabled  bool
	MenuFormatHour     int
	TurnEventsEnabled  bool
	MCPEnabled         bool
	CORSAllowedOrigins string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Env: getEnv("ENV", "production"),

		// Server
		ServerPort:         getEnv("PORT", "8080"),
		ServerReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
		ServerWriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 60*time.Second),
		RequestTimeout:     getDurationEnv("REQUEST_TIMEOUT", 45*time.Second),

		// NATS
		NATSURL:      getEnv("NATS_URL", "nats://localhost:4222"),
		NATSCAFile:   getEnv("NATS_CA_FILE", ""),
		NATSCertFile: getEnv("NATS_CERT_FILE", ""),
		NATSKeyFile:  getEnv("NATS_KEY_FILE", ""),
		NATSToken:    getEnv("NATS_TOKEN", ""),

		// Session
		SessionBackend: getEnv("SESSION_BACKEND", SessionBackendNATS),
		SessionBucket:  getEnv("SESSION_BUCKET", "chat_sessions"),
		SessionTTL:     getDurationEnv("SESSION_TTL", 30*time.Minute),

		// Record store
		DuckDBPath: getEnv("DUCKDB_PATH", "data/chatbot.duckdb"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "development-secret-change-in-production"),

		// LLM
		LLMProvider:     getEnv("LLM_PROVIDER", "openai"),
		LLMModel:        getEnv("LLM_MODEL", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		PromptsFile:     getEnv("PROMPTS_FILE", ""),

		// Rate limiting
		RateLimitRequests: getIntEnv("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Tracing
		TracingEndpoint:    getEnv("TRACING_ENDPOINT", "localhost:4318"),
		TracingEnabled:     getBoolEnv("TRACING_ENABLED", false),
		TracingSampleRatio: getFloatEnv("TRACING_SAMPLE_RATIO", 1),

		// Jobs and surfaces
		MenuFormatEnabled:  getBoolEnv("MENU_FORMAT_ENABLED", true),
		MenuFormatHour:     clampHour(getIntEnv("MENU_FORMAT_HOUR", 3)),
		TurnEventsEnabled:  getBoolEnv("TURN_EVENTS_ENABLED", true),
		MCPEnabled:         getBoolEnv("MCP_ENABLED", false),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// LLMAPIKey returns the API key of the configured provider.
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "anthropic" {
		return c.AnthropicAPIKey
	}
	return c.OpenAIAPIKey
}

func clampHour(h int) int {
	if h < 0 || h > 23 {
		return 3
	}
	return h
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
