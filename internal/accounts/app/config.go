package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./accounts.db)

	JWTSecret string        // Required in prod: HS256 signing secret for access tokens
	Issuer    string        // Optional: issuer claim for tokens (default: accounts)
	TokenTTL  time.Duration // Optional: access token lifetime (default: 1h)

	SMTPHost     string  // Optional: SMTP relay host; mail is disabled when empty
	SMTPPort     int     // Optional: SMTP relay port (default: 587)
	SMTPUsername string  // Optional: SMTP auth username
	SMTPPassword string  // Optional: SMTP auth password
	MailFrom     string  // Optional: sender address for lifecycle mail
	BaseURL      string  // Optional: public base URL embedded in mailed links
	MailPerSec   float64 // Optional: outbound mail pacing (default: 1/s, 0 disables)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseFile: getEnvOrDefault("ACCOUNTS_DATABASE_FILE", "accounts.db"),

		JWTSecret: os.Getenv("ACCOUNTS_JWT_SECRET"),
		Issuer:    getEnvOrDefault("ACCOUNTS_ISSUER", "accounts"),
		TokenTTL:  getEnvDurationOrDefault("ACCOUNTS_TOKEN_TTL", time.Hour),

		SMTPHost:     os.Getenv("ACCOUNTS_SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("ACCOUNTS_SMTP_PORT", 587),
		SMTPUsername: os.Getenv("ACCOUNTS_SMTP_USERNAME"),
		SMTPPassword: os.Getenv("ACCOUNTS_SMTP_PASSWORD"),
		MailFrom:     os.Getenv("ACCOUNTS_MAIL_FROM"),
		BaseURL:      getEnvOrDefault("ACCOUNTS_BASE_URL", "http://localhost:8080"),
		MailPerSec:   getEnvFloatOrDefault("ACCOUNTS_MAIL_PER_SEC", 1),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
		return floatValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
