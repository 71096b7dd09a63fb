package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr string // HTTP listen address (default: :8080)
	DataDir    string // Directory for the database, pepper, and signing key (default: ./data)

	SessionIdleTTL time.Duration // Idle timeout before a session dies (default: 30m)
	SessionMaxTTL  time.Duration // Absolute session lifetime cap (default: 12h)
	SessionSliding bool          // Extend the idle deadline on activity (default: true)
	SingleSession  bool          // At most one live session per account and origin (default: false)

	CertTTL       time.Duration // Remote-auth certificate lifetime (default: 180s)
	CertIssuer    string        // Issuer claim on remote-auth certificates
	FaultOverride string        // Optional "kind=Code,..." fault code overrides

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Dead-session sweep interval (default: 15m)
}

func LoadConfig() Config {
	return Config{
		ListenAddr: getEnvOrDefault("KIROV_LISTEN_ADDR", ":8080"),
		DataDir:    getEnvOrDefault("KIROV_DATA_DIR", "data"),

		SessionIdleTTL: getEnvDurationOrDefault("KIROV_SESSION_IDLE_TTL", 30*time.Minute),
		SessionMaxTTL:  getEnvDurationOrDefault("KIROV_SESSION_MAX_TTL", 12*time.Hour),
		SessionSliding: getEnvBoolOrDefault("KIROV_SESSION_SLIDING", true),
		SingleSession:  getEnvBoolOrDefault("KIROV_SINGLE_SESSION", false),

		CertTTL:       getEnvDurationOrDefault("KIROV_CERT_TTL", 180*time.Second),
		CertIssuer:    getEnvOrDefault("KIROV_CERT_ISSUER", "kirov-auth"),
		FaultOverride: os.Getenv("KIROV_SOAP_FAULTS"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 15*time.Minute),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
