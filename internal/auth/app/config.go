package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./sac.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)

	// TokenTTL is the lifespan of issued session tokens. nil means tokens
	// never expire, which is the default.
	TokenTTL *time.Duration

	BootstrapRUT      string // Optional: RUT of the first administrator, seeded on an empty database
	BootstrapPassword string // Optional: password of the first administrator

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired token sweep interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseFile:         getEnvOrDefault("SAC_DATABASE_FILE", "sac.db"),
		PepperFile:           getEnvOrDefault("SAC_PEPPER_FILE", "pepper"),
		BootstrapRUT:         os.Getenv("SAC_BOOTSTRAP_RUT"),
		BootstrapPassword:    os.Getenv("SAC_BOOTSTRAP_PASSWORD"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	// SAC_TOKEN_TTL_MINUTES distinguishes unset from zero: unset leaves
	// tokens immortal, an explicit value (including 0) sets a deadline.
	if raw := os.Getenv("SAC_TOKEN_TTL_MINUTES"); raw != "" {
		if minutes, err := strconv.Atoi(raw); err == nil {
			ttl := time.Duration(minutes) * time.Minute
			cfg.TokenTTL = &ttl
		}
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
