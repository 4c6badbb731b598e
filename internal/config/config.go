package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	// CredentialKey is the hex-encoded 256-bit AES key used to encrypt
	// stored account passwords.
	CredentialKey string

	DB         DatabaseConfig
	Redis      RedisConfig
	Storefront StorefrontConfig
	Reports    ReportsConfig
	Worker     WorkerConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// StorefrontConfig contains the customer-facing catalog webhook parameters.
// When CallbackURL is empty, published stock is not announced.
type StorefrontConfig struct {
	CallbackURL    string
	CallbackSecret string
}

// ReportsConfig contains S3-compatible storage parameters for daily report
// uploads. When AccessKeyID is empty, uploads are skipped.
type ReportsConfig struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	ExpiryInterval   time.Duration
	SweepInterval    time.Duration
	CallbackInterval time.Duration
	DraftTTL         time.Duration
	ConfirmTTL       time.Duration
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CredentialKey = getEnv("CREDENTIAL_KEY", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// Storefront webhook
	cfg.Storefront = StorefrontConfig{
		CallbackURL:    getEnv("STOREFRONT_CALLBACK_URL", ""),
		CallbackSecret: getEnv("STOREFRONT_CALLBACK_SECRET", ""),
	}

	// Report storage
	cfg.Reports = ReportsConfig{
		Region:          getEnv("REPORTS_S3_REGION", "us-east-1"),
		Bucket:          getEnv("REPORTS_S3_BUCKET", ""),
		AccessKeyID:     getEnv("REPORTS_S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("REPORTS_S3_SECRET_ACCESS_KEY", ""),
	}

	// Workers (durations)
	var err error
	if cfg.Worker.ExpiryInterval, err = parseDurationEnv("EXPIRY_REFRESH_INTERVAL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid EXPIRY_REFRESH_INTERVAL: %w", err)
	}
	if cfg.Worker.SweepInterval, err = parseDurationEnv("SWEEP_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	if cfg.Worker.CallbackInterval, err = parseDurationEnv("CALLBACK_RETRY_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid CALLBACK_RETRY_INTERVAL: %w", err)
	}
	if cfg.Worker.DraftTTL, err = parseDurationEnv("DRAFT_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid DRAFT_TTL: %w", err)
	}
	if cfg.Worker.ConfirmTTL, err = parseDurationEnv("CONFIRM_TTL", "5m"); err != nil {
		return nil, fmt.Errorf("invalid CONFIRM_TTL: %w", err)
	}

	// Basic validation for DB parameters.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	// Validate JWT_SECRET
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	// Validate CREDENTIAL_KEY
	if cfg.CredentialKey == "" {
		return nil, errors.New("CREDENTIAL_KEY must be set to encrypt stored credentials")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
