package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends selectable via FILE_STORAGE.
const (
	StorageDisk = "disk"
	StorageS3   = "s3"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// S3Config carries the settings for the S3-compatible file store.
type S3Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	KeyPrefix    string
}

// Config aggregates application-wide configuration values.
type Config struct {
	DatabaseURL      string
	DatabaseMaxConns int32
	MigrateOnStart   bool
	JWTSecret        string
	JWTIssuer        string
	TokenTTL         time.Duration
	Port             string
	FileStorage      string
	StorageDir       string
	S3               S3Config
	MaxAvatarBytes   int64
	RateLimitUpload  RateLimitConfig
	PhoneRegion      string
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrateOnStart: getEnv("MIGRATE_ON_START", "false") == "true",
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret"),
		JWTIssuer:      getEnv("JWT_ISSUER", "accounts-api"),
		Port:           getEnv("PORT", "8080"),
		FileStorage:    strings.ToLower(getEnv("FILE_STORAGE", StorageDisk)),
		StorageDir:     getEnv("STORAGE_DIR", "./uploads"),
		PhoneRegion:    getEnv("PHONE_REGION", "US"),
		S3: S3Config{
			Region:       getEnv("S3_REGION", "us-east-1"),
			Bucket:       os.Getenv("S3_BUCKET"),
			AccessKey:    os.Getenv("S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("S3_SECRET_KEY"),
			BaseEndpoint: os.Getenv("S3_ENDPOINT"),
			KeyPrefix:    getEnv("S3_KEY_PREFIX", "avatars"),
		},
	}

	if cfg.FileStorage != StorageDisk && cfg.FileStorage != StorageS3 {
		return nil, fmt.Errorf("invalid FILE_STORAGE value: %q", cfg.FileStorage)
	}

	ttl, err := parseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL value: %w", err)
	}
	cfg.TokenTTL = ttl

	maxAvatar, err := parseBytes(getEnv("MAX_AVATAR_SIZE", "2097152"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_AVATAR_SIZE value: %w", err)
	}
	cfg.MaxAvatarBytes = maxAvatar

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_UPLOAD", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_UPLOAD value: %w", err)
	}
	cfg.RateLimitUpload = rl

	maxConns, err := strconv.Atoi(getEnv("DATABASE_MAX_CONNS", "0"))
	if err != nil || maxConns < 0 {
		return nil, fmt.Errorf("invalid DATABASE_MAX_CONNS value: %q", getEnv("DATABASE_MAX_CONNS", "0"))
	}
	cfg.DatabaseMaxConns = int32(maxConns)

	return cfg, nil
}

func parseBytes(value string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("expected a positive byte count, got %q", value)
	}
	return n, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string) (time.Duration, error) {
	d, err := time.ParseDuration(input)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("expected a positive duration, got %q", input)
	}
	return d, nil
}
