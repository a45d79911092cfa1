package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.JWTIssuer != "accounts-api" {
		t.Errorf("expected default issuer accounts-api, got %s", cfg.JWTIssuer)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected default TTL 24h, got %v", cfg.TokenTTL)
	}
	if cfg.FileStorage != StorageDisk {
		t.Errorf("expected disk storage by default, got %s", cfg.FileStorage)
	}
	if cfg.MaxAvatarBytes != 2097152 {
		t.Errorf("expected default max avatar size 2097152, got %d", cfg.MaxAvatarBytes)
	}
	if cfg.RateLimitUpload.Requests != 10 || cfg.RateLimitUpload.Interval != time.Minute {
		t.Errorf("expected default upload limit 10/min, got %+v", cfg.RateLimitUpload)
	}
	if cfg.PhoneRegion != "US" {
		t.Errorf("expected default phone region US, got %s", cfg.PhoneRegion)
	}
	if cfg.DatabaseMaxConns != 0 {
		t.Errorf("expected pool size unset by default, got %d", cfg.DatabaseMaxConns)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "90m")
	t.Setenv("FILE_STORAGE", "S3")
	t.Setenv("S3_BUCKET", "avatars-bucket")
	t.Setenv("MAX_AVATAR_SIZE", "1024")
	t.Setenv("RATE_LIMIT_UPLOAD", "5/hour")
	t.Setenv("DATABASE_MAX_CONNS", "25")
	t.Setenv("MIGRATE_ON_START", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Errorf("expected TTL 90m, got %v", cfg.TokenTTL)
	}
	if cfg.FileStorage != StorageS3 {
		t.Errorf("expected s3 storage, got %s", cfg.FileStorage)
	}
	if cfg.S3.Bucket != "avatars-bucket" {
		t.Errorf("expected bucket avatars-bucket, got %s", cfg.S3.Bucket)
	}
	if cfg.MaxAvatarBytes != 1024 {
		t.Errorf("expected max avatar size 1024, got %d", cfg.MaxAvatarBytes)
	}
	if cfg.RateLimitUpload.Requests != 5 || cfg.RateLimitUpload.Interval != time.Hour {
		t.Errorf("expected upload limit 5/hour, got %+v", cfg.RateLimitUpload)
	}
	if cfg.DatabaseMaxConns != 25 {
		t.Errorf("expected pool size 25, got %d", cfg.DatabaseMaxConns)
	}
	if !cfg.MigrateOnStart {
		t.Errorf("expected migrations enabled")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown storage backend", "FILE_STORAGE", "ftp"},
		{"negative avatar size", "MAX_AVATAR_SIZE", "-1"},
		{"non-numeric avatar size", "MAX_AVATAR_SIZE", "big"},
		{"rate limit missing interval", "RATE_LIMIT_UPLOAD", "10"},
		{"rate limit bad unit", "RATE_LIMIT_UPLOAD", "10/fortnight"},
		{"rate limit zero requests", "RATE_LIMIT_UPLOAD", "0/min"},
		{"negative pool size", "DATABASE_MAX_CONNS", "-3"},
		{"malformed token ttl", "JWT_TTL", "soon"},
		{"negative token ttl", "JWT_TTL", "-5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected an error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestParseRateLimit(t *testing.T) {
	tests := []struct {
		input    string
		requests int
		interval time.Duration
	}{
		{"1/s", 1, time.Second},
		{"30/sec", 30, time.Second},
		{"10/min", 10, time.Minute},
		{"100/hour", 100, time.Hour},
		{" 7 / minutes ", 7, time.Minute},
	}

	for _, tt := range tests {
		got, err := parseRateLimit(tt.input)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tt.input, err)
			continue
		}
		if got.Requests != tt.requests || got.Interval != tt.interval {
			t.Errorf("%q: got %+v", tt.input, got)
		}
	}
}
