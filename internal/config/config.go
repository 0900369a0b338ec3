package config

import (
	"os"
	"strconv"
	"time"

	"github.com/taravadumane/portal-backend/pkg/storage"
)

type RateLimitConfig struct {
	AccessRequestMax    int
	AccessRequestWindow time.Duration
}

type Config struct {
	AppBaseURL    string
	CloudinaryURL string
	R2            storage.R2Config
	RateLimit     RateLimitConfig

	// Gallery uploads above this size are rejected before any upstream call.
	MaxUploadBytes int64
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.AppBaseURL = getEnv("APP_BASE_URL", "http://localhost:3000")
	cfg.CloudinaryURL = os.Getenv("CLOUDINARY_URL")

	cfg.R2.AccountID = os.Getenv("R2_ACCOUNT_ID")
	cfg.R2.AccessKeyID = os.Getenv("R2_ACCESS_KEY_ID")
	cfg.R2.SecretAccessKey = os.Getenv("R2_SECRET_ACCESS_KEY")
	cfg.R2.Bucket = os.Getenv("R2_BUCKET")
	cfg.R2.PublicURL = os.Getenv("R2_PUBLIC_URL")

	cfg.RateLimit.AccessRequestMax = getEnvInt("ACCESS_REQUEST_RATE_MAX", 5)
	cfg.RateLimit.AccessRequestWindow = time.Duration(getEnvInt("ACCESS_REQUEST_RATE_WINDOW_MINUTES", 60)) * time.Minute

	cfg.MaxUploadBytes = int64(getEnvInt("MAX_UPLOAD_MB", 15)) * 1024 * 1024

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
