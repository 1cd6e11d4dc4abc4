package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted in STORAGE_BACKEND.
const (
	StorageLocal = "local"
	StorageS3    = "s3"
	StorageMinIO = "minio"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	JWTSecret         string
	AccessTokenMaxAge int
	CookieSecure      bool

	LogLevel  string
	LogFormat string

	StorageBackend string
	MediaRoot      string
	MediaURL       string

	// S3-compatible object storage (AWS S3 or Cloudflare R2).
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3PublicURL       string

	MinIOEndpoint        string
	MinIOAccessKeyID     string
	MinIOSecretAccessKey string
	MinIOUseSSL          bool
	MinIOBucket          string
	MinIOPublicURL       string

	RedisURL       string
	VenueCacheTTL  time.Duration
	CleanupWorkers int

	// UniqueCaseInsensitive switches registration uniqueness checks on
	// username/email to case-insensitive comparison. Off by default.
	UniqueCaseInsensitive bool
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	accessTokenMaxAge, err := strconv.Atoi(os.Getenv("ACCESS_TOKEN_MAX_AGE"))
	if err != nil || accessTokenMaxAge <= 0 {
		accessTokenMaxAge = 86400
	}

	cleanupWorkers, err := strconv.Atoi(os.Getenv("CLEANUP_WORKERS"))
	if err != nil || cleanupWorkers <= 0 {
		cleanupWorkers = 1
	}

	venueCacheTTL, err := time.ParseDuration(os.Getenv("VENUE_CACHE_TTL"))
	if err != nil || venueCacheTTL <= 0 {
		venueCacheTTL = time.Minute
	}

	// R2 variables are accepted as a fallback for the S3 settings.
	s3AccessKey := getEnv("S3_ACCESS_KEY_ID", os.Getenv("R2_ACCESS_KEY_ID"))
	s3Secret := getEnv("S3_SECRET_ACCESS_KEY", os.Getenv("R2_SECRET_ACCESS_KEY"))
	s3Bucket := getEnv("S3_BUCKET_NAME", os.Getenv("R2_BUCKET_NAME"))
	s3PublicURL := getEnv("S3_PUBLIC_URL", os.Getenv("R2_PUBLIC_URL"))
	s3Endpoint := os.Getenv("S3_ENDPOINT")
	s3Region := getEnv("S3_REGION", "us-east-1")
	if accountID := os.Getenv("R2_ACCOUNT_ID"); accountID != "" && s3Endpoint == "" {
		s3Endpoint = "https://" + accountID + ".r2.cloudflarestorage.com"
		s3Region = "auto"
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		ServerPort: getEnv("SERVER_PORT", "8080"),

		JWTSecret:         os.Getenv("JWT_SECRET"),
		AccessTokenMaxAge: accessTokenMaxAge,
		CookieSecure:      parseBool(os.Getenv("COOKIE_SECURE")),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StorageBackend: strings.ToLower(getEnv("STORAGE_BACKEND", StorageLocal)),
		MediaRoot:      getEnv("MEDIA_ROOT", "media"),
		MediaURL:       strings.TrimSuffix(getEnv("MEDIA_URL", "/media"), "/"),

		S3Endpoint:        s3Endpoint,
		S3Region:          s3Region,
		S3AccessKeyID:     s3AccessKey,
		S3SecretAccessKey: s3Secret,
		S3BucketName:      s3Bucket,
		S3PublicURL:       s3PublicURL,

		MinIOEndpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKeyID:     os.Getenv("MINIO_ACCESS_KEY_ID"),
		MinIOSecretAccessKey: os.Getenv("MINIO_SECRET_ACCESS_KEY"),
		MinIOUseSSL:          parseBool(os.Getenv("MINIO_USE_SSL")),
		MinIOBucket:          getEnv("MINIO_BUCKET", "lmn-photos"),
		MinIOPublicURL:       os.Getenv("MINIO_PUBLIC_URL"),

		RedisURL:       os.Getenv("REDIS_URL"),
		VenueCacheTTL:  venueCacheTTL,
		CleanupWorkers: cleanupWorkers,

		UniqueCaseInsensitive: parseBool(os.Getenv("REGISTRATION_UNIQUE_CASE_INSENSITIVE")),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
