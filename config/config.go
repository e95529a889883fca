package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is read once at startup and passed by value to whatever needs it.
type Config struct {
	AppEnv string
	Port   string

	DBDriver    string
	DatabaseDSN string

	JWTSecret []byte
	JWTTTL    time.Duration

	StorageDisk      string
	StorageLocalRoot string
	StorageURL       string
	S3Bucket         string
	S3Region         string
	S3Key            string
	S3Secret         string
	S3Endpoint       string
	S3URL            string
	UploadMaxBytes   int64
}

const defaultJWTSecret = "mocardapio_dev_secret_change_me"

// Load reads .env files (when present) and then the process environment.
// Variables already set in the environment win over .env values.
func Load(envFiles ...string) Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// A missing .env is normal outside development.
		_ = godotenv.Load(f)
	}

	return Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "sqlite")),
		DatabaseDSN:      getEnv("DATABASE_DSN", "mocardapio.db"),
		JWTSecret:        []byte(getEnv("JWT_SECRET", defaultJWTSecret)),
		JWTTTL:           getDuration("JWT_TTL", 24*time.Hour),
		StorageDisk:      getEnv("STORAGE_DISK", "local"),
		StorageLocalRoot: getEnv("STORAGE_LOCAL_ROOT", "uploads"),
		StorageURL:       getEnv("STORAGE_URL", "http://localhost:8080/uploads"),
		S3Bucket:         getEnv("S3_BUCKET", ""),
		S3Region:         getEnv("S3_REGION", "us-east-1"),
		S3Key:            getEnv("S3_KEY", ""),
		S3Secret:         getEnv("S3_SECRET", ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", ""),
		S3URL:            getEnv("S3_URL", ""),
		UploadMaxBytes:   getInt64("UPLOAD_MAX_BYTES", 5<<20),
	}
}

// IsProduction reports whether internal error detail must be withheld from clients.
func (c Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

// UsesDefaultSecret reports whether JWT_SECRET was left unset.
func (c Config) UsesDefaultSecret() bool {
	return string(c.JWTSecret) == defaultJWTSecret
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if n, err := strconv.ParseInt(getEnv(key, ""), 10, 64); err == nil && n > 0 {
		return n
	}
	return fallback
}
