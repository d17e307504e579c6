package config

import (
	"os"
	"strconv"
)

// DatabaseConfig holds PostgreSQL database connection settings.
// An empty Host means the service runs without a database and keeps
// consent state in memory (the MVP deployment mode).
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// StorageConfig selects the blob storage driver for consent PDFs.
// "filesystem" stores files under UploadConfig.Root; "minio" stores
// objects in an S3-compatible bucket.
type StorageConfig struct {
	Driver string
}

// UploadConfig holds the filesystem upload root used by the filesystem
// storage driver. Keys under the root follow <documentID>/original/<name>
// and <documentID>/signed/signed.pdf.
type UploadConfig struct {
	Root string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// IntellisignConfig holds endpoint and credential settings for the
// Intellisign e-signature API. Empty ClientID/ClientSecret means the
// integration is not configured; send requests are rejected until both are set.
type IntellisignConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Scope        string
	TimeoutSec   int
}

// SignerConfig holds defaults applied to envelope recipients.
type SignerConfig struct {
	DefaultName  string
	DefaultEmail string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	MaxUploadBytes int
	Database       DatabaseConfig
	Storage        StorageConfig
	Upload         UploadConfig
	MinIO          MinIOConfig
	Intellisign    IntellisignConfig
	Signer         SignerConfig
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:        getEnv("APP_HOST", "localhost:8080"),
		Port:           getEnv("PORT", "8080"), // default only for non-sensitive value
		MaxUploadBytes: getEnvInt("MAX_UPLOAD_BYTES", 25<<20),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		Storage: StorageConfig{
			Driver: getEnv("STORAGE_DRIVER", "filesystem"),
		},
		Upload: UploadConfig{
			Root: getEnv("UPLOAD_ROOT", "/app/uploads"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Intellisign: IntellisignConfig{
			BaseURL:      getEnv("INTELLISIGN_BASE_URL", "https://api.intellisign.com"),
			ClientID:     getEnv("INTELLISIGN_CLIENT_ID", ""),
			ClientSecret: getEnv("INTELLISIGN_CLIENT_SECRET", ""),
			Scope:        getEnv("INTELLISIGN_SCOPE", "*"),
			TimeoutSec:   getEnvInt("INTELLISIGN_TIMEOUT_SEC", 30),
		},
		Signer: SignerConfig{
			DefaultName:  getEnv("SIGNER_NAME_DEFAULT", "User"),
			DefaultEmail: getEnv("SIGNER_EMAIL_DEFAULT", "test@example.com"),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
