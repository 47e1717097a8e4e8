package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Push       PushConfig
	Cloudinary CloudinaryConfig
	Email      EmailConfig
	Cron       CronConfig
	Retention  RetentionConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	Addr     string
	Password string
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// PushConfig points at an Expo-compatible push endpoint. BatchSize is the
// provider's per-request message cap.
type PushConfig struct {
	Endpoint  string
	Channel   string
	BatchSize int
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type EmailConfig struct {
	SendgridKey string
	FromName    string
	FromAddress string
}

// CronConfig carries the shared key the external scheduler must present.
type CronConfig struct {
	Key string
}

type RetentionConfig struct {
	NotificationDays int
}

var AppConfig *Config

func Load() {
	AppConfig = &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DB_URL", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:      getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
			ExpiryHours: getEnvAsInt("JWT_EXPIRY_HOURS", 24),
		},
		Push: PushConfig{
			Endpoint:  getEnv("PUSH_ENDPOINT", "https://exp.host/--/api/v2/push/send"),
			Channel:   getEnv("PUSH_CHANNEL", "campus_announcements"),
			BatchSize: getEnvAsInt("PUSH_BATCH_SIZE", 100),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "campus-connect"),
		},
		Email: EmailConfig{
			SendgridKey: getEnv("SENDGRID_API_KEY", ""),
			FromName:    getEnv("EMAIL_FROM_NAME", "Campus Connect"),
			FromAddress: getEnv("EMAIL_FROM_ADDRESS", "no-reply@campusconnect.app"),
		},
		Cron: CronConfig{
			Key: getEnv("CRON_KEY", ""),
		},
		Retention: RetentionConfig{
			NotificationDays: getEnvAsInt("NOTIFICATION_RETENTION_DAYS", 30),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
