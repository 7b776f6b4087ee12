package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string
	MongoURI    string
	DBName      string

	JWTSecret       string
	JWTExpire       time.Duration
	JWTCookieExpire time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string

	GeocoderURL    string
	GeocoderAPIKey string

	FileUploadPath string
	MaxFileUpload  int64 // bytes
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "hobbyhub"),

		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		JWTExpire:       getEnvDuration("JWT_EXPIRE", 72*time.Hour),
		JWTCookieExpire: getEnvDuration("JWT_COOKIE_EXPIRE", 72*time.Hour),

		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPPort:     int(getEnvInt64("SMTP_PORT", 587)),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		FromEmail:    getEnv("FROM_EMAIL", "noreply@hobbyhub.io"),
		FromName:     getEnv("FROM_NAME", "HobbyHub"),

		GeocoderURL:    getEnv("GEOCODER_URL", "https://www.mapquestapi.com/geocoding/v1/address"),
		GeocoderAPIKey: getEnv("GEOCODER_API_KEY", ""),

		FileUploadPath: getEnv("FILE_UPLOAD_PATH", "./public/uploads"),
		MaxFileUpload:  getEnvInt64("MAX_FILE_UPLOAD", 1<<20),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default", key)
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid value for %s, using default", key)
	}
	return fallback
}
