package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string

	MongoURI     string
	MongoDB      string
	RedisAddress string
	NATSURL      string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	// Geocoding can be switched off entirely; listings then rely on the
	// latitude/longitude typed into the form.
	GeocodingEnabled bool
	GeocoderBaseURL  string
	GeocoderAPIKey   string

	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPEmail    string
	SMTPPassword string
}

func Load() (*Config, error) {
	// .env is optional; environment variables are the primary source.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading .env, relying on environment variables")
	}

	cfg := &Config{
		HTTPPort:         getEnv("HTTP_PORT", "8080"),
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "openhaus"),
		RedisAddress:     getEnv("REDIS_ADDRESS", "localhost:6379"),
		NATSURL:          getEnv("NATS_URL", "nats://localhost:4222"),
		MinIOEndpoint:    getEnv("MINIO_ENDPOINT", "localhost:9000"),
		MinIOAccessKey:   getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		MinIOSecretKey:   getEnv("MINIO_SECRET_KEY", "minioadmin"),
		MinIOBucket:      getEnv("MINIO_BUCKET", "listing-images"),
		MinIOUseSSL:      getEnvBool("MINIO_USE_SSL", false),
		GeocodingEnabled: getEnvBool("GEOCODING_ENABLED", true),
		GeocoderBaseURL:  getEnv("GEOCODER_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GeocoderAPIKey:   getEnv("GEOCODER_API_KEY", ""),
		JWTSecret:        getEnv("JWT_SECRET", "your-secret-key"),
		SMTPHost:         getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:         getEnvInt("SMTP_PORT", 587),
		SMTPEmail:        getEnv("SMTP_EMAIL", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
	}

	if cfg.JWTSecret == "your-secret-key" {
		log.Println("Warning: JWT_SECRET is set to its default insecure value. Please set a strong secret in your environment or .env file.")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("FATAL: JWT_SECRET is not set. This is required for security.")
	}
	if cfg.GeocodingEnabled && cfg.GeocoderAPIKey == "" {
		log.Println("Warning: GEOCODING_ENABLED is true but GEOCODER_API_KEY is empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Environment variable %s not set, using fallback: %s", key, fallback)
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', defaulting to %v. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', defaulting to %d. Error: %v", key, raw, fallback, err)
		return fallback
	}
	return value
}
