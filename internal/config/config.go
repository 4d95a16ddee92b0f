package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	HTTPPort        string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	JWTIssuer       string
	JWTSigningKey   string
	TokenTTL        time.Duration
	QueueBackend    string
	RateLimitPerMin int
	FrontendURL     string
	UploadDir       string
	AppName         string
	EmailFrom       string
	SendgridKey     string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	CloudinaryFolder    string
}

// Load returns application config populated from environment variables with
// sensible defaults. A .env file is honored when present.
func Load() App {
	_ = godotenv.Load()

	return App{
		Env:             getEnv("APP_ENV", "dev"),
		HTTPPort:        getEnv("HTTP_PORT", "5000"),
		MongoURI:        getEnv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGODB_DATABASE", "campusconnect"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		JWTIssuer:       getEnv("JWT_ISSUER", "campusconnect"),
		JWTSigningKey:   getEnv("JWT_SECRET", "dev-signing-secret-change"),
		TokenTTL:        durationEnv("JWT_EXPIRE", 30*24*time.Hour),
		QueueBackend:    getEnv("QUEUE_BACKEND", "redis"),
		RateLimitPerMin: intEnv("RATE_LIMIT_PER_MIN", 120),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		UploadDir:       getEnv("UPLOAD_DIR", "uploads"),
		AppName:         getEnv("APP_NAME", "College Digital Portal"),
		EmailFrom:       getEnv("EMAIL_FROM", "noreply@campusconnect.local"),
		SendgridKey:     getEnv("SENDGRID_API_KEY", ""),

		CloudinaryCloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
		CloudinaryAPIKey:    getEnv("CLOUDINARY_API_KEY", ""),
		CloudinaryAPISecret: getEnv("CLOUDINARY_API_SECRET", ""),
		CloudinaryFolder:    getEnv("CLOUDINARY_FOLDER", "campusconnect"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var parsed int
		if _, err := fmt.Sscanf(val, "%d", &parsed); err == nil {
			return parsed
		}
		log.Printf("invalid int for %s, using fallback %d", key, fallback)
	}
	return fallback
}
