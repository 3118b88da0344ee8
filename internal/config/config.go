// internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string

	// SMTP
	SMTPUser     string
	SMTPPass     string
	SMTPFrom     string
	SMTPHost     string
	SMTPPort     int
	SMTPFromName string

	// DB
	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	// Clerk
	ClerkAPIURL        string
	ClerkSecretKey     string
	ClerkWebhookSecret string

	// AWS S3 (media storage)
	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSBucketName      string

	// OpenRouter (prompt generation)
	OpenRouterAPIKey string
	OpenRouterURL    string

	// Auth
	ServiceExpectedToken string

	// CORS
	AllowedOrigins string

	// Reminders / reconciliation
	ReminderTimezone string // reference zone applied to every user's reminder_time
	ReconcileHour    int    // local hour of the daily reconciliation run
}

func Load() *Config {
	if os.Getenv("ENV") != "production" {
		_ = godotenv.Load() // optional .env for local
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8085"
	}

	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		log.Fatalf("❌ Invalid SMTP_PORT: %v", err)
	}

	reconcileHour, err := strconv.Atoi(getEnv("RECONCILE_HOUR", "3"))
	if err != nil || reconcileHour < 0 || reconcileHour > 23 {
		log.Fatalf("❌ Invalid RECONCILE_HOUR: %v", os.Getenv("RECONCILE_HOUR"))
	}

	return &Config{
		ServerPort:   port,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPass:     os.Getenv("SMTP_PASS"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),
		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     smtpPort,
		SMTPFromName: "MyCorner",

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBPass:    getEnv("DB_PASS", "postgres"),
		DBName:    getEnv("DB_NAME", "mycorner_db"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		ClerkAPIURL:        getEnv("CLERK_API_URL", "https://api.clerk.com/v1"),
		ClerkSecretKey:     os.Getenv("CLERK_SECRET_KEY"),
		ClerkWebhookSecret: os.Getenv("CLERK_WEBHOOK_SECRET"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSBucketName:      os.Getenv("AWS_BUCKET_NAME"),

		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterURL:    getEnv("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions"),

		ServiceExpectedToken: getEnv("SERVICE_TOKEN", "your-secret-service-token"),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"),

		ReminderTimezone: getEnv("REMINDER_TIMEZONE", "America/New_York"),
		ReconcileHour:    reconcileHour,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
