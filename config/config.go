package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	CloudName    string // Media storage cloud name
	CloudApiKey  string // Media storage API key
	CloudSecret  string // Media storage API secret
	UploadFolder string // Folder prefix for uploaded assets

	ClerkWebhookSecret string // Signing secret for identity-provider webhooks

	SendGridApiKey string
	EmailSender    string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		CloudName:    getEnv("CLOUD_NAME", ""),
		CloudApiKey:  getEnv("CLOUD_API_KEY", ""),
		CloudSecret:  getEnv("CLOUD_API_SECRET", ""),
		UploadFolder: getEnv("CLOUD_UPLOAD_FOLDER", "lms"),

		ClerkWebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),

		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "no-reply@lms.local"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.ClerkWebhookSecret == "" {
		log.Println("Warning: CLERK_WEBHOOK_SECRET is empty. Webhook ingestion will reject all deliveries.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
