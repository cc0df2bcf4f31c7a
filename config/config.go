package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MailConfig holds configuration for the outgoing mailer.
type MailConfig struct {
	Provider           string // "ses" or "noop"
	FromAddress        string
	FromName           string
	SESRegion          string
	SESAccessKeyID     string
	SESSecretAccessKey string
}

// Config holds all configuration for the application
type Config struct {
	Environment    string
	Port           string
	DBUrl          string
	JWTSecret      string
	AllowedOrigins []string
	RequestTimeout time.Duration
	Mail           MailConfig
}

// Load loads configuration from environment variables, reading a .env file
// first outside production. The database connection target is mandatory:
// a missing DATABASE_URL is a fatal configuration error reported by name,
// before any connection attempt is made.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// In production we rely on real environment variables only.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:    env,
		Port:           os.Getenv("PORT"),
		DBUrl:          os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		RequestTimeout: 10 * time.Second,
		Mail: MailConfig{
			Provider:           os.Getenv("MAIL_PROVIDER"),
			FromAddress:        os.Getenv("MAIL_FROM_ADDRESS"),
			FromName:           os.Getenv("MAIL_FROM_NAME"),
			SESRegion:          os.Getenv("SES_REGION"),
			SESAccessKeyID:     os.Getenv("SES_ACCESS_KEY_ID"),
			SESSecretAccessKey: os.Getenv("SES_SECRET_ACCESS_KEY"),
		},
	}

	if cfg.DBUrl == "" {
		return nil, fmt.Errorf("required environment variable DATABASE_URL is not set")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Mail.Provider == "" {
		cfg.Mail.Provider = "noop"
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitAndTrim(origins)
	}

	return cfg, nil
}

func splitAndTrim(csv string) []string {
	var out []string
	for _, part := range strings.Split(csv, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
