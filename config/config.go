package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every process-wide setting. Token lifetimes and the resend
// budget are read from here at operation time, not passed per call.
type Config struct {
	DatabaseDSN string
	Port        string

	// BaseURL is the public origin used to build verification links.
	BaseURL string

	JWTSecret []byte

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	EmailVerifyTokenTTL   time.Duration
	EmailUpdateTokenTTL   time.Duration
	PasswordResetTokenTTL time.Duration

	// MaxSendAttempts caps how many verification emails may be dispatched
	// for a single registration before the budget is exhausted.
	MaxSendAttempts int
}

func LoadConfig() (*Config, error) {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	smtpPort, err := intEnv("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	maxAttempts, err := intEnv("MAX_SEND_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}

	verifyTTL, err := secondsEnv("EMAIL_VERIFY_TOKEN_LIFETIME", 48*time.Hour)
	if err != nil {
		return nil, err
	}
	updateTTL, err := secondsEnv("EMAIL_UPDATE_TOKEN_LIFETIME", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	resetTTL, err := secondsEnv("PASSWORD_RESET_TOKEN_LIFETIME", time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabaseDSN:           getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=inkwell port=5432 sslmode=disable TimeZone=UTC"),
		Port:                  getenv("PORT", "8080"),
		BaseURL:               getenv("BASE_URL", "http://localhost:8080"),
		JWTSecret:             []byte(os.Getenv("JWT_SECRET")),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              smtpPort,
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		EmailFrom:             getenv("EMAIL_FROM", "no-reply@inkwell.local"),
		EmailVerifyTokenTTL:   verifyTTL,
		EmailUpdateTokenTTL:   updateTTL,
		PasswordResetTokenTTL: resetTTL,
		MaxSendAttempts:       maxAttempts,
	}, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

// secondsEnv reads a lifetime expressed in whole seconds.
func secondsEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return time.Duration(n) * time.Second, nil
}
