package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway.
type Config struct {
	Environment string
	Port        string

	// Upstream EventHub REST API.
	APIBaseURL string

	// Card payment processor.
	ProcessorBaseURL   string
	ProcessorSecretKey string

	// Session tokens are issued by the platform; the gateway verifies them locally.
	SessionJWTSecret string

	AllowedOrigins []string

	// Timeout applied to outbound calls to the upstream API and the processor.
	UpstreamTimeout time.Duration
}

// Load loads configuration from environment variables.
// It attempts to load from .env file if not in production.
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production. We don't return an error here
	// because in production .env might not exist and we rely on system
	// environment variables.
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg := &Config{
		Environment:        env,
		Port:               os.Getenv("PORT"),
		APIBaseURL:         os.Getenv("EVENTHUB_API_URL"),
		ProcessorBaseURL:   os.Getenv("PAYMENT_PROCESSOR_URL"),
		ProcessorSecretKey: os.Getenv("PAYMENT_PROCESSOR_SECRET_KEY"),
		SessionJWTSecret:   os.Getenv("SESSION_JWT_SECRET"),
		UpstreamTimeout:    15 * time.Second,
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:3000/api"
	}
	if cfg.ProcessorBaseURL == "" {
		cfg.ProcessorBaseURL = "https://api.processor.example.com"
	}
	if cfg.SessionJWTSecret == "" {
		if env == "production" {
			return nil, fmt.Errorf("SESSION_JWT_SECRET is required in production")
		}
		cfg.SessionJWTSecret = "dev-secret-do-not-use-in-production"
	}

	if s := os.Getenv("UPSTREAM_TIMEOUT_SECONDS"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			cfg.UpstreamTimeout = time.Duration(v) * time.Second
		}
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{"http://localhost:5173"}
	}

	return cfg, nil
}
