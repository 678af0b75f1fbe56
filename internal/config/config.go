package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port           string
	RequestTimeout time.Duration
	Gemini         GeminiConfig
	Commerce       CommerceConfig
	Auth           AuthConfig
	RateLimit      RateLimitConfig
	Database       DatabaseConfig
	SMTP           SMTPConfig
	PolicyFile     string
}

// GeminiConfig holds generative backend configuration
type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// CommerceConfig selects and configures the order backend
type CommerceConfig struct {
	Backend string // "shopify" or "odoo"
	Timeout time.Duration
	Shopify ShopifyConfig
	Odoo    OdooConfig
}

// ShopifyConfig holds Shopify Admin API credentials
type ShopifyConfig struct {
	ShopURL     string
	AccessToken string
	APIVersion  string
}

// OdooConfig holds Odoo connection settings
type OdooConfig struct {
	URL      string
	Database string
	Username string
	Password string
	Timezone string // IANA name, order dates are shown in this zone
}

// AuthConfig holds API authentication settings. Empty secret disables auth.
type AuthConfig struct {
	JWTSecret string
}

// RateLimitConfig holds per-client limits. RPS <= 0 disables limiting.
type RateLimitConfig struct {
	RPS   int
	Burst int
}

// DatabaseConfig holds the audit database connection. Empty URL disables auditing.
type DatabaseConfig struct {
	URL string
}

// SMTPConfig holds outbound mail settings. Empty host disables sending.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	UseTLS   bool // implicit TLS (port 465); plaintext only without credentials
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 60*time.Second),
		Gemini: GeminiConfig{
			APIKey:      os.Getenv("GEMINI_API_KEY"),
			Model:       getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
			Timeout:     getDuration("GEMINI_TIMEOUT", 30*time.Second),
			Temperature: float32(getFloat("GEMINI_TEMPERATURE", 0.4)),
		},
		Commerce: CommerceConfig{
			Backend: getEnv("COMMERCE_BACKEND", "shopify"),
			Timeout: getDuration("COMMERCE_TIMEOUT", 10*time.Second),
			Shopify: ShopifyConfig{
				ShopURL:     os.Getenv("SHOPIFY_SHOP_URL"),
				AccessToken: os.Getenv("SHOPIFY_ACCESS_TOKEN"),
				APIVersion:  getEnv("SHOPIFY_API_VERSION", "2024-01"),
			},
			Odoo: OdooConfig{
				URL:      os.Getenv("ODOO_URL"),
				Database: os.Getenv("ODOO_DATABASE"),
				Username: os.Getenv("ODOO_USERNAME"),
				Password: os.Getenv("ODOO_PASSWORD"),
				Timezone: os.Getenv("ODOO_TIMEZONE"),
			},
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RPS:   getInt("RATE_LIMIT_RPS", 0),
			Burst: getInt("RATE_LIMIT_BURST", 5),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getInt("SMTP_PORT", 465),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     os.Getenv("SMTP_FROM"),
			UseTLS:   getEnv("SMTP_TLS", "true") == "true",
		},
		PolicyFile: os.Getenv("POLICY_FILE"),
	}

	if cfg.Commerce.Backend != "shopify" && cfg.Commerce.Backend != "odoo" {
		return nil, fmt.Errorf("COMMERCE_BACKEND must be shopify or odoo, got %q", cfg.Commerce.Backend)
	}

	return cfg, nil
}

// Validate checks settings the HTTP server cannot start without
func (c *Config) Validate() error {
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.SMTP.Host != "" && c.SMTP.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return defaultValue
}

// getDuration accepts Go durations ("45s") or plain seconds ("45")
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
