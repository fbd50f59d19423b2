package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Site       SiteConfig
	Provider   ProviderConfig
	Stripe     StripeConfig
	Navigation NavigationConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NATS       NATSConfig
	Email      EmailConfig
	RateLimit  RateLimitConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
	// TrustProxy takes the client address from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
}

type SiteConfig struct {
	Name     string
	BaseURL  string
	Timezone string
}

type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type StripeConfig struct {
	SecretKey      string
	PublishableKey string
	Environment    string // sandbox or live
}

type NavigationConfig struct {
	Secret string
	TTL    time.Duration
}

type DatabaseConfig struct {
	URL         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
}

type RedisConfig struct {
	URL            string
	GuardTTL       time.Duration
	IdempotencyTTL time.Duration
}

type NATSConfig struct {
	URL string
}

type EmailConfig struct {
	MailerSendKey string
	From          string
	FromName      string
	OpsEmail      string
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			CORSOrigins:  getList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			TrustProxy:   getBool("TRUST_PROXY", false),
		},
		Site: SiteConfig{
			Name:     getEnv("SITE_NAME", "Luxury Stays Utah"),
			BaseURL:  getEnv("SITE_BASE_URL", "http://localhost:5173"),
			Timezone: getEnv("PROPERTY_TIMEZONE", "America/Denver"),
		},
		Provider: ProviderConfig{
			BaseURL: getEnv("PROVIDER_BASE_URL", "http://localhost:8000/api"),
			APIKey:  getEnv("PROVIDER_API_KEY", ""),
			Timeout: getDuration("PROVIDER_TIMEOUT", 30*time.Second),
		},
		Stripe: StripeConfig{
			SecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
			PublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
			Environment:    getEnv("STRIPE_ENV", "sandbox"),
		},
		Navigation: NavigationConfig{
			Secret: getEnv("NAVIGATION_SECRET", "dev-only-secret-change-in-prod"),
			TTL:    getDuration("NAVIGATION_TTL", time.Hour),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    getInt("DB_MAX_CONNS", 5),
			MinConns:    getInt("DB_MIN_CONNS", 0),
			MaxLifetime: getDuration("DB_MAX_LIFETIME", time.Hour),
		},
		Redis: RedisConfig{
			URL:            getEnv("REDIS_URL", ""),
			GuardTTL:       getDuration("SUBMISSION_GUARD_TTL", 15*time.Minute),
			IdempotencyTTL: getDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		},
		NATS: NATSConfig{
			URL: getEnv("NATS_URL", ""),
		},
		Email: EmailConfig{
			MailerSendKey: getEnv("MAILERSEND_API_KEY", ""),
			From:          getEnv("MAIL_FROM", ""),
			FromName:      getEnv("MAIL_FROM_NAME", "Luxury Stays Utah"),
			OpsEmail:      getEnv("OPS_EMAIL", ""),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getInt("RATE_LIMIT_RPM", 30),
			Burst:             getInt("RATE_LIMIT_BURST", 10),
		},
	}
}

// Location resolves the property time zone, falling back to UTC when the
// configured name is unknown to the host's tz database.
func (s SiteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
