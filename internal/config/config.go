package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Asaas     AsaasConfig
	Mercado   MercadoPagoConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	// URL is optional; when empty the rate limiter falls back to the
	// in-process store.
	URL string
}

type AsaasConfig struct {
	BaseURL string
	// APIKey may be empty at startup; payment endpoints fail with a
	// configuration error when it is missing.
	APIKey string
	// WebhookToken is the shared static token expected in the
	// asaas-access-token header. Empty means unsigned webhooks are
	// accepted (with a warning logged).
	WebhookToken string
}

type MercadoPagoConfig struct {
	// WebhookSecret signs the x-signature header. Empty means unsigned
	// webhooks are accepted (with a warning logged).
	WebhookSecret string
}

type RateLimitConfig struct {
	MaxRequests int
	Window      time.Duration
}

func Load() (*Config, error) {
	var missing []string

	get := func(key string) string {
		val := os.Getenv(key)
		if val == "" {
			missing = append(missing, key)
		}
		return val
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
			LogLevel:       getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL: get("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		Asaas: AsaasConfig{
			BaseURL:      getEnv("ASAAS_BASE_URL", "https://api.asaas.com/v3"),
			APIKey:       os.Getenv("ASAAS_API_KEY"),
			WebhookToken: os.Getenv("ASAAS_WEBHOOK_TOKEN"),
		},
		Mercado: MercadoPagoConfig{
			WebhookSecret: os.Getenv("MERCADOPAGO_WEBHOOK_SECRET"),
		},
		RateLimit: RateLimitConfig{
			MaxRequests: getEnvInt("RATE_LIMIT_MAX_REQUESTS", 10),
			Window:      time.Duration(getEnvInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return n
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
