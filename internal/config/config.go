package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port   string
	AppEnv string

	PostgresURL string

	RedisAddr     string
	RedisDB       int
	RedisPassword string

	JWTSecret string
	JWTTTL    time.Duration

	GeminiAPIKey string
	GeminiModel  string

	EmbeddingProvider    string // "hash" | "openai"
	OpenAIAPIKey         string
	OpenAIEmbeddingModel string

	AICacheTTL           time.Duration
	AICachePurgeInterval time.Duration
	FreeAIDailyQuota     int

	CORSAllowedOrigins []string
	DefaultCurrency    string
	LogLevel           string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function so tests can inject values.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []error
	duration := func(key, def string) time.Duration {
		d, err := time.ParseDuration(env(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return d
	}
	integer := func(key, def string) int {
		n, err := strconv.Atoi(env(key, def))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return n
	}

	cfg := &Config{
		Port:                 env("PORT", "8080"),
		AppEnv:               env("APP_ENV", "development"),
		PostgresURL:          env("POSTGRES_URL", ""),
		RedisAddr:            env("REDIS_ADDR", ""),
		RedisDB:              integer("REDIS_DB", "0"),
		RedisPassword:        env("REDIS_PASSWORD", ""),
		JWTSecret:            env("JWT_SECRET", ""),
		JWTTTL:               duration("JWT_TTL", "24h"),
		GeminiAPIKey:         env("GEMINI_API_KEY", ""),
		GeminiModel:          env("GEMINI_MODEL", "gemini-1.5-flash"),
		EmbeddingProvider:    strings.ToLower(env("EMBEDDING_PROVIDER", "hash")),
		OpenAIAPIKey:         env("OPENAI_API_KEY", ""),
		OpenAIEmbeddingModel: env("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		AICacheTTL:           duration("AI_CACHE_TTL", "24h"),
		AICachePurgeInterval: duration("AI_CACHE_PURGE_INTERVAL", "10m"),
		FreeAIDailyQuota:     integer("FREE_AI_DAILY_QUOTA", "3"),
		CORSAllowedOrigins:   splitList(env("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		DefaultCurrency:      strings.ToUpper(env("DEFAULT_CURRENCY", "VND")),
		LogLevel:             env("LOG_LEVEL", "info"),
	}

	if cfg.PostgresURL == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	switch cfg.EmbeddingProvider {
	case "hash":
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is required when EMBEDDING_PROVIDER=openai"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported EMBEDDING_PROVIDER %q", cfg.EmbeddingProvider))
	}
	if cfg.AICacheTTL <= 0 {
		errs = append(errs, errors.New("AI_CACHE_TTL must be positive"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
