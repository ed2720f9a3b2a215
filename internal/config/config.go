package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

type Config struct {
	Addr         string
	DatabaseURL  string
	RedisAddr    string
	JWTSecret    string
	JWTTTL       time.Duration
	LocalCartKey string
	Currency     currency.Unit
	LogLevel     string
	OTLPEndpoint string

	SessionIdleTimeout time.Duration
	MaxSessions        int
}

// Load reads the environment, after applying the .env files given (".env" by
// default) for variables that are not already set. Missing files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("godotenv.Load(%s): %w", file, err)
		}
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_TTL is not valid: %w", err)
	}

	idle, err := time.ParseDuration(getEnv("SESSION_IDLE_TIMEOUT", "30m"))
	if err != nil {
		return Config{}, fmt.Errorf("SESSION_IDLE_TIMEOUT is not valid: %w", err)
	}

	maxSessions, err := strconv.Atoi(getEnv("MAX_SESSIONS", "10000"))
	if err != nil {
		return Config{}, fmt.Errorf("MAX_SESSIONS is not valid: %w", err)
	}

	unit, err := currency.ParseISO(getEnv("CURRENCY", "INR"))
	if err != nil {
		return Config{}, fmt.Errorf("CURRENCY is not valid: %w", err)
	}

	cfg := Config{
		Addr:         getEnv("ADDR", ":8080"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTTTL:       ttl,
		LocalCartKey: getEnv("CART_LOCAL_KEY", "user_cart"),
		Currency:     unit,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),

		SessionIdleTimeout: idle,
		MaxSessions:        maxSessions,
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
