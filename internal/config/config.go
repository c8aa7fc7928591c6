package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server         ServerConfig
	Session        SessionConfig
	Redis          RedisConfig
	ReservationAPI ReservationAPIConfig
}

type ServerConfig struct {
	Port string
	Host string
	Env  string
}

type SessionConfig struct {
	Secret string
	MaxAge int // seconds
}

type RedisConfig struct {
	Addr     string // empty disables Redis and falls back to session storage
	Password string
	DB       int
	CartTTL  time.Duration
}

type ReservationAPIConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "localhost"),
			Env:  getEnv("ENV", "development"),
		},
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", "your-secret-key-change-in-production"),
			MaxAge: getEnvAsInt("SESSION_MAX_AGE", 86400*30),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CartTTL:  time.Duration(getEnvAsInt("CART_TTL_HOURS", 24*30)) * time.Hour,
		},
		ReservationAPI: ReservationAPIConfig{
			// Empty means no backend is configured; the server falls back to
			// the built-in mock menu and availability data.
			BaseURL: getEnv("RESERVATION_API_URL", ""),
			APIKey:  getEnv("RESERVATION_API_KEY", ""),
			Timeout: time.Duration(getEnvAsInt("RESERVATION_API_TIMEOUT_SECONDS", 30)) * time.Second,
		},
	}

	return config, nil
}

// IsDevelopment returns true when running in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
