package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/miru/channelpulse-go/internal/util"
)

type Config struct {
	YouTube  YouTubeConfig
	Gemini   GeminiConfig
	Groq     GroqConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

type YouTubeConfig struct {
	APIKeys []string
}

type GeminiConfig struct {
	APIKey string
}

type GroqConfig struct {
	APIKeys        []string
	EnableFallback bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		YouTube: YouTubeConfig{
			APIKeys: collectAPIKeys("YOUTUBE_API_KEY", 9),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
		},
		Groq: GroqConfig{
			APIKeys:        collectAPIKeys("GROQ_API_KEY", 5),
			EnableFallback: getEnvBool("GROQ_ENABLE_FALLBACK", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "channelpulse"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "channelpulse"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.YouTube.APIKeys) == 0 {
		return fmt.Errorf("at least one YOUTUBE_API_KEY is required")
	}
	if c.Postgres.Host == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// collectAPIKeys gathers the base variable plus numbered slots
// (KEY, KEY_1 .. KEY_n), deduplicated in order.
func collectAPIKeys(base string, slots int) []string {
	keys := make([]string, 0, slots+1)

	add := func(value string) {
		if value = strings.TrimSpace(value); value != "" {
			keys = append(keys, value)
		}
	}

	add(os.Getenv(base))
	for i := 1; i <= slots; i++ {
		add(os.Getenv(fmt.Sprintf("%s_%d", base, i)))
	}

	return util.UniqueStrings(keys)
}
