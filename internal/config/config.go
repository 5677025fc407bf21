package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment variables.
// It is built once in main and handed to every constructor that needs it.
type Config struct {
	ServerPort       string
	MySQLDSN         string
	JWTSecret        string
	TokenTTL         time.Duration
	ListDefaultLimit int
	ListMaxLimit     int
	SwaggerHost      string
}

// Load builds Config from environment with sensible defaults. When ENV=dev a
// local .env file is read first so development values need not be exported.
func Load() *Config {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	return &Config{
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		MySQLDSN:         getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/userdir?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:        getEnv("JWT_SECRET", "change-me"),
		TokenTTL:         getEnvDuration("TOKEN_TTL", 15*time.Minute),
		ListDefaultLimit: getEnvInt("LIST_DEFAULT_LIMIT", 20),
		ListMaxLimit:     getEnvInt("LIST_MAX_LIMIT", 100),
		SwaggerHost:      os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
