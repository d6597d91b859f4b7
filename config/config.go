// Package config reads the process configuration from the environment.
package config

import (
	"fmt"
	"os"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Port     string

	DatabaseURL string

	JWTSecret string
	OpsAPIKey string
}

func Load() Config {
	return Config{
		AppEnv:      getEnv("APP_ENV", "production"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: databaseURL(),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		OpsAPIKey:   os.Getenv("OPS_API_KEY"),
	}
}

// databaseURL prefers DATABASE_URL and falls back to the discrete DB_* vars.
func databaseURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
