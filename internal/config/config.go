// Package config centralises environment-driven configuration for the API.
package config

import (
	"os"
	"time"
)

// Config captures runtime configuration values. Defaults target local dev;
// production deployments override via environment variables.
type Config struct {
	Port        string
	DatabaseURL string

	OpenWeatherURL    string
	OpenWeatherAPIKey string
	OpenFoodFactsURL  string
	LookupTimeout     time.Duration
}

// Load reads environment variables into Config. Callers are expected to have
// loaded .env (godotenv) beforehand.
func Load() Config {
	return Config{
		Port:              getEnv("PORT", "3333"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		OpenWeatherURL:    getEnv("OPENWEATHER_URL", "https://api.openweathermap.org"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		OpenFoodFactsURL:  getEnv("OPENFOODFACTS_URL", "https://world.openfoodfacts.org"),
		LookupTimeout:     getDurationEnv("LOOKUP_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
