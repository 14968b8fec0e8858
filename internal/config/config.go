// Package config loads the application configuration. Values in a .env file
// are exported to the environment first so that INTAKE_* overrides can live
// there.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnv loads the first .env file found among candidates, defaulting to
// ./.env and ../.env. Variables already set in the environment win. It
// returns the file that was loaded, or "" when none exists.
func LoadEnv(candidates ...string) (string, error) {
	if len(candidates) == 0 {
		candidates = []string{".env", filepath.Join("..", ".env")}
	}
	for _, envFile := range candidates {
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(envFile); err != nil {
			return "", err
		}
		return envFile, nil
	}
	return "", nil
}

// GetEnv retrieves an environment variable with a fallback value if not set
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
