package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort        string
	FirebaseProject   string
	Environment       string
	RepositoryTimeout time.Duration
	RetryMaxAttempts  int
	RetryBaseInterval time.Duration
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		FirebaseProject:   getEnv("FIREBASE_PROJECT_ID", ""),
		Environment:       getEnv("ENVIRONMENT", "development"),
		RepositoryTimeout: time.Duration(getEnvAsInt64("REPOSITORY_TIMEOUT_MS", 5000)) * time.Millisecond,
		RetryMaxAttempts:  int(getEnvAsInt64("REPOSITORY_RETRY_MAX", 3)),
		RetryBaseInterval: time.Duration(getEnvAsInt64("REPOSITORY_RETRY_BASE_MS", 100)) * time.Millisecond,
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
