package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config is loaded once in main and passed to constructors. Nothing reads
// the environment after startup.
type Config struct {
	Port        string
	Environment string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     []byte
	JWTExpiration time.Duration

	// APISecretKey gates the sync trigger endpoint outside local development.
	APISecretKey  string
	WebhookSecret string

	GithubOwner  string
	GithubRepo   string
	GithubBranch string
	GithubToken  string
	RulesPath    string

	SyncIntervalMinutes int
}

func Load() *Config {
	secret := getEnv("JWT_SECRET", "")
	if secret == "" {
		secret = "change-this-in-production"
		log.Println("Warning: JWT_SECRET not set, using insecure default")
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("APP_ENV", "development"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "rulehub"),
		DBPassword:          getEnv("DB_PASSWORD", ""),
		DBName:              getEnv("DB_NAME", "rulehub"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		JWTSecret:           []byte(secret),
		JWTExpiration:       24 * time.Hour,
		APISecretKey:        getEnv("API_SECRET_KEY", ""),
		WebhookSecret:       getEnv("WEBHOOK_SECRET", ""),
		GithubOwner:         getEnv("GITHUB_OWNER", ""),
		GithubRepo:          getEnv("GITHUB_REPO", ""),
		GithubBranch:        getEnv("GITHUB_BRANCH", "main"),
		GithubToken:         getEnv("GITHUB_TOKEN", ""),
		RulesPath:           getEnv("RULES_PATH", "rules"),
		SyncIntervalMinutes: getEnvInt("SYNC_INTERVAL_MINUTES", 0),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid integer value for %s: %s, using default %d", key, value, defaultValue)
	}
	return defaultValue
}
