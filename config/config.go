package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		// A missing .env is fine when the variables come from the shell.
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

type EnvironmentVariable struct {
	// All variables
	GO_ENV string
	PORT   int
	// Database Configuration
	DB_DRIVER    string // postgres or sqlite
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	SQLITE_PATH  string
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL string
	// HTTP
	ALLOWED_ORIGINS string
	// Credentials
	BCRYPT_COST int
	// Scheduler
	CRON_ENABLED bool
	// Initial staff account, used by the seeder
	STAFF_EMAIL    string
	STAFF_PASSWORD string
	STAFF_USERNAME string
}

// IsProduction reports whether GO_ENV is production
func (e *EnvironmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func Get() (*EnvironmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	bcryptCost, err := strconv.Atoi(os.Getenv("BCRYPT_COST"))
	if err != nil {
		bcryptCost = 12
	}

	envVariables := &EnvironmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		PORT:         port,
		DB_DRIVER:    strings.ToLower(getOrDefault("DB_DRIVER", "postgres")),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      os.Getenv("DB_NAME"),
		DB_HOST:      getOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getOrDefault("DB_SSL_MODE", "disable"),
		SQLITE_PATH:  getOrDefault("SQLITE_PATH", "practice.db"),
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: getOrDefault("JWT_ISSUER", "practice-tracker-api"),
		// Redis
		REDIS_URL: getOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		// HTTP
		ALLOWED_ORIGINS: getOrDefault("ALLOWED_ORIGINS", "http://localhost:3000"),
		BCRYPT_COST:     bcryptCost,
		CRON_ENABLED:    os.Getenv("CRON_ENABLED") != "false", // Default to enabled
		STAFF_EMAIL:     os.Getenv("STAFF_EMAIL"),
		STAFF_PASSWORD:  os.Getenv("STAFF_PASSWORD"),
		STAFF_USERNAME:  getOrDefault("STAFF_USERNAME", "staff"),
	}

	return envVariables, nil
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
