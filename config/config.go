package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIORNMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	// All variables
	GO_ENV       string
	PORT         int
	LOG_MODE     string
	DATABASE_URL string
	DB_USER_NAME string
	DB_PASSWORD  string
	DB_NAME      string
	DB_HOST      string
	DB_PORT      string
	DB_SSL_MODE  string
	// JWT Configuration
	JWT_SECRET string
	JWT_ISSUER string
	// Redis Configuration
	REDIS_URL string
	// HTTP
	ALLOWED_ORIGINS string
	CRON_ENABLED    bool
	// Storage Configuration
	STORAGE_DRIVER  string
	UPLOAD_DIR      string
	PUBLIC_BASE_URL string
	// DigitalOcean Spaces Configuration
	DO_SPACES_ACCESS_KEY   string
	DO_SPACES_SECRET_KEY   string
	DO_SPACES_BUCKET       string
	DO_SPACES_REGION       string
	DO_SPACES_ENDPOINT     string
	DO_SPACES_CDN_ENDPOINT string
	// Seed
	ADMIN_NAME     string
	ADMIN_EMAIL    string
	ADMIN_PASSWORD string
}

// ErrMissingJWTSecret is returned when the signing secret is not configured
var ErrMissingJWTSecret = errors.New("JWT_SECRET environment variable is required")

// Get reads the environment and checks the settings the API server cannot run without
func Get() (*EnviornmentVariable, error) {
	env := Read()
	if env.JWT_SECRET == "" {
		return nil, ErrMissingJWTSecret
	}
	return env, nil
}

// Read reads the environment with defaults applied and no validation
func Read() *EnviornmentVariable {
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 5000
	}

	envVariables := &EnviornmentVariable{
		GO_ENV:       os.Getenv("GO_ENV"),
		PORT:         port,
		LOG_MODE:     getEnvOrDefault("LOG_MODE", os.Getenv("GO_ENV")),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
		DB_USER_NAME: os.Getenv("DB_USER_NAME"),
		DB_PASSWORD:  os.Getenv("DB_PASSWORD"),
		DB_NAME:      getEnvOrDefault("DB_NAME", "learnhub"),
		DB_HOST:      getEnvOrDefault("DB_HOST", "localhost"),
		DB_PORT:      getEnvOrDefault("DB_PORT", "5432"),
		DB_SSL_MODE:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		// JWT
		JWT_SECRET: os.Getenv("JWT_SECRET"),
		JWT_ISSUER: getEnvOrDefault("JWT_ISSUER", "learnhub-api"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		// HTTP
		ALLOWED_ORIGINS: getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		CRON_ENABLED:    os.Getenv("CRON_ENABLED") != "false", // Default to enabled
		// Storage
		STORAGE_DRIVER:  strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", "local")),
		UPLOAD_DIR:      getEnvOrDefault("UPLOAD_DIR", "uploads"),
		PUBLIC_BASE_URL: strings.TrimRight(os.Getenv("PUBLIC_BASE_URL"), "/"),
		// DigitalOcean Spaces
		DO_SPACES_ACCESS_KEY:   os.Getenv("DO_SPACES_ACCESS_KEY"),
		DO_SPACES_SECRET_KEY:   os.Getenv("DO_SPACES_SECRET_KEY"),
		DO_SPACES_BUCKET:       os.Getenv("DO_SPACES_BUCKET"),
		DO_SPACES_REGION:       getEnvOrDefault("DO_SPACES_REGION", "blr1"),
		DO_SPACES_ENDPOINT:     os.Getenv("DO_SPACES_ENDPOINT"),
		DO_SPACES_CDN_ENDPOINT: os.Getenv("DO_SPACES_CDN_ENDPOINT"),
		// Seed
		ADMIN_NAME:     getEnvOrDefault("ADMIN_NAME", "Administrator"),
		ADMIN_EMAIL:    os.Getenv("ADMIN_EMAIL"),
		ADMIN_PASSWORD: os.Getenv("ADMIN_PASSWORD"),
	}

	return envVariables
}

// PostgresDSN returns DATABASE_URL when set, otherwise a key/value DSN built from the DB_* parts
func (e *EnviornmentVariable) PostgresDSN() string {
	if e.DATABASE_URL != "" {
		return e.DATABASE_URL
	}
	parts := []string{
		"host=" + e.DB_HOST,
		"user=" + e.DB_USER_NAME,
		"password=" + e.DB_PASSWORD,
		"dbname=" + e.DB_NAME,
		"port=" + e.DB_PORT,
		"sslmode=" + e.DB_SSL_MODE,
		"TimeZone=UTC",
	}
	return strings.Join(parts, " ")
}

// AllowedOrigins splits ALLOWED_ORIGINS into trimmed, non-empty entries
func (e *EnviornmentVariable) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(e.ALLOWED_ORIGINS, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// IsProduction reports whether GO_ENV selects production behavior
func (e *EnviornmentVariable) IsProduction() bool {
	return e.GO_ENV == "production"
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
