package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// JWTSecret signs session tokens. Injected here so no package holds a
	// module-level secret.
	JWTSecret string

	// CSRFAuthKey is the 32-byte key for CSRF token generation on form posts.
	CSRFAuthKey string

	// Env is "dev" (default) or "prod". When "prod", secrets must be set and not the defaults.
	Env string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
}

const (
	devJWTSecret = "supersecretkey"
	devCSRFKey   = "dev-csrf-auth-key-32-bytes-long!"
)

func Load() Config {
	// Local development reads overrides from .env when present.
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "tododb"),
		DBUser: getEnv("DB_USER", "todouser"),
		DBPass: getEnv("DB_PASS", "todopass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:   getEnv("JWT_SECRET", devJWTSecret),
		CSRFAuthKey: getEnv("CSRF_AUTH_KEY", devCSRFKey),
		Env:         getEnv("ENV", "dev"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
	}
}

// Validate rejects default secrets outside dev so a prod deploy cannot run
// with signing keys anyone can read from the source.
func (c Config) Validate() error {
	if c.Env != "prod" {
		return nil
	}
	if c.JWTSecret == devJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in prod")
	}
	if c.CSRFAuthKey == devCSRFKey {
		return fmt.Errorf("CSRF_AUTH_KEY must be set in prod")
	}
	if len(c.CSRFAuthKey) != 32 {
		return fmt.Errorf("CSRF_AUTH_KEY must be exactly 32 bytes, got %d", len(c.CSRFAuthKey))
	}
	return nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
