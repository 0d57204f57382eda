package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers understood by DB_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool
	LogLevel     slog.Level

	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	AuthEnabled       bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	AdminUsername     string
	AdminPasswordHash string
	LoginRateLimit    string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	PosthogAPIKey   string
	PosthogEndpoint string

	RejectOverdraft    bool
	CORSAllowedOrigins []string
}

// Environment names the deployment for the health endpoint.
func (c *Config) Environment() string {
	if c.IsProduction {
		return "Production"
	}
	return "Development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", "")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "data/income_expense.db")
	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY", "24h")
	v.SetDefault("JWT_ISSUER", "income-expense-tracker")
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
	v.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	v.SetDefault("GOOGLE_CLIENT_ID", "")
	v.SetDefault("GOOGLE_CLIENT_SECRET", "")
	v.SetDefault("GOOGLE_REDIRECT_URL", "http://localhost:8080/auth/google/callback")
	v.SetDefault("POSTHOG_API_KEY", "")
	v.SetDefault("POSTHOG_ENDPOINT", "https://us.i.posthog.com")
	v.SetDefault("LEDGER_REJECT_OVERDRAFT", false)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Values already set on v (for example bound command-line flags) take precedence.
func LoadConfig(v *viper.Viper) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		Port:               v.GetString("PORT"),
		IsProduction:       v.GetBool("IS_PRODUCTION"),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		SQLitePath:         v.GetString("SQLITE_PATH"),
		AuthEnabled:        v.GetBool("AUTH_ENABLED"),
		JWTSecret:          v.GetString("JWT_SECRET"),
		JWTIssuer:          v.GetString("JWT_ISSUER"),
		AdminUsername:      v.GetString("ADMIN_USERNAME"),
		AdminPasswordHash:  v.GetString("ADMIN_PASSWORD_HASH"),
		LoginRateLimit:     v.GetString("LOGIN_RATE_LIMIT"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  v.GetString("GOOGLE_REDIRECT_URL"),
		PosthogAPIKey:      v.GetString("POSTHOG_API_KEY"),
		PosthogEndpoint:    v.GetString("POSTHOG_ENDPOINT"),
		RejectOverdraft:    v.GetBool("LEDGER_REJECT_OVERDRAFT"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	expiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY"))
	if err != nil || expiry <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRY %q", v.GetString("JWT_EXPIRY"))
	}
	cfg.JWTExpiryDuration = expiry

	cfg.DBDriver, err = resolveDriver(v.GetString("DB_DRIVER"), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == DriverPostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}

	if cfg.AuthEnabled {
		if cfg.IsProduction && cfg.JWTSecret == defaultJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set when AUTH_ENABLED in production")
		}
		if cfg.AdminPasswordHash == "" {
			slog.Warn("AUTH_ENABLED is set but ADMIN_PASSWORD_HASH is empty; every login will fail")
		}
	}

	return cfg, nil
}

// resolveDriver picks the explicit driver or derives one from the URL scheme.
func resolveDriver(driver, databaseURL string) (string, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres, "postgresql", "pgsql":
		return DriverPostgres, nil
	case DriverSQLite, "sqlite3":
		return DriverSQLite, nil
	case DriverMemory:
		return DriverMemory, nil
	case "":
		if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
			return DriverPostgres, nil
		}
		return DriverSQLite, nil
	}
	return "", fmt.Errorf("unknown DB_DRIVER %q, want postgres, sqlite or memory", driver)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
