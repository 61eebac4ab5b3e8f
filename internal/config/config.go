// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// DevFallbackSecret is the signing secret used when SECRET_KEY is unset.
// It exists so local development works without a .env file. Deployments
// MUST set a strong SECRET_KEY; production refuses to start without one.
const DevFallbackSecret = "lectern-dev-secret-do-not-deploy!!"

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for links and OAuth redirects.
	BaseURL string

	// Auth holds session and verification-code settings.
	Auth AuthConfig

	// Directory selects the account directory backend: "sheets" or "mysql".
	Directory string

	// Database holds MariaDB settings for the mysql directory backend.
	Database DatabaseConfig

	// Redis holds the optional Redis code-store settings.
	Redis RedisConfig

	// Google holds Google Workspace API settings.
	Google GoogleConfig

	// SMTP holds plain SMTP mail settings (used when no Gmail token exists).
	SMTP SMTPConfig

	// TrustedProxies lists CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string

	// CORSOrigins lists extra origins allowed to call the API. Empty
	// means same-origin only.
	CORSOrigins []string
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// SecretKey signs session tokens and encrypts the stored Gmail token.
	SecretKey string

	// SessionTTL is the fixed session lifetime. Sessions are never
	// refreshed in place; a new login issues a new token.
	SessionTTL time.Duration

	// CodeTTL is the verification-code lifetime for PIN recovery.
	CodeTTL time.Duration
}

// DatabaseConfig holds MariaDB connection parameters for the mysql
// directory backend. Only used when Directory is "mysql".
type DatabaseConfig struct {
	// Host is the MariaDB address in host:port format. If no port is
	// given, 3306 is appended automatically.
	Host string

	// User is the MariaDB username (default: "lectern").
	User string

	// Password is the MariaDB password (default: "lectern").
	Password string

	// Name is the database name (default: "lectern").
	Name string

	// MaxOpenConns is the maximum number of open connections in the pool.
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections in the pool.
	MaxIdleConns int

	// ConnMaxLifetime is how long a connection can be reused.
	ConnMaxLifetime time.Duration
}

// DSN returns the go-sql-driver/mysql connection string built from the
// individual fields, using the driver's Config.FormatDSN() to safely
// handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, "3306")
	cfg.DBName = d.Name
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters. When URL is empty the
// in-process verification code store is used instead.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// GoogleConfig holds Google Workspace API settings.
type GoogleConfig struct {
	// CredentialsFile is the path to the service-account JSON used for
	// Sheets, Calendar, and Drive access.
	CredentialsFile string

	// SpreadsheetID identifies the roster/settlement spreadsheet.
	SpreadsheetID string

	// CalendarID identifies the class-schedule calendar.
	CalendarID string

	// OAuthClientFile is the path to the OAuth client JSON used for the
	// Gmail send authorization flow.
	OAuthClientFile string

	// TokenFile is where the authorized Gmail token is stored, encrypted
	// with the application secret.
	TokenFile string
}

// SMTPConfig holds outbound SMTP settings.
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string

	// Encryption is "starttls" (default), "ssl", or "none".
	Encryption string
}

// Configured returns true if SMTP has a host to deliver through.
func (s SMTPConfig) Configured() bool {
	return s.Host != ""
}

// Load reads configuration from environment variables with development
// defaults. Returns an error if production requirements are not met.
func Load() (*Config, error) {
	cfg := &Config{
		Env:     getEnv("ENV", "development"),
		Port:    getEnvInt("PORT", 8080),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		Auth: AuthConfig{
			SecretKey:  getEnv("SECRET_KEY", ""),
			SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
			CodeTTL:    getEnvDuration("RESET_CODE_TTL", 10*time.Minute),
		},

		Directory: getEnv("DIRECTORY_BACKEND", "sheets"),

		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost:3306"),
			User:            getEnv("DB_USER", "lectern"),
			Password:        getEnv("DB_PASSWORD", "lectern"),
			Name:            getEnv("DB_NAME", "lectern"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},

		Google: GoogleConfig{
			CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
			SpreadsheetID:   getEnv("SPREADSHEET_ID", ""),
			CalendarID:      getEnv("CALENDAR_ID", "primary"),
			OAuthClientFile: getEnv("GOOGLE_OAUTH_CLIENT_FILE", "./oauth-client.json"),
			TokenFile:       getEnv("GMAIL_TOKEN_FILE", "./data/gmail-token.bin"),
		},

		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", ""),
			Port:        getEnvInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("SMTP_FROM_ADDRESS", "noreply@localhost"),
			FromName:    getEnv("SMTP_FROM_NAME", "Lectern"),
			Encryption:  getEnv("SMTP_ENCRYPTION", "starttls"),
		},

		TrustedProxies: getEnvList("TRUSTED_PROXIES"),
		CORSOrigins:    getEnvList("CORS_ORIGINS"),
	}

	switch cfg.Directory {
	case "sheets", "mysql":
	default:
		return nil, fmt.Errorf("DIRECTORY_BACKEND must be \"sheets\" or \"mysql\", got %q", cfg.Directory)
	}

	// Validate required fields in production. Case-insensitive check catches
	// common variants like "Production", "prod", etc.
	envLower := strings.ToLower(cfg.Env)
	if envLower == "production" || envLower == "prod" {
		if cfg.Auth.SecretKey == "" {
			return nil, fmt.Errorf("SECRET_KEY is required in production")
		}
		if len(cfg.Auth.SecretKey) < 32 {
			return nil, fmt.Errorf("SECRET_KEY must be at least 32 characters in production")
		}
	}

	// Dev-only fallback so local development works without a .env file.
	if cfg.Auth.SecretKey == "" {
		cfg.Auth.SecretKey = DevFallbackSecret
	}

	return cfg, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// IsProduction returns true if running in production mode. Controls the
// Secure attribute on the session cookie.
func (c *Config) IsProduction() bool {
	return !c.IsDevelopment()
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvList reads a comma-separated env var into a slice.
func getEnvList(key string) []string {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnvDuration reads a duration env var (e.g., "24h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
