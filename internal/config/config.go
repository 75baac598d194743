package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	maxRosterSize = 64

	defaultAdminPassword = "dev_password"
	defaultSessionSecret = "dev_secret_change_me"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string
	Host           string
	Env            string // "development" or "production"
	AllowedOrigins []string
	TrustProxy     bool // take the client IP from X-Forwarded-For / X-Real-IP
}

// GameConfig holds game-related configuration
type GameConfig struct {
	RosterSize      int
	RoleCatalogFile string
	SpectatorKey    string
}

// AuthConfig holds admin authentication settings
type AuthConfig struct {
	AdminPassword      string
	SessionSecret      string
	TokenTTL           time.Duration
	CookieName         string
	LoginRatePerMinute int
	LoginBurst         int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load reads an optional .env file, then loads configuration from environment variables with defaults
func Load() *Config {
	// a missing .env is fine; real environment variables win
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Host:           getEnv("HOST", "0.0.0.0"),
			Env:            getEnv("ENV", "development"),
			AllowedOrigins: getEnvList("CORS_ORIGINS"),
			TrustProxy:     getEnvBool("TRUST_PROXY", false),
		},
		Game: GameConfig{
			RosterSize:      getEnvInt("ROSTER_SIZE", 12),
			RoleCatalogFile: getEnv("ROLE_CATALOG_FILE", ""),
			SpectatorKey:    getEnv("SPECTATOR_KEY", ""),
		},
		Auth: AuthConfig{
			AdminPassword:      getEnv("ADMIN_PASSWORD", defaultAdminPassword),
			SessionSecret:      getEnv("SESSION_SECRET", defaultSessionSecret),
			TokenTTL:           time.Duration(getEnvInt("ADMIN_TOKEN_TTL_HOURS", 12)) * time.Hour,
			CookieName:         getEnv("ADMIN_COOKIE_NAME", "nightfall_admin"),
			LoginRatePerMinute: getEnvInt("LOGIN_RATE_PER_MINUTE", 10),
			LoginBurst:         getEnvInt("LOGIN_BURST", 5),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Game.RosterSize <= 0 || c.Game.RosterSize > maxRosterSize {
		errs = append(errs, fmt.Errorf("ROSTER_SIZE must be between 1 and %d, got %d", maxRosterSize, c.Game.RosterSize))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("ADMIN_TOKEN_TTL_HOURS must be positive"))
	}
	if c.Auth.LoginRatePerMinute <= 0 || c.Auth.LoginBurst <= 0 {
		errs = append(errs, errors.New("LOGIN_RATE_PER_MINUTE and LOGIN_BURST must be positive"))
	}
	if c.IsProduction() {
		if c.Auth.AdminPassword == defaultAdminPassword {
			errs = append(errs, errors.New("ADMIN_PASSWORD must be set in production"))
		}
		if c.Auth.SessionSecret == defaultSessionSecret {
			errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
		}
	}

	return errors.Join(errs...)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvBool returns an environment variable as a boolean or a default value
func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
