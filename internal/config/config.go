package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Panel    PanelConfig
	Session  SessionConfig
	API      APIConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Admin    AdminConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Env      string
	LogLevel string
}

// PanelConfig holds the admin panel configuration
type PanelConfig struct {
	Port            int
	Layout          string
	BackendBaseURL  string
	BackendTimeout  time.Duration
	CSRFKey         string
	JanitorInterval time.Duration
}

// SessionConfig holds the panel session cookie configuration
type SessionConfig struct {
	Secret       string
	TTL          time.Duration
	CookieSecure bool
}

// APIConfig holds the reference backend configuration
type APIConfig struct {
	Port               int
	StoreDriver        string
	CORSAllowedOrigins []string
}

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	ConnectTimeout time.Duration
}

type StorageConfig struct {
	BasePath string
	BaseURL  string
}

type AdminConfig struct {
	Username     string
	PasswordHash string
	Password     string
}

const (
	LayoutCards = "cards"
	LayoutTable = "table"

	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Panel configuration
	panelPort, err := strconv.Atoi(getEnv("PANEL_PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PANEL_PORT: %w", err)
	}
	backendTimeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
	}
	janitorInterval, err := time.ParseDuration(getEnv("JANITOR_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JANITOR_INTERVAL: %w", err)
	}

	config.Panel = PanelConfig{
		Port:            panelPort,
		Layout:          strings.ToLower(getEnv("PANEL_LAYOUT", LayoutCards)),
		BackendBaseURL:  getEnv("BACKEND_BASE_URL", ""),
		BackendTimeout:  backendTimeout,
		CSRFKey:         getEnv("CSRF_KEY", ""),
		JanitorInterval: janitorInterval,
	}

	// Session configuration
	sessionTTL, err := time.ParseDuration(getEnv("SESSION_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	cookieSecure, err := strconv.ParseBool(getEnv("SESSION_COOKIE_SECURE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
	}

	config.Session = SessionConfig{
		Secret:       getEnv("SESSION_SECRET", ""),
		TTL:          sessionTTL,
		CookieSecure: cookieSecure,
	}

	// API configuration
	apiPort, err := strconv.Atoi(getEnv("API_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_PORT: %w", err)
	}

	config.API = APIConfig{
		Port:               apiPort,
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	dbConnectTimeout, err := time.ParseDuration(getEnv("DB_CONNECT_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONNECT_TIMEOUT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           dbPort,
		User:           getEnv("DB_USER", "postgres"),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", "usermanager"),
		SSLMode:        getEnv("DB_SSL_MODE", "disable"),
		ConnectTimeout: dbConnectTimeout,
	}

	config.Storage = StorageConfig{
		BasePath: getEnv("STORAGE_BASE_PATH", "./uploads"),
		BaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/uploads"),
	}

	config.Admin = AdminConfig{
		Username:     getEnv("ADMIN_USERNAME", ""),
		PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		Password:     getEnv("ADMIN_PASSWORD", ""),
	}

	return config, nil
}

// ValidatePanel validates the settings cmd/panel needs
func (c *Config) ValidatePanel() error {
	var errs []error
	if c.Panel.BackendBaseURL == "" {
		errs = append(errs, errors.New("BACKEND_BASE_URL is required"))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Panel.Layout != LayoutCards && c.Panel.Layout != LayoutTable {
		errs = append(errs, fmt.Errorf("PANEL_LAYOUT must be %q or %q", LayoutCards, LayoutTable))
	}
	if c.Panel.CSRFKey != "" && len(c.Panel.CSRFKey) != 32 {
		errs = append(errs, errors.New("CSRF_KEY must be exactly 32 bytes"))
	}
	if c.Panel.JanitorInterval <= 0 {
		errs = append(errs, errors.New("JANITOR_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}

// ValidateAPI validates the settings cmd/api needs
func (c *Config) ValidateAPI() error {
	var errs []error
	if c.Admin.Username == "" {
		errs = append(errs, errors.New("ADMIN_USERNAME is required"))
	}
	if c.Admin.PasswordHash == "" && c.Admin.Password == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD_HASH or ADMIN_PASSWORD is required"))
	}
	switch c.API.StoreDriver {
	case StoreMemory:
	case StorePostgres:
		if c.Database.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported STORE_DRIVER %q", c.API.StoreDriver))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
