package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Cache     CacheConfig
	StoreDB   StoreDBConfig
	Accounts  AccountsDBConfig
	Identity  IdentityConfig
	Relay     RelayConfig
	Retention RetentionConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"mc-exchange-api"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type string        `envconfig:"CACHE_TYPE" default:"memory"`
	TTL  time.Duration `envconfig:"CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

// StoreDBConfig holds the event/catalog store settings.
type StoreDBConfig struct {
	Type string `envconfig:"STORE_DB_TYPE" default:"sqlite"` // sqlite or postgres
	Path string `envconfig:"STORE_DB_PATH" default:"./data/exchange.db"`
	// PostgreSQL settings
	Host     string `envconfig:"STORE_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"STORE_DB_PORT" default:"5432"`
	Name     string `envconfig:"STORE_DB_NAME" default:"mcexchange"`
	User     string `envconfig:"STORE_DB_USER" default:"postgres"`
	Password string `envconfig:"STORE_DB_PASS" default:""`
	SSLMode  string `envconfig:"STORE_DB_SSLMODE" default:"disable"`
}

// AccountsDBConfig holds MySQL connection settings for the accounts database.
type AccountsDBConfig struct {
	Enabled  bool   `envconfig:"ACCOUNTS_DB_ENABLED" default:"false"`
	Host     string `envconfig:"ACCOUNTS_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"ACCOUNTS_DB_PORT" default:"3306"`
	Name     string `envconfig:"ACCOUNTS_DB_NAME" default:"mcexchange"`
	User     string `envconfig:"ACCOUNTS_DB_USER" default:"root"`
	Password string `envconfig:"ACCOUNTS_DB_PASS" default:""`
}

// IdentityConfig holds settings for the external identity provider.
type IdentityConfig struct {
	BaseURL    string `envconfig:"IDENTITY_URL" default:""`
	ServiceKey string `envconfig:"IDENTITY_SERVICE_KEY" default:""`
}

// RelayConfig holds settings for the in-game relay that posts exchange
// receipts. An empty key list leaves ingestion open.
type RelayConfig struct {
	APIKeys []string `envconfig:"RELAY_API_KEYS" default:""`
}

// RetentionConfig holds event retention settings.
type RetentionConfig struct {
	MaxAge        time.Duration `envconfig:"RETENTION_MAX_AGE" default:"0"` // 0 keeps everything
	SweepInterval time.Duration `envconfig:"RETENTION_SWEEP_INTERVAL" default:"24h"`
}

// PostgresDSN returns the PostgreSQL connection string.
func (s *StoreDBConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		s.User, s.Password, s.Host, s.Port, s.Name, s.SSLMode)
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// DSN returns the MySQL data source name.
func (a *AccountsDBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		a.User, a.Password, a.Host, a.Port, a.Name)
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
