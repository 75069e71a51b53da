package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Search        SearchConfig        `yaml:"search"`
	Auth          AuthConfig          `yaml:"auth"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Announcements AnnouncementsConfig `yaml:"announcements"`
	Cache         CacheConfig         `yaml:"cache"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Logging       LoggingConfig       `yaml:"logging"`
	Timezone      string              `yaml:"timezone"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Type     string         `yaml:"type"`
	MySQL    MySQLConfig    `yaml:"mysql"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// MySQLConfig contains MySQL connection settings
type MySQLConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// PostgresConfig contains PostgreSQL connection settings
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// AuthConfig contains token verification settings
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// NotificationsConfig contains push delivery settings
type NotificationsConfig struct {
	FCMServerKey string `yaml:"fcm_server_key"`
	FCMEndpoint  string `yaml:"fcm_endpoint"`
}

// AnnouncementsConfig controls the background announcement worker
type AnnouncementsConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
}

// CacheConfig contains settings-cache behavior
type CacheConfig struct {
	SettingsTTLHours int `yaml:"settings_ttl_hours"`
}

// RateLimitConfig contains rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Type: "mysql",
		},
		Search: SearchConfig{
			Enabled: false,
			Meilisearch: MeilisearchConfig{
				Host: "http://localhost:7700",
			},
		},
		Announcements: AnnouncementsConfig{
			Enabled:         true,
			IntervalMinutes: 1,
		},
		Cache: CacheConfig{
			SettingsTTLHours: 24,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 120,
			RequestsPerHour:   3600,
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogRequests: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, then applies environment
// overrides. A .env file next to the binary is honored when present.
func LoadConfig(filepath string) (*Config, error) {
	// Ignore error; .env is optional
	_ = godotenv.Load()

	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, keep defaults and env overrides
	if _, err := os.Stat(filepath); err == nil {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvOverrides()

	return config, nil
}

// applyEnvOverrides lets deploy environments override file values without
// editing YAML.
func (c *Config) applyEnvOverrides() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Database.Type = getEnv("DB_TYPE", c.Database.Type)

	c.Database.MySQL.Host = getEnv("MYSQL_HOST", c.Database.MySQL.Host)
	c.Database.MySQL.Port = getEnvInt("MYSQL_PORT", c.Database.MySQL.Port)
	c.Database.MySQL.User = getEnv("MYSQL_USER", c.Database.MySQL.User)
	c.Database.MySQL.Password = getEnv("MYSQL_PASSWORD", c.Database.MySQL.Password)
	c.Database.MySQL.Database = getEnv("MYSQL_DATABASE", c.Database.MySQL.Database)

	c.Database.Postgres.Host = getEnv("POSTGRES_HOST", c.Database.Postgres.Host)
	c.Database.Postgres.Port = getEnvInt("POSTGRES_PORT", c.Database.Postgres.Port)
	c.Database.Postgres.User = getEnv("POSTGRES_USER", c.Database.Postgres.User)
	c.Database.Postgres.Password = getEnv("POSTGRES_PASSWORD", c.Database.Postgres.Password)
	c.Database.Postgres.Database = getEnv("POSTGRES_DATABASE", c.Database.Postgres.Database)

	c.Search.Meilisearch.Host = getEnv("MEILISEARCH_HOST", c.Search.Meilisearch.Host)
	c.Search.Meilisearch.APIKey = getEnv("MEILISEARCH_API_KEY", c.Search.Meilisearch.APIKey)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Notifications.FCMServerKey = getEnv("FCM_SERVER_KEY", c.Notifications.FCMServerKey)
}

// SettingsTTL returns the settings cache lifetime as a duration
func (c *CacheConfig) SettingsTTL() time.Duration {
	if c.SettingsTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.SettingsTTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
