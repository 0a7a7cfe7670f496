package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// Every key is read from the environment first (PORT, LOG_LEVEL, ...); a
// YAML/JSON/TOML file named by CONFIG_FILE may supply the same keys.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Session  SessionConfig
	Metrics  MetricsConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

type AuthConfig struct {
	APIKeys []string // Valid API keys for catalog administration
}

type CatalogConfig struct {
	SourceURL          string
	LoadTimeout        int // seconds
	MaxPayloadBytes    int64
	Categories         []string
	CategoriesFromData bool
	BreakerMaxFailures uint32
	BreakerTimeout     int // seconds
}

type SessionConfig struct {
	MaxSessions int
	TTL         int // minutes
}

type MetricsConfig struct {
	Namespace string
}

// LoadTimeoutDuration returns the dataset load timeout
func (c CatalogConfig) LoadTimeoutDuration() time.Duration {
	return time.Duration(c.LoadTimeout) * time.Second
}

// BreakerTimeoutDuration returns how long the source breaker stays open
func (c CatalogConfig) BreakerTimeoutDuration() time.Duration {
	return time.Duration(c.BreakerTimeout) * time.Second
}

// TTLDuration returns the idle session expiry
func (c SessionConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Minute
}

// SetDefaults registers default values with v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("read_timeout", 15)
	v.SetDefault("write_timeout", 15)
	v.SetDefault("shutdown_timeout", 30)
	v.SetDefault("api_keys", "apitest")
	v.SetDefault("log_level", "info")

	v.SetDefault("data_source_url", "http://localhost:9000")
	v.SetDefault("load_timeout", 10)
	v.SetDefault("max_payload_bytes", 10<<20)
	v.SetDefault("categories", "breakfast,lunch,dinner")
	v.SetDefault("categories_from_data", false)
	v.SetDefault("breaker_max_failures", 3)
	v.SetDefault("breaker_timeout", 30)

	v.SetDefault("session_max", 1024)
	v.SetDefault("session_ttl", 30)

	v.SetDefault("metrics_namespace", "foodfinder")
}

// New returns a viper instance with defaults registered and environment
// lookup enabled
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return v
}

// Load reads configuration from the environment and, when CONFIG_FILE is
// set, from that file
func Load() (*Config, error) {
	v := New()
	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper builds and validates a Config from v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            v.GetString("port"),
			Host:            v.GetString("host"),
			ReadTimeout:     v.GetInt("read_timeout"),
			WriteTimeout:    v.GetInt("write_timeout"),
			ShutdownTimeout: v.GetInt("shutdown_timeout"),
		},
		Auth: AuthConfig{
			APIKeys: getList(v, "api_keys"),
		},
		Catalog: CatalogConfig{
			SourceURL:          v.GetString("data_source_url"),
			LoadTimeout:        v.GetInt("load_timeout"),
			MaxPayloadBytes:    v.GetInt64("max_payload_bytes"),
			Categories:         getList(v, "categories"),
			CategoriesFromData: v.GetBool("categories_from_data"),
			BreakerMaxFailures: v.GetUint32("breaker_max_failures"),
			BreakerTimeout:     v.GetInt("breaker_timeout"),
		},
		Session: SessionConfig{
			MaxSessions: v.GetInt("session_max"),
			TTL:         v.GetInt("session_ttl"),
		},
		Metrics: MetricsConfig{
			Namespace: v.GetString("metrics_namespace"),
		},
		LogLevel: v.GetString("log_level"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if len(c.Auth.APIKeys) == 0 {
		return fmt.Errorf("at least one API key must be configured")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Catalog.SourceURL == "" {
		return fmt.Errorf("DATA_SOURCE_URL is required")
	}

	if c.Catalog.LoadTimeout <= 0 {
		return fmt.Errorf("LOAD_TIMEOUT must be positive")
	}

	if c.Catalog.MaxPayloadBytes <= 0 {
		return fmt.Errorf("MAX_PAYLOAD_BYTES must be positive")
	}

	if len(c.Catalog.Categories) == 0 {
		return fmt.Errorf("at least one category must be configured")
	}
	for _, category := range c.Catalog.Categories {
		if strings.EqualFold(category, "all") {
			return fmt.Errorf("category %q is reserved", category)
		}
	}

	if c.Session.MaxSessions <= 0 {
		return fmt.Errorf("SESSION_MAX must be positive")
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	return nil
}

// getList reads a comma separated list from the environment, or a list
// from a config file
func getList(v *viper.Viper, key string) []string {
	var raw []string
	switch value := v.Get(key).(type) {
	case string:
		raw = strings.Split(value, ",")
	case []interface{}:
		for _, item := range value {
			raw = append(raw, fmt.Sprint(item))
		}
	case []string:
		raw = value
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
