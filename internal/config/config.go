// Package config provides configuration management for the NBA Edge application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Provider  ProviderConfig  `mapstructure:"provider" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Betting   BettingConfig   `mapstructure:"betting" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProviderConfig represents the upstream stats API configuration
type ProviderConfig struct {
	BaseURL               string `mapstructure:"base_url" validate:"required,url"`
	APIKey                string `mapstructure:"api_key"`
	Season                string `mapstructure:"season" validate:"required,season"`
	TimeoutSeconds        int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond    float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	RateLimitBurst        int    `mapstructure:"rate_limit_burst" validate:"required,gt=0"`
	CircuitBreakerEnabled bool   `mapstructure:"circuit_breaker_enabled"`
	RecentGames           int    `mapstructure:"recent_games" validate:"required,gt=0"`
}

// ModelConfig represents the prediction model coefficients
type ModelConfig struct {
	NetRatingScale     float64 `mapstructure:"net_rating_scale" validate:"required,gt=0"`
	HomeCourtBonus     float64 `mapstructure:"home_court_bonus" validate:"gte=0"`
	ProbabilityFloor   float64 `mapstructure:"probability_floor" validate:"gte=0,lt=1"`
	ProbabilityCeiling float64 `mapstructure:"probability_ceiling" validate:"gt=0,lte=1"`
}

// BettingConfig represents staking policy configuration
type BettingConfig struct {
	KellyMultiplier float64 `mapstructure:"kelly_multiplier" validate:"required,gt=0,lte=1"`
	EdgeThreshold   float64 `mapstructure:"edge_threshold" validate:"required,gt=0,lt=1"`
	DefaultBankroll float64 `mapstructure:"default_bankroll" validate:"gte=0"`
}

// CacheConfig represents provider cache configuration
type CacheConfig struct {
	Backend    string      `mapstructure:"backend" validate:"required,oneof=memory redis"`
	TTLSeconds int         `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int         `mapstructure:"max_size" validate:"gte=0"`
	Redis      RedisConfig `mapstructure:"redis"`
}

// RedisConfig represents the redis connection used when the cache
// backend is "redis"
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}

// StorageConfig represents optional analysis history persistence
type StorageConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Host                  string   `mapstructure:"host"`
	Port                  int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds    int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds   int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	ShutdownTimeoutSeconds int     `mapstructure:"shutdown_timeout_seconds" validate:"required,gt=0"`
	AllowedOrigins        []string `mapstructure:"allowed_origins"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents the background cache refresh schedule
type SchedulerConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	RefreshSpec string `mapstructure:"refresh_spec"`
	Teams       []string `mapstructure:"teams"`
}

// SecretsConfig represents the optional AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string for the history store
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Storage.User,
		c.Storage.Password,
		c.Storage.Host,
		c.Storage.Port,
		c.Storage.Name,
		c.Storage.SSLMode,
	)
}

// ProviderTimeout returns the stats API request timeout as a duration
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

// CacheTTL returns the provider cache TTL as a duration
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}

// ListenAddress returns the host:port the API server binds to
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
