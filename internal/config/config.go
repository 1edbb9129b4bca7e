// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Fallback operator credentials. Both are meant to be overridden; the
// dashboard logs a warning while they are in use.
const (
	DefaultDashboardUsername = "admin"
	DefaultDashboardPassword = "change_this"
	DefaultSessionSecret     = "change_this"
)

// Store drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Store     StoreConfig     `mapstructure:"store"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Withdraw  WithdrawConfig  `mapstructure:"withdraw"`
	Log       LogConfig       `mapstructure:"log"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	Name        string        `mapstructure:"name"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// AdminConfig lists the Telegram user IDs allowed to run admin commands.
type AdminConfig struct {
	IDs []int64 `mapstructure:"ids"`
}

// DashboardConfig holds the operator web dashboard configuration.
type DashboardConfig struct {
	Port          int    `mapstructure:"port"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	PasswordHash  string `mapstructure:"password_hash"`
	SessionSecret string `mapstructure:"session_secret"`
}

// StoreConfig selects the document backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
	Document        string        `mapstructure:"document"`
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
	Key      string `mapstructure:"key"`
}

// WithdrawConfig holds the withdraw business rules.
type WithdrawConfig struct {
	WindowStart string  `mapstructure:"window_start"`
	WindowEnd   string  `mapstructure:"window_end"`
	Timezone    string  `mapstructure:"timezone"`
	MaxFraction float64 `mapstructure:"max_fraction"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name,
	)
}

// Location resolves the withdraw timezone. "Local" or empty means the
// process's local zone.
func (w *WithdrawConfig) Location() (*time.Location, error) {
	if w.Timezone == "" || strings.EqualFold(w.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(w.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid withdraw timezone %q: %w", w.Timezone, err)
	}
	return loc, nil
}

// Fraction returns the per-request withdraw limit as a decimal.
func (w *WithdrawConfig) Fraction() decimal.Decimal {
	return decimal.NewFromFloat(w.MaxFraction)
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the config directory.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separator and uppercase
	// e.g., BOT_TOKEN, DASHBOARD_PORT, STORE_DRIVER
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	// Read config file (optional - env vars can provide all config)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// bindEnv registers keys that have no default, plus the legacy variable
// names operators already deploy with.
func bindEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"bot.token", "BOT_TOKEN"},
		{"admin.ids", "ADMIN_IDS"},
		{"dashboard.username", "DASHBOARD_USERNAME", "ADMIN_USER"},
		{"dashboard.password", "DASHBOARD_PASSWORD", "ADMIN_PASS"},
		{"dashboard.password_hash", "DASHBOARD_PASSWORD_HASH"},
		{"dashboard.session_secret", "DASHBOARD_SESSION_SECRET", "SESSION_SECRET"},
		{"dashboard.port", "DASHBOARD_PORT", "PORT"},
		{"database.password", "DATABASE_PASSWORD"},
		{"redis.password", "REDIS_PASSWORD"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", b[0], err)
		}
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.name", "AmarTakaOfficialBot")
	v.SetDefault("bot.poll_timeout", "10s")

	v.SetDefault("dashboard.port", 5000)
	v.SetDefault("dashboard.username", DefaultDashboardUsername)
	v.SetDefault("dashboard.password", DefaultDashboardPassword)
	v.SetDefault("dashboard.session_secret", DefaultSessionSecret)

	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "database.json")

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "amartaka")
	v.SetDefault("database.name", "amartaka")
	v.SetDefault("database.pool_size", 8)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")
	v.SetDefault("database.document", "ledger")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.key", "amartaka:document")

	v.SetDefault("withdraw.window_start", "08:00")
	v.SetDefault("withdraw.window_end", "14:00")
	v.SetDefault("withdraw.timezone", "Local")
	v.SetDefault("withdraw.max_fraction", 0.5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return errors.New("bot token is required (set BOT_TOKEN)")
	}
	switch c.Store.Driver {
	case DriverFile, DriverMemory, DriverPostgres, DriverRedis:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	if c.Dashboard.Port <= 0 || c.Dashboard.Port > 65535 {
		return fmt.Errorf("invalid dashboard port %d", c.Dashboard.Port)
	}
	if c.Withdraw.MaxFraction <= 0 || c.Withdraw.MaxFraction > 1 {
		return fmt.Errorf("withdraw.max_fraction must be in (0, 1], got %v", c.Withdraw.MaxFraction)
	}
	if _, err := c.Withdraw.Location(); err != nil {
		return err
	}
	return nil
}

// IsAdmin checks if a user ID is in the admin list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Admin.IDs {
		if id == userID {
			return true
		}
	}
	return false
}

// UsesDefaultCredentials reports whether the dashboard still runs with the
// built-in fallback username, password or session secret.
func (c *Config) UsesDefaultCredentials() bool {
	d := c.Dashboard
	return d.Username == DefaultDashboardUsername ||
		(d.PasswordHash == "" && d.Password == DefaultDashboardPassword) ||
		d.SessionSecret == DefaultSessionSecret
}
