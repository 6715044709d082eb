// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers for saved searches.
const (
	DriverPostgres = "postgres"
	DriverFile     = "file"
	DriverMemory   = "memory"
)

// Config holds all application configuration.
type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Season   SeasonConfig   `mapstructure:"season"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
}

// BotConfig holds Telegram bot configuration.
type BotConfig struct {
	Token       string        `mapstructure:"token"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

// StatsConfig holds the stats API settings.
type StatsConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SeasonConfig holds the remote season label source.
type SeasonConfig struct {
	URL             string        `mapstructure:"url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// StorageConfig selects where saved searches live.
type StorageConfig struct {
	Driver   string `mapstructure:"driver"`
	FilePath string `mapstructure:"file_path"`
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	PoolSize        int           `mapstructure:"pool_size"`
	ConnectTimeout  time.Duration `mapstructure:"connect_timeout"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DSN returns the PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// Load reads configuration from file and environment variables.
// A .env file in the working directory is applied first when present.
func Load(configPath string) (*Config, error) {
	// Missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// e.g. BOT_TOKEN, STATS_API_KEY, DATABASE_HOST
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
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

// setDefaults sets default configuration values.
// Every key is registered here so AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.token", "")
	v.SetDefault("bot.poll_timeout", "10s")

	v.SetDefault("stats.base_url", "https://fortnite-api.com/v2/stats/br/v2")
	v.SetDefault("stats.api_key", "")
	v.SetDefault("stats.timeout", "10s")

	v.SetDefault("season.url", "https://pastebin.com/raw/HNxPB0zp")
	v.SetDefault("season.timeout", "5s")
	v.SetDefault("season.refresh_interval", "6h")

	v.SetDefault("storage.driver", DriverPostgres)
	v.SetDefault("storage.file_path", "data/saved_searches.json")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "statsbot")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "statsbot")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.connect_timeout", "10s")
	v.SetDefault("database.max_conn_lifetime", "1h")
	v.SetDefault("database.max_conn_idle_time", "30m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
}

// Validate checks the settings the bot cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Bot.Token) == "" {
		return fmt.Errorf("bot token is required")
	}
	if c.Stats.Timeout <= 0 {
		return fmt.Errorf("stats.timeout must be > 0")
	}
	if c.Season.Timeout <= 0 {
		return fmt.Errorf("season.timeout must be > 0")
	}

	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case DriverPostgres, DriverMemory:
	case DriverFile:
		if strings.TrimSpace(c.Storage.FilePath) == "" {
			return fmt.Errorf("storage.file_path is required when storage.driver is %q", DriverFile)
		}
	default:
		return fmt.Errorf("invalid storage.driver %q; allowed: postgres, file, memory", c.Storage.Driver)
	}
	return nil
}
