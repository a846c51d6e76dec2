package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string    `mapstructure:"env"`              // current application environment (local, dev, production etc)
	TelegramAPIToken string    `mapstructure:"-"`                // Telegram API token loaded from environment
	SurahsJSONPath   string    `mapstructure:"surahs_json_path"` // path to JSON file with the surah catalog
	VersesDBPath     string    `mapstructure:"verses_db_path"`   // path to the SQLite verse database
	DB               DB        `mapstructure:"database"`         // database configuration section
	Cache            Cache     `mapstructure:"cache"`            // pending quiz storage
	Reminders        Reminders `mapstructure:"reminders"`        // idle session reminders
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Cache configures where pending quizzes are kept. An empty URL keeps them in memory.
type Cache struct {
	URL     string        `mapstructure:"-"`
	QuizTTL time.Duration `mapstructure:"quiz_ttl"`
}

type Reminders struct {
	Enabled   bool          `mapstructure:"enabled"`
	IdleAfter time.Duration `mapstructure:"idle_after"` // inactivity before a session gets a reminder
	Schedule  string        `mapstructure:"schedule"`   // cron spec of the idle check, UTC
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", fmt.Errorf("%w: DATABASE_URL", ErrMissingEnvironmentVariables)
	}
	return db.URL, nil
}

// ValidateBot checks the secrets the bot cannot run without.
func (c *Config) ValidateBot() error {
	var missing []string
	if c.TelegramAPIToken == "" {
		missing = append(missing, "TELEGRAM_API_TOKEN")
	}
	if c.DB.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingEnvironmentVariables, strings.Join(missing, ", "))
	}
	return nil
}

// Load reads configuration from .env, config files and environment variables.
func Load() (*Config, error) {
	// A missing .env is fine, the environment may be set by other means.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("surahs_json_path", "assets/data/surahs.json")
	v.SetDefault("verses_db_path", "assets/data/quran.db")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30m")
	v.SetDefault("cache.quiz_ttl", "24h")
	v.SetDefault("reminders.enabled", true)
	v.SetDefault("reminders.idle_after", "24h")
	v.SetDefault("reminders.schedule", "0 * * * *")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_url", "REDIS_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	cfg.DB.URL = v.GetString("database_url")
	cfg.Cache.URL = v.GetString("redis_url")

	return &cfg, nil
}
