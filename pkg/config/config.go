// Package config loads service configuration from environment variables,
// optionally seeded from a .env or config.env file. Environment wins.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Config groups the service configuration.
type Config struct {
	App    AppConfig
	Log    LogConfig
	DB     DBConfig
	Report ReportConfig
	HTTP   HTTPConfig
}

// AppConfig holds general settings.
type AppConfig struct {
	Env  string // development, staging, production
	Port int
}

// IsDevelopment reports whether the service runs in development mode.
func (c AppConfig) IsDevelopment() bool {
	return c.Env == "" || c.Env == "development"
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// DBConfig holds PostgreSQL settings. An empty URL runs the service on the
// in-memory source.
type DBConfig struct {
	URL              string
	MaxConns         int
	MinConns         int
	StatementTimeout time.Duration
}

// ReportConfig holds report defaults.
type ReportConfig struct {
	DefaultSystemCode string
	Locale            string
	Timezone          string
	PageSize          int
	TargetUnit        string
	TargetAliases     []string
}

// Location resolves Timezone.
func (c ReportConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Language parses Locale as a BCP 47 tag.
func (c ReportConfig) Language() (language.Tag, error) {
	return language.Parse(c.Locale)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Compression     bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.App.Port)
}

// Load reads configuration from env vars and, if present, .env / config.env.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Port: getInt(v, "APP_PORT", 8080),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		DB: DBConfig{
			URL:              getString(v, "DATABASE_URL", ""),
			MaxConns:         getInt(v, "DB_MAX_CONNS", 10),
			MinConns:         getInt(v, "DB_MIN_CONNS", 2),
			StatementTimeout: getDuration(v, "DB_STATEMENT_TIMEOUT", 30*time.Second),
		},
		Report: ReportConfig{
			DefaultSystemCode: getString(v, "DEFAULT_SYSTEM_CODE", "FROZEN"),
			Locale:            getString(v, "REPORT_LOCALE", "vi"),
			Timezone:          getString(v, "REPORT_TIMEZONE", "Asia/Ho_Chi_Minh"),
			PageSize:          getInt(v, "REPORT_PAGE_SIZE", 1000),
			TargetUnit:        getString(v, "REPORT_TARGET_UNIT", "Kg"),
			TargetAliases:     getList(v, "REPORT_TARGET_ALIASES", []string{"kg", "kilogram", "ki-lo-gam", "kgs"}),
		},
		HTTP: HTTPConfig{
			Compression:     getBool(v, "HTTP_COMPRESSION", true),
			ReadTimeout:     getDuration(v, "HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDuration(v, "HTTP_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDuration(v, "HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.App.Port <= 0 {
		return fmt.Errorf("APP_PORT must be positive, got %d", c.App.Port)
	}
	if c.Report.PageSize <= 0 {
		return fmt.Errorf("REPORT_PAGE_SIZE must be positive, got %d", c.Report.PageSize)
	}
	if _, err := c.Report.Location(); err != nil {
		return fmt.Errorf("REPORT_TIMEZONE: %w", err)
	}
	if _, err := c.Report.Language(); err != nil {
		return fmt.Errorf("REPORT_LOCALE: %w", err)
	}
	if strings.TrimSpace(c.Report.DefaultSystemCode) == "" {
		return fmt.Errorf("DEFAULT_SYSTEM_CODE must not be empty")
	}
	return nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}

func getDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	if v.IsSet(key) {
		d, err := time.ParseDuration(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return d
	}
	return def
}

// getList reads a comma-separated list.
func getList(v *viper.Viper, key string, def []string) []string {
	if !v.IsSet(key) {
		return def
	}
	var out []string
	for _, part := range strings.Split(v.GetString(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
