package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

type Config struct {
	ServiceName   string
	ServerAddress string

	DBName     string
	DBPassword string
	DBUser     string
	DBPort     string
	DBHost     string

	Env         string
	LogLevel    string
	HTTPTimeout int32

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	OpenWeatherLang    string
	OpenWeatherUnits   string
	RequestTimeout     time.Duration

	CacheTTLMinutes int
	CacheMaxEntries int

	RateLimitRPS   float64
	RateLimitBurst int

	BotToken                    string
	DefaultNotificationInterval int
	NotificationSweepMinutes    int

	StorageDriver string
	StorageFile   string
}

func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetDefault("SERVICE_NAME", "weather-bot")

	v.SetDefault("SERVER_ADDRESS", "0.0.0.0:5000")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_TIMEOUT", 30)
	v.SetDefault("OW_BASE_URL", "https://api.openweathermap.org")
	v.SetDefault("OW_LANG", "ru")
	v.SetDefault("OW_UNITS", "metric")
	v.SetDefault("REQUEST_TIMEOUT", 8)
	v.SetDefault("CACHE_TTL_MIN", 10)
	v.SetDefault("CACHE_MAX_ENTRIES", 1024)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
	v.SetDefault("DEFAULT_NOTIFICATIONS_INTERVAL_H", 2)
	v.SetDefault("NOTIFICATIONS_SWEEP_MIN", 5)
	v.SetDefault("STORAGE_DRIVER", StorageFile)
	v.SetDefault("STORAGE_FILE", "User_Data.json")

	v.AutomaticEnv()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Warn().Msg("No .env file found, using environment variables only")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Info().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	requestTimeout, err := parseTimeout(v.GetString("REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}

	config := &Config{
		ServiceName:                 v.GetString("SERVICE_NAME"),
		ServerAddress:               v.GetString("SERVER_ADDRESS"),
		DBName:                      v.GetString("DATABASE_NAME"),
		DBPassword:                  v.GetString("DATABASE_PASSWORD"),
		DBUser:                      v.GetString("DATABASE_USER"),
		DBPort:                      v.GetString("DATABASE_PORT"),
		DBHost:                      v.GetString("DATABASE_HOST"),
		Env:                         v.GetString("ENV"),
		LogLevel:                    v.GetString("LOG_LEVEL"),
		HTTPTimeout:                 v.GetInt32("HTTP_TIMEOUT"),
		OpenWeatherAPIKey:           v.GetString("OW_API_KEY"),
		OpenWeatherBaseURL:          v.GetString("OW_BASE_URL"),
		OpenWeatherLang:             v.GetString("OW_LANG"),
		OpenWeatherUnits:            v.GetString("OW_UNITS"),
		RequestTimeout:              requestTimeout,
		CacheTTLMinutes:             v.GetInt("CACHE_TTL_MIN"),
		CacheMaxEntries:             v.GetInt("CACHE_MAX_ENTRIES"),
		RateLimitRPS:                v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:              v.GetInt("RATE_LIMIT_BURST"),
		BotToken:                    v.GetString("BOT_TOKEN"),
		DefaultNotificationInterval: v.GetInt("DEFAULT_NOTIFICATIONS_INTERVAL_H"),
		NotificationSweepMinutes:    v.GetInt("NOTIFICATIONS_SWEEP_MIN"),
		StorageDriver:               v.GetString("STORAGE_DRIVER"),
		StorageFile:                 v.GetString("STORAGE_FILE"),
	}

	return config, nil
}

// parseTimeout reads whole seconds ("8") or a Go duration ("1500ms").
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if seconds, err := strconv.Atoi(raw); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

func (c *Config) HTTPTimeoutDuration() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// CacheTTL is the response cache lifetime, never shorter than a minute.
func (c *Config) CacheTTL() time.Duration {
	minutes := c.CacheTTLMinutes
	if minutes < 1 {
		minutes = 1
	}
	return time.Duration(minutes) * time.Minute
}

func (c *Config) NotificationSweepInterval() time.Duration {
	return time.Duration(c.NotificationSweepMinutes) * time.Minute
}

// ValidateServer checks the keys the HTTP API cannot start without.
func (c *Config) ValidateServer() error {
	if c.OpenWeatherAPIKey == "" {
		return errors.New("OW_API_KEY is required")
	}
	return nil
}

// ValidateBot checks the keys the chat bot cannot start without.
func (c *Config) ValidateBot() error {
	if err := c.ValidateServer(); err != nil {
		return err
	}
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is required")
	}

	switch c.StorageDriver {
	case StorageFile:
		if c.StorageFile == "" {
			return errors.New("STORAGE_FILE is required for the file storage driver")
		}
	case StoragePostgres:
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DATABASE_HOST and DATABASE_NAME are required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	return nil
}
