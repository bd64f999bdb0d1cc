// Package config handles application configuration management using Viper
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	str2duration "github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	DefaultAPIBaseURL = "http://localhost:9000"
	DefaultPort       = 8080
	DefaultTheme      = "dark"
	DefaultCacheSize  = 64
	DefaultCacheTTL   = "5m"
	DefaultTimeframe  = "1h"
	DefaultLogLevel   = "info"
)

// AppConfig holds the application configuration
type AppConfig struct {
	APIBaseURL string
	Port       int
	Theme      string
	Timeframe  string
	LogLevel   string
	Debug      bool

	Cache    CacheConfig
	Storage  StorageConfig
	Telegram TelegramConfig
}

// CacheConfig bounds the shared data-optimizer cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// StorageConfig selects the drawing persistence backend
type StorageConfig struct {
	// Driver is "buntdb" (file-backed) or "memory"; anything else
	// disables persistence. SQL persistence is available to embedders
	// through storage.FromSQL with their own dialector.
	Driver string
	Path   string
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	Enabled bool
	Token   string
	UserID  int64
}

// Load reads the configuration from environment variables with defaults.
func Load() (*AppConfig, error) {
	viper.AutomaticEnv()

	viper.SetDefault("CHARTVIEW_API_URL", DefaultAPIBaseURL)
	viper.SetDefault("CHARTVIEW_PORT", DefaultPort)
	viper.SetDefault("CHARTVIEW_THEME", DefaultTheme)
	viper.SetDefault("CHARTVIEW_TIMEFRAME", DefaultTimeframe)
	viper.SetDefault("CHARTVIEW_LOG_LEVEL", DefaultLogLevel)
	viper.SetDefault("CHARTVIEW_DEBUG", false)
	viper.SetDefault("CHARTVIEW_CACHE_SIZE", DefaultCacheSize)
	viper.SetDefault("CHARTVIEW_CACHE_TTL", DefaultCacheTTL)
	viper.SetDefault("CHARTVIEW_STORAGE_DRIVER", "buntdb")
	viper.SetDefault("CHARTVIEW_STORAGE_PATH", "./chartview.db")
	viper.SetDefault("TELEGRAM_ENABLED", false)

	ttl, err := str2duration.ParseDuration(viper.GetString("CHARTVIEW_CACHE_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid cache TTL: %w", err)
	}

	config := &AppConfig{
		APIBaseURL: viper.GetString("CHARTVIEW_API_URL"),
		Port:       viper.GetInt("CHARTVIEW_PORT"),
		Theme:      viper.GetString("CHARTVIEW_THEME"),
		Timeframe:  viper.GetString("CHARTVIEW_TIMEFRAME"),
		LogLevel:   viper.GetString("CHARTVIEW_LOG_LEVEL"),
		Debug:      viper.GetBool("CHARTVIEW_DEBUG"),
		Cache: CacheConfig{
			Size: viper.GetInt("CHARTVIEW_CACHE_SIZE"),
			TTL:  ttl,
		},
		Storage: StorageConfig{
			Driver: viper.GetString("CHARTVIEW_STORAGE_DRIVER"),
			Path:   viper.GetString("CHARTVIEW_STORAGE_PATH"),
		},
		Telegram: TelegramConfig{
			Enabled: viper.GetBool("TELEGRAM_ENABLED"),
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			UserID:  viper.GetInt64("TELEGRAM_USER"),
		},
	}

	return config, nil
}
