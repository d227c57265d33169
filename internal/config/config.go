// Package config provides configuration management for the put screener.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	apperrors "put-screener/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Scan        ScanConfig    `mapstructure:"scan"`
	Storage     StorageConfig `mapstructure:"storage"`
	Logging     LoggingConfig `mapstructure:"logging"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// ScanConfig holds scan filter defaults and chain retrieval parameters.
type ScanConfig struct {
	ROIMin             float64  `mapstructure:"roi_min"`
	ROIMax             float64  `mapstructure:"roi_max"`
	COPMin             float64  `mapstructure:"cop_min"`
	COPMax             float64  `mapstructure:"cop_max"`
	MinDTE             int      `mapstructure:"min_dte"`
	MaxDTE             int      `mapstructure:"max_dte"`
	MinBid             float64  `mapstructure:"min_bid"`
	EarningsWindowDays int      `mapstructure:"earnings_window_days"`
	Universe           []string `mapstructure:"universe"`
}

// StorageConfig holds watchlist database configuration.
type StorageConfig struct {
	DBPath      string `mapstructure:"db_path"`
	DefaultUser string `mapstructure:"default_user"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
}

// Credentials holds API credentials.
type Credentials struct {
	MarketData MarketDataCredentials `mapstructure:"marketdata"`
}

// MarketDataCredentials holds marketdata.app API credentials.
type MarketDataCredentials struct {
	Token   string `mapstructure:"token"`
	BaseURL string `mapstructure:"base_url"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/put-screener"
	}
	return filepath.Join(home, ".config", "put-screener")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir string, target *Config) error {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplateConfig(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("marketdata.base_url", "https://api.marketdata.app/v1")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		if err := createTemplateCredentials(configDir); err != nil {
			return err
		}
	}

	return v.Unmarshal(creds)
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("scan.roi_min", 0.20)
	v.SetDefault("scan.roi_max", 1.00)
	v.SetDefault("scan.cop_min", 0.70)
	v.SetDefault("scan.cop_max", 0.90)
	v.SetDefault("scan.min_dte", 1)
	v.SetDefault("scan.max_dte", 45)
	v.SetDefault("scan.min_bid", 0.05)
	v.SetDefault("scan.earnings_window_days", 30)
	v.SetDefault("storage.db_path", filepath.Join(configDir, "watchlists.db"))
	v.SetDefault("storage.default_user", "default")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", true)
	v.SetDefault("logging.file", true)
	v.SetDefault("logging.file_path", filepath.Join(configDir, "logs", "putscan.log"))
	v.SetDefault("logging.max_size", 50)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MARKETDATA_TOKEN"); v != "" {
		cfg.Credentials.MarketData.Token = v
	}
	if v := os.Getenv("MARKETDATA_BASE_URL"); v != "" {
		cfg.Credentials.MarketData.BaseURL = v
	}
	if v := os.Getenv("PUTSCAN_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Scan.ROIMin > c.Scan.ROIMax {
		return fmt.Errorf("%w: scan.roi_min (%g) exceeds scan.roi_max (%g)",
			apperrors.ErrConfigInvalid, c.Scan.ROIMin, c.Scan.ROIMax)
	}
	if c.Scan.COPMin > c.Scan.COPMax {
		return fmt.Errorf("%w: scan.cop_min (%g) exceeds scan.cop_max (%g)",
			apperrors.ErrConfigInvalid, c.Scan.COPMin, c.Scan.COPMax)
	}
	if c.Scan.COPMin < 0 || c.Scan.COPMax > 1 {
		return fmt.Errorf("%w: cop range must stay within [0,1]", apperrors.ErrConfigInvalid)
	}
	if c.Scan.EarningsWindowDays < 0 {
		return fmt.Errorf("%w: scan.earnings_window_days must not be negative", apperrors.ErrConfigInvalid)
	}
	return nil
}
