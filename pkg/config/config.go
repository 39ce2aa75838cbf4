// Package config provides configuration loading and validation for meterledger.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidCurrency       = errors.New("currency code must be a 3-letter ISO code")
	ErrInvalidDateFormat     = errors.New("date format must not be empty")
	ErrInvalidDatabasePath   = errors.New("database path must not be empty")
	ErrInvalidSampleRatio    = errors.New("trace sample ratio must be within [0, 1]")
	ErrInvalidShutdownWindow = errors.New("observability shutdown timeout must be positive")
)

// Default configuration values.
const (
	defaultCurrency           = "EUR"
	defaultDateFormat         = "2006-01-02"
	defaultDatabasePath       = "meterledger.db"
	defaultLogLevel           = "info"
	defaultLogFormat          = "text"
	defaultShutdownTimeoutSec = 5
	currencyCodeLength        = 3
)

// Config holds all configuration for the meterledger CLI.
type Config struct {
	Invoice       InvoiceConfig       `mapstructure:"invoice"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// InvoiceConfig holds invoice-presentation settings that the Python original
// hard-coded in constants.py (currency code, date formatting).
type InvoiceConfig struct {
	Currency         string `mapstructure:"currency"`
	DateFormat       string `mapstructure:"date_format"`
	NormalizeDefault bool   `mapstructure:"normalize_default"`
}

// DatabaseConfig holds the SQLite repository's connection settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig holds OpenTelemetry tracing/metrics settings.
type ObservabilityConfig struct {
	ServiceName        string  `mapstructure:"service_name"`
	Environment        string  `mapstructure:"environment"`
	SampleRatio        float64 `mapstructure:"sample_ratio"`
	ShutdownTimeoutSec int     `mapstructure:"shutdown_timeout_sec"`
	PrometheusAddr     string  `mapstructure:"prometheus_addr"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("config")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/meterledger")
	}

	viperCfg.SetEnvPrefix("METERLEDGER")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("invoice.currency", defaultCurrency)
	viperCfg.SetDefault("invoice.date_format", defaultDateFormat)
	viperCfg.SetDefault("invoice.normalize_default", true)

	viperCfg.SetDefault("database.path", defaultDatabasePath)

	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)

	viperCfg.SetDefault("observability.service_name", "meterledger")
	viperCfg.SetDefault("observability.sample_ratio", 0.0)
	viperCfg.SetDefault("observability.shutdown_timeout_sec", defaultShutdownTimeoutSec)
	viperCfg.SetDefault("observability.prometheus_addr", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if len(config.Invoice.Currency) != currencyCodeLength {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, config.Invoice.Currency)
	}

	if config.Invoice.DateFormat == "" {
		return ErrInvalidDateFormat
	}

	if config.Database.Path == "" {
		return ErrInvalidDatabasePath
	}

	if config.Observability.SampleRatio < 0 || config.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %f", ErrInvalidSampleRatio, config.Observability.SampleRatio)
	}

	if config.Observability.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidShutdownWindow, config.Observability.ShutdownTimeoutSec)
	}

	return nil
}
