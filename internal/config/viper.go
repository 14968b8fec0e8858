// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. INTAKE_LOG_LEVEL.
const EnvPrefix = "INTAKE"

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Banks struct {
		Default    string `mapstructure:"default" yaml:"default"`
		SchemaFile string `mapstructure:"schema_file" yaml:"schema_file"`
	} `mapstructure:"banks" yaml:"banks"`

	Extraction struct {
		MinBlockLength int    `mapstructure:"min_block_length" yaml:"min_block_length"`
		MatchPolicy    string `mapstructure:"match_policy" yaml:"match_policy"`
	} `mapstructure:"extraction" yaml:"extraction"`

	Database struct {
		Driver string `mapstructure:"driver" yaml:"driver"`
		DSN    string `mapstructure:"dsn" yaml:"-"` // may carry credentials
	} `mapstructure:"database" yaml:"database"`

	Storage struct {
		UploadDir string `mapstructure:"upload_dir" yaml:"upload_dir"`
		BaseURL   string `mapstructure:"base_url" yaml:"base_url"`
	} `mapstructure:"storage" yaml:"storage"`

	Upload struct {
		MaxFileSizeMB int `mapstructure:"max_file_size_mb" yaml:"max_file_size_mb"`
	} `mapstructure:"upload" yaml:"upload"`

	PDF struct {
		PdftotextPath  string `mapstructure:"pdftotext_path" yaml:"pdftotext_path"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	} `mapstructure:"pdf" yaml:"pdf"`

	Conversation struct {
		DefaultChatID string `mapstructure:"default_chat_id" yaml:"default_chat_id"`
	} `mapstructure:"conversation" yaml:"conversation"`
}

// MaxFileSizeBytes returns the upload cap in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Upload.MaxFileSizeMB) << 20
}

// PDFTimeout returns the pdftotext time limit.
func (c *Config) PDFTimeout() time.Duration {
	return time.Duration(c.PDF.TimeoutSeconds) * time.Second
}

// InitializeConfig initializes Viper configuration with hierarchical loading
func InitializeConfig() (*Config, error) {
	return LoadConfig("")
}

// LoadConfig loads configuration from defaults, an optional config file and
// the environment. An empty configFile searches the standard locations.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.product-intake")
		v.AddConfigPath(".product-intake")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional unless named explicitly)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("banks.default", "BCA")
	v.SetDefault("banks.schema_file", "")

	v.SetDefault("extraction.min_block_length", 20)
	v.SetDefault("extraction.match_policy", "last")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "product-intake.db")

	v.SetDefault("storage.upload_dir", "uploads")
	v.SetDefault("storage.base_url", "/uploads")

	v.SetDefault("upload.max_file_size_mb", 10)

	v.SetDefault("pdf.pdftotext_path", "pdftotext")
	v.SetDefault("pdf.timeout_seconds", 15)

	v.SetDefault("conversation.default_chat_id", "console")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if strings.TrimSpace(config.Banks.Default) == "" {
		return fmt.Errorf("banks.default must not be empty")
	}

	switch strings.ToLower(config.Extraction.MatchPolicy) {
	case "first", "last":
	default:
		return fmt.Errorf("invalid extraction.match_policy: %s (must be 'first' or 'last')", config.Extraction.MatchPolicy)
	}

	if config.Extraction.MinBlockLength < 1 {
		return fmt.Errorf("extraction.min_block_length must be positive, got: %d", config.Extraction.MinBlockLength)
	}

	switch config.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("invalid database.driver: %s (must be 'sqlite' or 'postgres')", config.Database.Driver)
	}
	if config.Database.DSN == "" {
		return fmt.Errorf("database.dsn must not be empty")
	}

	if config.Upload.MaxFileSizeMB < 1 {
		return fmt.Errorf("upload.max_file_size_mb must be positive, got: %d", config.Upload.MaxFileSizeMB)
	}

	if config.PDF.TimeoutSeconds < 1 || config.PDF.TimeoutSeconds > 300 {
		return fmt.Errorf("pdf.timeout_seconds must be between 1 and 300, got: %d", config.PDF.TimeoutSeconds)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
