package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "TRANSFER"

// Config represents the complete application configuration
type Config struct {
	Threshold float64       `yaml:"threshold" envconfig:"THRESHOLD" validate:"gt=0"`
	Format    string        `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json csv xlsx html"`
	OutputDir string        `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	Sheet     string        `yaml:"sheet" envconfig:"SHEET"`
	Logging   LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Server    ServerConfig  `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Pretty bool   `yaml:"pretty" envconfig:"PRETTY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" validate:"required"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" validate:"gt=0"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RetainedRuns    int           `yaml:"retained_runs" envconfig:"RETAINED_RUNS" validate:"gte=0"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Threshold: 1.2,
		Format:    "text",
		Logging: LoggingConfig{
			Level: "info",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxUploadBytes:  32 << 20,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RetainedRuns:    100,
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file named by
// TRANSFER_CONFIG, and TRANSFER_* environment variables, in increasing
// precedence. A .env file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv(EnvPrefix + "_CONFIG"); path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are set override; there are no default tags.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays values from a YAML file onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Validate checks every field against its constraints
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Errorf("config validation failed: %s must satisfy %s=%s, got %v",
				fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("config validation failed: %s must satisfy %s, got %v",
			fe.Namespace(), fe.Tag(), fe.Value())
	}
	return fmt.Errorf("config validation failed: %w", err)
}

// ThresholdDecimal returns the safety stock threshold as an exact decimal
func (c *Config) ThresholdDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.Threshold)
}
