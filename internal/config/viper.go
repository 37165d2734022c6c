// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"runtime"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable override,
// e.g. BUDGET_PROJECTION_CAP_MULTIPLIER.
const EnvPrefix = "BUDGET"

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// CSVConfig holds delimited-file settings shared by input and output.
type CSVConfig struct {
	Delimiter        string   `mapstructure:"delimiter" yaml:"delimiter"`
	TimestampFormats []string `mapstructure:"timestamp_formats" yaml:"timestamp_formats"`
	Timezone         string   `mapstructure:"timezone" yaml:"timezone"`
}

// LedgerConfig names the ledger columns the loader resolves.
type LedgerConfig struct {
	TimestampColumn string `mapstructure:"timestamp_column" yaml:"timestamp_column"`
	AmountColumn    string `mapstructure:"amount_column" yaml:"amount_column"`
	CategoryColumn  string `mapstructure:"category_column" yaml:"category_column"`
	// SenderColumn forces the identity column; empty means auto-detect.
	SenderColumn string `mapstructure:"sender_column" yaml:"sender_column"`
	// DetectSender enables identity column auto-detection.
	DetectSender bool `mapstructure:"detect_sender" yaml:"detect_sender"`
}

// ProjectionConfig tunes the hybrid budget projector.
type ProjectionConfig struct {
	Weights       []float64 `mapstructure:"weights" yaml:"weights"`
	CapMultiplier float64   `mapstructure:"cap_multiplier" yaml:"cap_multiplier"`
	Places        int32     `mapstructure:"places" yaml:"places"`
	Rounding      string    `mapstructure:"rounding" yaml:"rounding"`
	Workers       int       `mapstructure:"workers" yaml:"workers"`
}

// OutputConfig controls report rendering.
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	CSV        CSVConfig        `mapstructure:"csv" yaml:"csv"`
	Ledger     LedgerConfig     `mapstructure:"ledger" yaml:"ledger"`
	Projection ProjectionConfig `mapstructure:"projection" yaml:"projection"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
}

// Supported values
var (
	RoundingModes = []string{"half_up", "half_even"}
	OutputFormats = []string{"table", "csv", "json", "yaml"}
)

// InitializeConfig loads configuration with the precedence
// defaults < config file < BUDGET_* environment variables.
// When configFile is empty the file is searched as config.yaml in
// $HOME/.budget-csv, ./.budget-csv and the working directory.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.budget-csv")
		v.AddConfigPath(".budget-csv")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration obtained from defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults always decode.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")
	v.SetDefault("csv.timestamp_formats", []string{})
	v.SetDefault("csv.timezone", "UTC")

	v.SetDefault("ledger.timestamp_column", "timestamp")
	v.SetDefault("ledger.amount_column", "amount (INR)")
	v.SetDefault("ledger.category_column", "merchant_category")
	v.SetDefault("ledger.sender_column", "")
	v.SetDefault("ledger.detect_sender", true)

	v.SetDefault("projection.weights", []float64{0.2, 0.3, 0.5})
	v.SetDefault("projection.cap_multiplier", 1.25)
	v.SetDefault("projection.places", 2)
	v.SetDefault("projection.rounding", "half_up")
	v.SetDefault("projection.workers", 0)

	v.SetDefault("output.format", "table")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if _, err := time.LoadLocation(config.CSV.Timezone); err != nil {
		return fmt.Errorf("invalid csv.timezone: %s", config.CSV.Timezone)
	}

	if config.Ledger.TimestampColumn == "" || config.Ledger.AmountColumn == "" || config.Ledger.CategoryColumn == "" {
		return fmt.Errorf("ledger timestamp, amount and category columns must be set")
	}

	if err := validateWeights(config.Projection.Weights); err != nil {
		return err
	}

	if config.Projection.CapMultiplier <= 0 {
		return fmt.Errorf("projection.cap_multiplier must be positive, got: %g", config.Projection.CapMultiplier)
	}

	if config.Projection.Places < 0 || config.Projection.Places > 8 {
		return fmt.Errorf("projection.places must be between 0 and 8, got: %d", config.Projection.Places)
	}

	if !contains(RoundingModes, config.Projection.Rounding) {
		return fmt.Errorf("invalid projection.rounding: %s (must be one of %s)",
			config.Projection.Rounding, strings.Join(RoundingModes, ", "))
	}

	if config.Projection.Workers < 0 || config.Projection.Workers > 1024 {
		return fmt.Errorf("projection.workers must be between 0 and 1024, got: %d", config.Projection.Workers)
	}

	if !contains(OutputFormats, config.Output.Format) {
		return fmt.Errorf("invalid output format: %s (must be one of %s)",
			config.Output.Format, strings.Join(OutputFormats, ", "))
	}

	return nil
}

// validateWeights requires non-negative weights that add up to exactly one.
func validateWeights(weights []float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("projection.weights must not be empty")
	}
	total := decimal.Zero
	for _, w := range weights {
		if w < 0 {
			return fmt.Errorf("projection.weights must be non-negative, got: %g", w)
		}
		total = total.Add(decimal.NewFromFloat(w))
	}
	if !total.Equal(decimal.NewFromInt(1)) {
		return fmt.Errorf("projection.weights must sum to 1, got: %s", total.String())
	}
	return nil
}

// EffectiveWorkers resolves the projection worker count, 0 meaning one per CPU.
func (c *Config) EffectiveWorkers() int {
	if c.Projection.Workers > 0 {
		return c.Projection.Workers
	}
	return runtime.NumCPU()
}

// Location resolves csv.timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.CSV.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DelimiterRune returns the configured CSV delimiter.
func (c *Config) DelimiterRune() rune {
	r := []rune(c.CSV.Delimiter)
	if len(r) == 0 {
		return ','
	}
	return r[0]
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
