package config

import (
	"os"
	"strconv"
	"strings"

	"whrlab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data    DataConfig
	Output  OutputConfig
	Views   ViewConfig
	Logging LoggingConfig
}

// DataConfig holds input file settings
type DataConfig struct {
	File          string   // WHR csv or xlsx
	GapFile       string   // optional long-format gap table for the faceted view
	Sheet         string   // workbook sheet for xlsx inputs; first sheet when empty
	MissingTokens []string // cell texts read as missing in numeric columns; loader default when empty
}

// OutputConfig holds figure export settings
type OutputConfig struct {
	Dir    string
	Width  int
	Height int
}

// ViewConfig holds analysis parameters shared by the view builders
type ViewConfig struct {
	ScatterYear      int
	BandwidthFactor  float64
	HistogramBins    int
	HistogramBinSize float64
}

// LoggingConfig holds log settings
type LoggingConfig struct {
	Level string
	Human bool
}

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:    "figures",
			Width:  800,
			Height: 500,
		},
		Views: ViewConfig{
			ScatterYear:     2022,
			BandwidthFactor: 0.25,
			HistogramBins:   30,
		},
		Logging: LoggingConfig{
			Level: "info",
			Human: true,
		},
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := FromEnv()
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// FromEnv reads configuration from environment variables without
// validating, for callers that apply overrides first
func FromEnv() *Config {
	config := Default()

	config.Data = *loadDataConfig()
	config.Output = *loadOutputConfig(config.Output)
	config.Views = *loadViewConfig(config.Views)
	config.Logging = *loadLoggingConfig(config.Logging)

	return config
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		File:    getEnvOrDefault("WHR_DATA_FILE", ""),
		GapFile: getEnvOrDefault("WHR_GAP_FILE", ""),
		Sheet:   getEnvOrDefault("WHR_DATA_SHEET", ""),

		MissingTokens: getEnvListOrDefault("WHR_MISSING_TOKENS", nil),
	}
}

func loadOutputConfig(defaults OutputConfig) *OutputConfig {
	return &OutputConfig{
		Dir:    getEnvOrDefault("WHR_OUTPUT_DIR", defaults.Dir),
		Width:  getEnvIntOrDefault("WHR_FIGURE_WIDTH", defaults.Width),
		Height: getEnvIntOrDefault("WHR_FIGURE_HEIGHT", defaults.Height),
	}
}

func loadViewConfig(defaults ViewConfig) *ViewConfig {
	return &ViewConfig{
		ScatterYear:      getEnvIntOrDefault("WHR_SCATTER_YEAR", defaults.ScatterYear),
		BandwidthFactor:  getEnvFloatOrDefault("WHR_KDE_BANDWIDTH", defaults.BandwidthFactor),
		HistogramBins:    getEnvIntOrDefault("WHR_HIST_BINS", defaults.HistogramBins),
		HistogramBinSize: getEnvFloatOrDefault("WHR_HIST_BIN_WIDTH", defaults.HistogramBinSize),
	}
}

func loadLoggingConfig(defaults LoggingConfig) *LoggingConfig {
	return &LoggingConfig{
		Level: getEnvOrDefault("WHR_LOG_LEVEL", defaults.Level),
		Human: getEnvBoolOrDefault("WHR_LOG_HUMAN", defaults.Human),
	}
}

// Validate checks value ranges. The data file is checked by the commands
// that need it.
func (c *Config) Validate() error {
	if c.Views.BandwidthFactor <= 0 || c.Views.BandwidthFactor > 1 {
		return errors.Newf(errors.CodeConfigInvalid, "KDE bandwidth factor must be in (0, 1], got %g", c.Views.BandwidthFactor)
	}
	if c.Views.HistogramBins <= 0 {
		return errors.Newf(errors.CodeConfigInvalid, "histogram bins must be positive, got %d", c.Views.HistogramBins)
	}
	if c.Views.HistogramBinSize < 0 {
		return errors.Newf(errors.CodeConfigInvalid, "histogram bin width must not be negative, got %g", c.Views.HistogramBinSize)
	}
	if c.Output.Width <= 0 || c.Output.Height <= 0 {
		return errors.Newf(errors.CodeConfigInvalid, "figure size must be positive, got %dx%d", c.Output.Width, c.Output.Height)
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma-separated value. Items are kept
// as written, so " NA" and "NA" differ.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	return strings.Split(value, ",")
}
