package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"socialpulse/adapters/excel"
	"socialpulse/domain/core"
	"socialpulse/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Decay     DecayConfig
	Synthetic SyntheticConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
	UIPort  string
}

// DataConfig holds the raw table locations and normalization settings
type DataConfig struct {
	Posts         excel.ExcelConfig
	Signals       excel.ExcelConfig
	SampleSize    int
	DeriveMetrics bool
}

// DecayConfig controls derivation of the signal table when none is configured
type DecayConfig struct {
	Rate float64
	AsOf time.Time // zero means the latest post date
}

// SyntheticConfig controls the generated dataset used when no post file is configured
type SyntheticConfig struct {
	Posts int
	Seed  int64
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	var p envParser
	sheet := getEnvOrDefault("SHEET_NAME", "")

	config := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8080"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
			UIPort:  getEnvOrDefault("UI_PORT", "8081"),
		},
		Data: DataConfig{
			Posts:         excel.ExcelConfig{FilePath: getEnvOrDefault("POSTS_FILE", ""), SheetName: sheet},
			Signals:       excel.ExcelConfig{FilePath: getEnvOrDefault("SIGNALS_FILE", ""), SheetName: sheet},
			SampleSize:    p.int("SAMPLE_SIZE", 100),
			DeriveMetrics: p.bool("DERIVE_METRICS", false),
		},
		Decay: DecayConfig{
			Rate: p.float("DECAY_RATE", 0.003),
			AsOf: p.date("DECAY_AS_OF"),
		},
		Synthetic: SyntheticConfig{
			Posts: p.int("SYNTHETIC_POSTS", 5000),
			Seed:  int64(p.int("SYNTHETIC_SEED", 42)),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: p.bool("PPROF_ENABLED", false),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
	if err := p.err(); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("PORT must be numeric, got %q", config.Server.Port))
	}
	if _, err := strconv.Atoi(config.Server.UIPort); err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("UI_PORT must be numeric, got %q", config.Server.UIPort))
	}
	if config.Profiling.Enabled {
		if _, err := strconv.Atoi(config.Profiling.Port); err != nil {
			return errors.ConfigInvalid(fmt.Sprintf("PPROF_PORT must be numeric, got %q", config.Profiling.Port))
		}
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	if config.Data.SampleSize <= 0 {
		return errors.ConfigInvalid("SAMPLE_SIZE must be positive")
	}
	if config.Decay.Rate <= 0 {
		return errors.ConfigInvalid("DECAY_RATE must be positive")
	}
	if config.Synthetic.Posts < 0 {
		return errors.ConfigInvalid("SYNTHETIC_POSTS cannot be negative")
	}
	for _, src := range []excel.ExcelConfig{config.Data.Posts, config.Data.Signals} {
		if src.Enabled() && excel.DetectFileType(src.FilePath) == "" {
			return errors.ConfigInvalid(fmt.Sprintf("unsupported data file %q (want .csv, .xlsx or .json)", src.FilePath))
		}
	}
	return nil
}

// envParser collects parse failures so every bad variable is reported at once.
type envParser struct {
	errs []error
}

func (p *envParser) fail(key, value, want string) {
	p.errs = append(p.errs, errors.ConfigInvalid(fmt.Sprintf("%s=%q is not a valid %s", key, value, want)))
}

func (p *envParser) err() error {
	return stderrors.Join(p.errs...)
}

func (p *envParser) int(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		p.fail(key, value, "integer")
		return defaultValue
	}
	return intValue
}

func (p *envParser) float(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.fail(key, value, "number")
		return defaultValue
	}
	return floatValue
}

func (p *envParser) bool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		p.fail(key, value, "boolean")
		return defaultValue
	}
	return boolValue
}

func (p *envParser) date(key string) time.Time {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return time.Time{}
	}
	t, ok := core.ParseCalendarDate(value)
	if !ok {
		p.fail(key, value, "date")
	}
	return t
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
