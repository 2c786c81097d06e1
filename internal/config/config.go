package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Intervals is the set of supported downsample intervals in seconds.
// 0 means no downsampling.
var Intervals = []int{0, 5, 10, 30, 60, 300, 600}

// Dedup policies for the merge step.
const (
	DedupTimestamp = "timestamp"
	DedupRow       = "row"
)

// Config represents the complete application configuration
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
}

// PipelineConfig controls normalization, downsampling, and merge behavior
type PipelineConfig struct {
	// IntervalSeconds is the downsample grid width; must be one of Intervals.
	IntervalSeconds int `yaml:"interval_seconds" envconfig:"INTERVAL_SECONDS" validate:"oneof=0 5 10 30 60 300 600"`
	// DedupPolicy is "timestamp" (one row per instant, first wins) or
	// "row" (full row equality).
	DedupPolicy string `yaml:"dedup_policy" envconfig:"DEDUP_POLICY" validate:"oneof=timestamp row"`
	// CriticalColumn, when present in a file, must be non-empty for a
	// downsampled row to be kept. The default is the circulating-water
	// flow column emitted by the plant loggers this tool was built for.
	CriticalColumn string `yaml:"critical_column" envconfig:"CRITICAL_COLUMN"`
	// MaxRowsPerFile bounds memory for pathological inputs.
	MaxRowsPerFile int `yaml:"max_rows_per_file" envconfig:"MAX_ROWS_PER_FILE" validate:"gt=0"`
	// IncludeTimestamp controls whether the derived datetime column is
	// written to the exported CSV.
	IncludeTimestamp bool `yaml:"include_timestamp" envconfig:"INCLUDE_TIMESTAMP"`
	// Workers bounds per-file parallelism during normalization.
	Workers int `yaml:"workers" envconfig:"WORKERS" validate:"gte=1"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	// MaxUploadBytes caps the total multipart upload size.
	MaxUploadBytes int64           `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
}

// Load loads configuration, lowest precedence first: built-in
// defaults, then the YAML config file when it exists, then
// environment variables.
func Load(configFile string) (*Config, error) {
	cfg := *Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := envconfig.Process("LOGMERGE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against the declared constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ValidInterval reports whether seconds is one of the supported
// downsample intervals.
func ValidInterval(seconds int) bool {
	for _, v := range Intervals {
		if v == seconds {
			return true
		}
	}
	return false
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			IntervalSeconds:  60,
			DedupPolicy:      DedupTimestamp,
			CriticalColumn:   "循環水流量",
			MaxRowsPerFile:   500000,
			IncludeTimestamp: true,
			Workers:          4,
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			MaxUploadBytes:  128 << 20,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     10,
				Burst:   5,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
