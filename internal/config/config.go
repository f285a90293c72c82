// Package config loads the application configuration from environment
// variables (prefix PAYEQ) and an optional YAML file. Environment
// variables take precedence over the file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS"`
	Burst   int     `yaml:"burst" envconfig:"BURST"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Format      string `yaml:"format" envconfig:"FORMAT"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// AnalysisConfig carries the statistical defaults applied when a
// request does not override them.
type AnalysisConfig struct {
	Alpha                float64 `yaml:"alpha" envconfig:"ALPHA"`
	GapThreshold         float64 `yaml:"gap_threshold" envconfig:"GAP_THRESHOLD"`
	MaxCleanupRounds     int     `yaml:"max_cleanup_rounds" envconfig:"MAX_CLEANUP_ROUNDS"`
	AgeMin               int     `yaml:"age_min" envconfig:"AGE_MIN"`
	AgeMax               int     `yaml:"age_max" envconfig:"AGE_MAX"`
	SalaryMin            float64 `yaml:"salary_min" envconfig:"SALARY_MIN"`
	SalaryMax            float64 `yaml:"salary_max" envconfig:"SALARY_MAX"`
	AcceptPartialOnAbort bool    `yaml:"accept_partial_on_abort" envconfig:"ACCEPT_PARTIAL_ON_ABORT"`
}

// Load loads configuration from environment variables and, if present,
// a YAML config file.
func Load() (*Config, error) {
	cfg := Default()

	// The YAML file overlays the defaults, the environment overlays both.
	if path := configFilePath(); path != "" {
		if err := overlayFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}
	if err := envconfig.Process("PAYEQ", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func overlayFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return fmt.Errorf("analysis alpha must be in (0, 1), got %v", c.Analysis.Alpha)
	}
	if c.Analysis.GapThreshold <= 0 {
		return fmt.Errorf("analysis gap threshold must be positive, got %v", c.Analysis.GapThreshold)
	}
	if c.Analysis.MaxCleanupRounds < 1 {
		return fmt.Errorf("analysis max cleanup rounds must be at least 1")
	}
	if c.Analysis.AgeMin <= 0 || c.Analysis.AgeMax <= c.Analysis.AgeMin {
		return fmt.Errorf("analysis age band [%d, %d] is invalid", c.Analysis.AgeMin, c.Analysis.AgeMax)
	}
	if c.Analysis.SalaryMin <= 0 || c.Analysis.SalaryMax <= c.Analysis.SalaryMin {
		return fmt.Errorf("analysis salary band [%v, %v] is invalid", c.Analysis.SalaryMin, c.Analysis.SalaryMax)
	}

	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "stdout" && c.Logging.Output != "file" && c.Logging.Output != "both" {
		c.Logging.Output = "stdout"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	return nil
}

// configFilePath returns the first config file found in the common
// locations, or empty when only env vars apply.
func configFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  60 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "logs/app.log",
		},
		Analysis: AnalysisConfig{
			Alpha:            0.05,
			GapThreshold:     0.05,
			MaxCleanupRounds: 10,
			AgeMin:           14,
			AgeMax:           70,
			SalaryMin:        100,
			SalaryMax:        1_000_000,
		},
	}
}
