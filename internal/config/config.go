package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"SERVER"`
	Security SecurityConfig `yaml:"security" envconfig:"SECURITY"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Dataset  DatasetConfig  `yaml:"dataset" envconfig:"DATASET"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration.
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// DatasetConfig contains dataset source configuration.
type DatasetConfig struct {
	// DefaultPath is the CSV (or XLSX) file served until an upload
	// overrides it for the session.
	DefaultPath string `yaml:"default_path" envconfig:"DEFAULT_PATH" default:"data/icp_segments_final.csv"`
	// MaxUploadBytes bounds the size of uploaded dataset files.
	MaxUploadBytes int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"33554432"`
}

// Load loads configuration from environment variables (prefix ICP) and an
// optional YAML file named by ICP_CONFIG_FILE (default config.yaml).
// Environment values take precedence over file values.
func Load() (*Config, error) {
	return LoadFrom(configFilePath())
}

// LoadFrom loads configuration using an explicit YAML file path. A missing
// file is not an error; defaults and environment variables apply.
func LoadFrom(configFile string) (*Config, error) {
	var fileCfg Config
	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			loaded, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			fileCfg = *loaded
		}
	}

	// Overlay the environment on top of the file values. envconfig fills
	// struct-tag defaults only for fields the file left at zero, so the
	// file wins over defaults and the environment wins over both.
	cfg := fileCfg
	if err := processEnv(&cfg, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// processEnv applies environment variables and defaults. envconfig would
// reset file-provided values back to tag defaults when the corresponding
// variable is unset, so defaults are resolved on a scratch struct and
// merged only into fields the file did not set.
func processEnv(cfg, fileCfg *Config) error {
	var envCfg Config
	if err := envconfig.Process("ICP", &envCfg); err != nil {
		return err
	}
	*cfg = envCfg

	// keepFile restores the file's value when the variable is not in the
	// environment and the file actually set the field.
	keepFile := func(envKey string, fileHasValue bool, apply func()) {
		if !envIsSet(envKey) && fileHasValue {
			apply()
		}
	}

	keepFile("ICP_SERVER_PORT", fileCfg.Server.Port != 0, func() { cfg.Server.Port = fileCfg.Server.Port })
	keepFile("ICP_SERVER_READ_TIMEOUT", fileCfg.Server.ReadTimeout != 0, func() { cfg.Server.ReadTimeout = fileCfg.Server.ReadTimeout })
	keepFile("ICP_SERVER_WRITE_TIMEOUT", fileCfg.Server.WriteTimeout != 0, func() { cfg.Server.WriteTimeout = fileCfg.Server.WriteTimeout })
	keepFile("ICP_SERVER_IDLE_TIMEOUT", fileCfg.Server.IdleTimeout != 0, func() { cfg.Server.IdleTimeout = fileCfg.Server.IdleTimeout })
	keepFile("ICP_SERVER_MAX_HEADER_BYTES", fileCfg.Server.MaxHeaderBytes != 0, func() { cfg.Server.MaxHeaderBytes = fileCfg.Server.MaxHeaderBytes })
	keepFile("ICP_SERVER_SHUTDOWN_TIMEOUT", fileCfg.Server.ShutdownTimeout != 0, func() { cfg.Server.ShutdownTimeout = fileCfg.Server.ShutdownTimeout })
	keepFile("ICP_SERVER_REQUEST_TIMEOUT", fileCfg.Server.RequestTimeout != 0, func() { cfg.Server.RequestTimeout = fileCfg.Server.RequestTimeout })
	keepFile("ICP_SECURITY_ALLOWED_ORIGINS", len(fileCfg.Security.AllowedOrigins) != 0, func() { cfg.Security.AllowedOrigins = fileCfg.Security.AllowedOrigins })
	keepFile("ICP_SECURITY_RATE_LIMIT_RPS", fileCfg.Security.RateLimit.RPS != 0, func() { cfg.Security.RateLimit.RPS = fileCfg.Security.RateLimit.RPS })
	keepFile("ICP_SECURITY_RATE_LIMIT_BURST", fileCfg.Security.RateLimit.Burst != 0, func() { cfg.Security.RateLimit.Burst = fileCfg.Security.RateLimit.Burst })
	keepFile("ICP_LOGGING_LEVEL", fileCfg.Logging.Level != "", func() { cfg.Logging.Level = fileCfg.Logging.Level })
	keepFile("ICP_LOGGING_OUTPUT", fileCfg.Logging.Output != "", func() { cfg.Logging.Output = fileCfg.Logging.Output })
	keepFile("ICP_LOGGING_FILE_PATH", fileCfg.Logging.FilePath != "", func() { cfg.Logging.FilePath = fileCfg.Logging.FilePath })
	keepFile("ICP_DATASET_DEFAULT_PATH", fileCfg.Dataset.DefaultPath != "", func() { cfg.Dataset.DefaultPath = fileCfg.Dataset.DefaultPath })
	keepFile("ICP_DATASET_MAX_UPLOAD_BYTES", fileCfg.Dataset.MaxUploadBytes != 0, func() { cfg.Dataset.MaxUploadBytes = fileCfg.Dataset.MaxUploadBytes })

	return nil
}

func envIsSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func configFilePath() string {
	if p := os.Getenv("ICP_CONFIG_FILE"); p != "" {
		return p
	}
	return "config.yaml"
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Dataset.DefaultPath == "" {
		return fmt.Errorf("dataset default path must not be empty")
	}
	if c.Dataset.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid max upload bytes: %d", c.Dataset.MaxUploadBytes)
	}
	if c.Security.RateLimit.Enabled && c.Security.RateLimit.RPS <= 0 {
		return fmt.Errorf("invalid rate limit rps: %f", c.Security.RateLimit.RPS)
	}
	return nil
}

// ResolvedDatasetPath returns the default dataset path as an absolute path.
func (c *Config) ResolvedDatasetPath() string {
	abs, err := filepath.Abs(c.Dataset.DefaultPath)
	if err != nil {
		return c.Dataset.DefaultPath
	}
	return abs
}
