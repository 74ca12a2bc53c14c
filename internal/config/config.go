package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dekadapp/dekad/internal/compare"
)

// Config is the root configuration structure.
// It is read-only after Load() returns and thread-safe for concurrent reads.
type Config struct {
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Auth       AuthConfig     `yaml:"auth"`
	Worker     WorkerConfig   `yaml:"worker"`
	Log        LogConfig      `yaml:"log"`
	Backup     BackupConfig   `yaml:"backup"`
	Comparison compare.Tuning `yaml:"comparison"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig contains authentication settings.
type AuthConfig struct {
	APIKey string `yaml:"-"` // env-only, never in YAML
}

// WorkerConfig contains background worker settings.
type WorkerConfig struct {
	SeedInterval   Duration `yaml:"seed_interval"`
	BackupInterval Duration `yaml:"backup_interval"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// BackupConfig contains local snapshot and S3-compatible upload settings.
// An empty Bucket keeps backups local-only.
type BackupConfig struct {
	Dir       string   `yaml:"dir"`
	Bucket    string   `yaml:"bucket"`
	Prefix    string   `yaml:"prefix"`
	Endpoint  string   `yaml:"endpoint"`
	Region    string   `yaml:"region"`
	AccessKey string   `yaml:"-"` // env-only, never in YAML
	SecretKey string   `yaml:"-"` // env-only, never in YAML
	UseSSL    *bool    `yaml:"use_ssl"`
	URLExpiry Duration `yaml:"url_expiry"`

	// Circuit breaker around uploads.
	FailureThreshold uint32   `yaml:"failure_threshold"`
	BreakerTimeout   Duration `yaml:"breaker_timeout"`
}

// Duration is a wrapper around time.Duration that supports YAML string parsing.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load loads configuration with precedence: defaults → YAML file → env vars.
// A .env file in the working directory (or DEKAD_ENV_FILE) is loaded into the
// environment first; variables already set are never replaced.
// Returns an immutable Config suitable for concurrent read access.
func Load() (*Config, error) {
	return load(true)
}

// LoadLocal loads configuration for the offline CLI commands. Sources and
// checks are the same as Load except that no API key is required.
func LoadLocal() (*Config, error) {
	return load(false)
}

func load(requireAuth bool) (*Config, error) {
	if err := loadDotEnv(getEnv("DEKAD_ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := newDefaults()

	// Determine config path
	configPath := getEnv("DEKAD_CONFIG_PATH", "config/dekad.yaml")

	// Load YAML file if it exists (missing file is not an error)
	if err := loadYAMLFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if requireAuth {
		if err := cfg.validateAuth(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a specific path.
// Used for testing and explicit path specification.
func LoadFromFile(path string) (*Config, error) {
	cfg := newDefaults()

	// Load YAML file (file must exist for this function)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := cfg.validateAuth(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// newDefaults returns a Config with all default values.
func newDefaults() *Config {
	useSSL := true
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(30 * time.Second),
			ShutdownTimeout: Duration(15 * time.Second),
		},
		Database: DatabaseConfig{
			Path: "data/dekad.db",
		},
		Worker: WorkerConfig{
			SeedInterval:   Duration(6 * time.Hour),
			BackupInterval: Duration(24 * time.Hour),
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Backup: BackupConfig{
			Dir:              "data/backups",
			Prefix:           "dekad",
			Region:           "us-east-1",
			UseSSL:           &useSSL,
			URLExpiry:        Duration(15 * time.Minute),
			FailureThreshold: 3,
			BreakerTimeout:   Duration(5 * time.Minute),
		},
		Comparison: compare.DefaultTuning(),
	}
}

// loadDotEnv loads a dotenv file if it exists.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// loadYAMLFile loads configuration from a YAML file if it exists.
// Missing file is not an error; we just use defaults.
func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Only non-empty env vars override config values.
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("DEKAD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	setDuration("DEKAD_READ_TIMEOUT", &cfg.Server.ReadTimeout)
	setDuration("DEKAD_WRITE_TIMEOUT", &cfg.Server.WriteTimeout)
	setDuration("DEKAD_SHUTDOWN_TIMEOUT", &cfg.Server.ShutdownTimeout)

	// Database
	if v := os.Getenv("DEKAD_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Auth
	if v := os.Getenv("DEKAD_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}

	// Worker
	setDuration("DEKAD_SEED_INTERVAL", &cfg.Worker.SeedInterval)
	setDuration("DEKAD_BACKUP_INTERVAL", &cfg.Worker.BackupInterval)

	// Log
	if v := os.Getenv("DEKAD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("DEKAD_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}

	// Backup
	if v := os.Getenv("DEKAD_BACKUP_DIR"); v != "" {
		cfg.Backup.Dir = v
	}
	if v := os.Getenv("DEKAD_BACKUP_BUCKET"); v != "" {
		cfg.Backup.Bucket = v
	}
	if v := os.Getenv("DEKAD_BACKUP_PREFIX"); v != "" {
		cfg.Backup.Prefix = v
	}
	if v := os.Getenv("DEKAD_S3_ENDPOINT"); v != "" {
		cfg.Backup.Endpoint = v
	}
	if v := os.Getenv("DEKAD_S3_REGION"); v != "" {
		cfg.Backup.Region = v
	}
	if v := os.Getenv("DEKAD_S3_ACCESS_KEY"); v != "" {
		cfg.Backup.AccessKey = v
	}
	if v := os.Getenv("DEKAD_S3_SECRET_KEY"); v != "" {
		cfg.Backup.SecretKey = v
	}
	if v := os.Getenv("DEKAD_S3_USE_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Backup.UseSSL = &b
		}
	}
	setDuration("DEKAD_S3_URL_EXPIRY", &cfg.Backup.URLExpiry)
	if v := os.Getenv("DEKAD_BACKUP_FAILURE_THRESHOLD"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.Backup.FailureThreshold = uint32(n)
		}
	}
	setDuration("DEKAD_BACKUP_BREAKER_TIMEOUT", &cfg.Backup.BreakerTimeout)
}

func setDuration(key string, dst *Duration) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = Duration(d)
		}
	}
}

// validate checks that configuration values are consistent.
func (c *Config) validate() error {
	t := c.Comparison
	if t.FairMin > t.GoodMin || t.GoodMin > t.ExcellentMin {
		return fmt.Errorf("comparison thresholds must satisfy fair_min <= good_min <= excellent_min, got %d, %d, %d",
			t.FairMin, t.GoodMin, t.ExcellentMin)
	}
	if t.MoodScale <= 0 || t.EnergyScale <= 0 || t.CompletionScale <= 0 {
		return errors.New("comparison scale factors must be positive")
	}

	if c.Backup.Bucket != "" && c.Backup.Endpoint == "" {
		return errors.New("DEKAD_S3_ENDPOINT is required when a backup bucket is set")
	}
	return nil
}

// validateAuth checks that the API key is set.
// In dev mode (DEKAD_DEV_MODE=true), API key validation is skipped.
func (c *Config) validateAuth() error {
	// Dev mode bypasses API key validation
	if os.Getenv("DEKAD_DEV_MODE") == "true" {
		return nil
	}

	if c.Auth.APIKey == "" {
		return errors.New("DEKAD_API_KEY is required")
	}
	return nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
