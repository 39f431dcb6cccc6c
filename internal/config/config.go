// Package config provides configuration loading and validation for the CLI and the local server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override (CVB_PORT, CVB_DATA_DIR, ...).
const EnvPrefix = "CVB"

// Defaults.
const (
	DefaultStorageBackend = "file"
	DefaultLanguage       = "es"
	DefaultTemplate       = "classic"
	DefaultAccentColor    = "#2563eb"
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8787
	DefaultChromeTimeout  = 30 * time.Second
	DefaultLogEnv         = "development"
)

// Config represents the configuration read from an optional JSON/YAML file and CVB_*
// environment variables. All fields are optional; missing values use defaults.
type Config struct {
	// Storage
	DataDir        string `mapstructure:"data_dir" json:"data_dir,omitempty"`
	StorageBackend string `mapstructure:"storage_backend" json:"storage_backend,omitempty" validate:"omitempty,oneof=file postgres memory"`
	DatabaseURL    string `mapstructure:"database_url" json:"database_url,omitempty" validate:"required_if=StorageBackend postgres"`

	// Initial preferences for a fresh profile
	Language    string `mapstructure:"language" json:"language,omitempty" validate:"omitempty,oneof=es en fr"`
	Template    string `mapstructure:"template" json:"template,omitempty"`
	AccentColor string `mapstructure:"accent_color" json:"accent_color,omitempty" validate:"omitempty,hexcolor"`

	// Local server
	Host string `mapstructure:"host" json:"host,omitempty"`
	Port int    `mapstructure:"port" json:"port,omitempty" validate:"min=0,max=65535"`

	// Headless browser for measuring and PDF printing
	UseBrowser    bool          `mapstructure:"use_browser" json:"use_browser,omitempty"`
	ChromePath    string        `mapstructure:"chrome_path" json:"chrome_path,omitempty"`
	ChromeTimeout time.Duration `mapstructure:"chrome_timeout" json:"chrome_timeout,omitempty" validate:"min=0"`

	// Behavior
	LogEnv  string `mapstructure:"log_env" json:"log_env,omitempty" validate:"omitempty,oneof=development production"`
	Verbose bool   `mapstructure:"verbose" json:"verbose,omitempty"`
}

var validate = newValidator()

// newValidator reports fields by their config key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
	})
	return v
}

// keys lists every configuration key; each is bound to CVB_<KEY>.
var keys = []string{
	"data_dir", "storage_backend", "database_url",
	"language", "template", "accent_color",
	"host", "port",
	"use_browser", "chrome_path", "chrome_timeout",
	"log_env", "verbose",
}

// Load reads the config file at path (if non-empty) and applies CVB_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get current directory: %w", err)
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
			}
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("storage_backend", DefaultStorageBackend)
	v.SetDefault("database_url", "")
	v.SetDefault("language", DefaultLanguage)
	v.SetDefault("template", DefaultTemplate)
	v.SetDefault("accent_color", DefaultAccentColor)
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("use_browser", false)
	v.SetDefault("chrome_path", "")
	v.SetDefault("chrome_timeout", DefaultChromeTimeout)
	v.SetDefault("log_env", DefaultLogEnv)
	v.SetDefault("verbose", false)
}

func bindEnv(v *viper.Viper) error {
	for _, key := range keys {
		env := EnvPrefix + "_" + strings.ToUpper(key)
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind %s to %s: %w", key, env, err)
		}
	}
	return nil
}

// DefaultDataDir is the per-user directory holding the local profile.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cv-builder")
	}
	return ".cv-builder"
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("config error: '%s' failed the '%s' check", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// Addr returns host:port for the local server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.StorageBackend == "" {
		result.StorageBackend = defaults.StorageBackend
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.AccentColor == "" {
		result.AccentColor = defaults.AccentColor
	}
	if result.Host == "" {
		result.Host = defaults.Host
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}
	if result.LogEnv == "" {
		result.LogEnv = defaults.LogEnv
	}

	// Numeric fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.ChromeTimeout == 0 {
		result.ChromeTimeout = defaults.ChromeTimeout
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
