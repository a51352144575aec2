// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding configuration
// keys, e.g. PAGEUTILS_FILL_SCOPE for fill.scope.
const EnvPrefix = "PAGEUTILS"

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Runtime() RuntimeConfig
	Fill() FillConfig
	Page() PageConfig

	SetFillScope(scope string)
	SetScriptTimeout(d time.Duration)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	RuntimeCfg RuntimeConfig `mapstructure:"runtime" yaml:"runtime"`
	FillCfg    FillConfig    `mapstructure:"fill" yaml:"fill"`
	PageCfg    PageConfig    `mapstructure:"page" yaml:"page"`
}

// --- Interface Method Implementations (Getters) ---

func (c *Config) Logger() LoggerConfig   { return c.LoggerCfg }
func (c *Config) Runtime() RuntimeConfig { return c.RuntimeCfg }
func (c *Config) Fill() FillConfig       { return c.FillCfg }
func (c *Config) Page() PageConfig       { return c.PageCfg }

// --- Interface Method Implementations (Setters) ---

// SetFillScope overrides fill.scope, typically from a CLI flag.
func (c *Config) SetFillScope(scope string) { c.FillCfg.Scope = scope }

// SetScriptTimeout overrides runtime.script_timeout.
func (c *Config) SetScriptTimeout(d time.Duration) { c.RuntimeCfg.ScriptTimeout = d }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// RuntimeConfig configures the script runtime.
type RuntimeConfig struct {
	// ScriptTimeout bounds a script when the caller sets no deadline.
	ScriptTimeout time.Duration `mapstructure:"script_timeout" yaml:"script_timeout"`
	// UtilsGlobal is the global name of the utilities namespace.
	UtilsGlobal string `mapstructure:"utils_global" yaml:"utils_global"`
}

// FillConfig configures form filling.
type FillConfig struct {
	// Scope is "form" (fields owned by the form) or "document" (any field
	// with the name).
	Scope string `mapstructure:"scope" yaml:"scope"`
}

// PageConfig configures how pages are read and results written.
type PageConfig struct {
	// MaxSize caps the size of an input page in bytes.
	MaxSize int64 `mapstructure:"max_size" yaml:"max_size"`
	// Pretty indents JSON results.
	Pretty bool `mapstructure:"pretty" yaml:"pretty"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "pageutils")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Runtime --
	v.SetDefault("runtime.script_timeout", "30s")
	v.SetDefault("runtime.utils_global", "__utils__")

	// -- Fill --
	v.SetDefault("fill.scope", "form")

	// -- Page --
	v.SetDefault("page.max_size", 32<<20)
	v.SetDefault("page.pretty", false)
}

// BindEnv makes every configuration key overridable from PAGEUTILS_*
// environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.RuntimeCfg.ScriptTimeout <= 0 {
		return fmt.Errorf("runtime.script_timeout must be a positive duration")
	}
	if strings.TrimSpace(c.RuntimeCfg.UtilsGlobal) == "" {
		return fmt.Errorf("runtime.utils_global must not be empty")
	}
	if err := c.FillCfg.Validate(); err != nil {
		return fmt.Errorf("fill configuration invalid: %w", err)
	}
	if c.PageCfg.MaxSize <= 0 {
		return fmt.Errorf("page.max_size must be a positive integer")
	}
	return nil
}

// Validate checks the fill scope.
func (f *FillConfig) Validate() error {
	switch strings.ToLower(strings.TrimSpace(f.Scope)) {
	case "form", "document":
		return nil
	default:
		return fmt.Errorf("scope must be \"form\" or \"document\", got %q", f.Scope)
	}
}
