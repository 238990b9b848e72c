package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ListenPort is the HTTP port. 0 lets the OS assign one.
	ListenPort int `mapstructure:"ListenPort"`

	// ManifestPath points at a manifest file or a directory of .hcl files.
	ManifestPath string `mapstructure:"ManifestPath"`

	LogFormat     string `mapstructure:"LogFormat"`
	LogLevel      string `mapstructure:"LogLevel"`
	LogFile       string `mapstructure:"LogFile"`
	LogMaxSize    int    `mapstructure:"LogMaxSize"` // megabytes
	LogMaxBackups int    `mapstructure:"LogMaxBackups"`
	LogCompress   bool   `mapstructure:"LogCompress"`

	// ShutdownTimeout bounds graceful shutdown on termination signals.
	ShutdownTimeout time.Duration `mapstructure:"ShutdownTimeout"`

	// Flags are module flags set before the server accepts traffic.
	Flags []string `mapstructure:"Flags"`
}

// Default returns the built-in configuration, before any file or flag
// overrides.
func Default() Config {
	return Config{
		ListenPort:      8080,
		LogFormat:       "json",
		LogLevel:        "info",
		LogMaxSize:      100,
		LogMaxBackups:   10,
		LogCompress:     true,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads a TOML configuration file over the defaults. The result is
// not yet validated; callers finish with New after applying their own
// overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return Config{}, fmt.Errorf("failed to decode config file: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("ListenPort", def.ListenPort)
	v.SetDefault("LogFormat", def.LogFormat)
	v.SetDefault("LogLevel", def.LogLevel)
	v.SetDefault("LogFile", def.LogFile)
	v.SetDefault("LogMaxSize", def.LogMaxSize)
	v.SetDefault("LogMaxBackups", def.LogMaxBackups)
	v.SetDefault("LogCompress", def.LogCompress)
	v.SetDefault("ShutdownTimeout", def.ShutdownTimeout)
}

// New validates the assembled configuration and returns it.
func New(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	if cfg.ListenPort < 0 || cfg.ListenPort > 65535 {
		return nil, fmt.Errorf("ListenPort must be between 0 and 65535, got %d", cfg.ListenPort)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, errors.New("invalid LogFormat: must be 'text' or 'json'")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, errors.New("invalid LogLevel: must be 'debug', 'info', 'warn', or 'error'")
	}
	if cfg.ShutdownTimeout < 0 {
		return nil, errors.New("ShutdownTimeout cannot be negative")
	}
	return &cfg, nil
}
