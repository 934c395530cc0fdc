package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the students API the client talks to out of the box.
const DefaultBaseURL = "https://mate.academy/students-api"

// APIConfig holds settings for the remote todo API.
type APIConfig struct {
	// BaseURL is the root URL of the todo collection service.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Timeout bounds a single request. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// UserConfig identifies the owner of the todos for this session.
type UserConfig struct {
	ID int `mapstructure:"id" yaml:"id"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	// Filter is the filter applied at startup.
	Filter string `mapstructure:"filter" yaml:"filter"`

	// ErrorTimeout is how long an error banner stays visible.
	ErrorTimeout time.Duration `mapstructure:"error_timeout" yaml:"error_timeout"`
}

// LogConfig controls the log file.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	User    UserConfig    `mapstructure:"user" yaml:"user"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// NeedsSetup reports whether the config lacks what is required to talk
// to the API.
func (c *AppConfig) NeedsSetup() bool {
	return strings.TrimSpace(c.API.BaseURL) == "" || c.User.ID <= 0
}

// InitialFilter returns the configured startup filter, falling back to all.
func (c *AppConfig) InitialFilter() Filter {
	f, err := ParseFilter(c.Display.Filter)
	if err != nil {
		return FilterAll
	}
	return f
}

// configDir returns ~/.config/todoapp, or the working directory when the
// home directory is unknown.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todoapp")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todoapp/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	return filepath.Join(configDir(), "todoapp.log")
}

// RegisterFlags adds the command-line overrides understood by LoadConfig.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("api-url", "", "base URL of the todo API")
	fs.Duration("api-timeout", 0, "per-request timeout (0 disables)")
	fs.Int("user-id", 0, "owner id of the todos to manage")
	fs.String("filter", "", "startup filter: all, active, completed or a #/ fragment")
	fs.String("log-file", "", "path of the log file")
	fs.String("log-level", "", "log level: debug, info, warn, error")
}

// flagKeys maps config keys to the flag names registered by RegisterFlags.
var flagKeys = map[string]string{
	"api.base_url":   "api-url",
	"api.timeout":    "api-timeout",
	"user.id":        "user-id",
	"display.filter": "filter",
	"log.file":       "log-file",
	"log.level":      "log-level",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout", time.Duration(0))
	v.SetDefault("user.id", 0)
	v.SetDefault("display.filter", string(FilterAll))
	v.SetDefault("display.error_timeout", 3*time.Second)
	v.SetDefault("log.file", DefaultLogPath())
	v.SetDefault("log.level", "info")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// Values resolve in order: changed flags, TODOAPP_* environment variables,
// the file, defaults. A missing file is not an error. fs may be nil.
func LoadConfig(path string, fs *pflag.FlagSet) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("todoapp")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if fs != nil {
		for key, name := range flagKeys {
			flag := fs.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("binding flag --%s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		_, missing := err.(*os.PathError)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			missing = true
		}
		if !missing {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.Filter != "" {
		if _, err := ParseFilter(cfg.Display.Filter); err != nil {
			return nil, fmt.Errorf("parsing config %s: display.filter: %w", path, err)
		}
	}
	cfg.API.BaseURL = strings.TrimSpace(cfg.API.BaseURL)

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout", cfg.API.Timeout.String())
	v.Set("user.id", cfg.User.ID)
	v.Set("display.filter", cfg.Display.Filter)
	v.Set("display.error_timeout", cfg.Display.ErrorTimeout.String())
	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
