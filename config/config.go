// Package config loads default parse options from a config file and the
// environment. Command line flags always take precedence over these.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".gtp"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for gtp settings.
const envPrefix = "GTP"

// DefaultMaxDepth mirrors the driver default so a config file without the
// key behaves like no config file at all.
const DefaultMaxDepth = 512

// Config holds the defaults applied to every parse.
type Config struct {
	Output   string       `mapstructure:"output"`
	Bubble   bool         `mapstructure:"bubble"`
	Partial  bool         `mapstructure:"partial"`
	MaxDepth int          `mapstructure:"max_depth"`
	Ignore   IgnoreConfig `mapstructure:"ignore"`
}

// IgnoreConfig selects input characters the parser skips between terminals.
type IgnoreConfig struct {
	Whitespace bool `mapstructure:"whitespace"`
	Newline    bool `mapstructure:"newline"`
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch c.Output {
	case "json", "yaml", "tree":
	default:
		return fmt.Errorf("invalid output format %q: must be json, yaml, or tree", c.Output)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be positive: %v", c.MaxDepth)
	}
	return nil
}

// Load reads configuration from file, env vars, and defaults. If configPath
// is non-empty, it is used as the explicit config file path. Otherwise the
// config file is searched in CWD and $HOME. A missing config file is not an
// error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("output", "json")
	viperCfg.SetDefault("bubble", false)
	viperCfg.SetDefault("partial", false)
	viperCfg.SetDefault("max_depth", DefaultMaxDepth)
	viperCfg.SetDefault("ignore.whitespace", false)
	viperCfg.SetDefault("ignore.newline", false)
}
