package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. CASTPLOT_PLOT_OUTPUT.
const EnvPrefix = "CASTPLOT"

// Loader reads configuration from an optional YAML file, an optional .env
// file and the environment, in increasing order of precedence over Default().
type Loader struct {
	ConfigPath string
	EnvFile    string
}

// Load returns the merged configuration. A missing config or .env file is not
// an error; a malformed one is.
func (l *Loader) Load() (*Config, error) {
	if l.EnvFile != "" {
		if err := godotenv.Load(l.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigType("yaml")

	defaults, err := yaml.Marshal(Default())
	if err != nil {
		return nil, fmt.Errorf("marshal defaults: %w", err)
	}
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return nil, fmt.Errorf("read defaults: %w", err)
	}

	if l.ConfigPath != "" {
		if _, err := os.Stat(l.ConfigPath); err == nil {
			v.SetConfigFile(l.ConfigPath)
			if err := v.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", l.ConfigPath, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config %s: %w", l.ConfigPath, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// Load is shorthand for a Loader with only a config path.
func Load(path string) (*Config, error) {
	l := Loader{ConfigPath: path}
	return l.Load()
}
