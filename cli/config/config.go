// Package config loads hcio settings from defaults, an optional YAML file,
// an optional .env file and HEALTHCHECKSIO_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
)

const EnvPrefix = "HEALTHCHECKSIO_"

const (
	OutputJSON   = "json"
	OutputYAML   = "yaml"
	OutputPretty = "pretty"
)

type Config struct {
	APIURL   string        `koanf:"api_url"`
	APIToken string        `koanf:"api_token"`
	Timeout  time.Duration `koanf:"timeout"`
	Output   string        `koanf:"output"`
}

var defaults = map[string]any{
	"api_url": "https://healthchecks.io/api/v1",
	"timeout": "30s",
	"output":  OutputJSON,
}

// DefaultPath is $XDG_CONFIG_HOME/hcio/config.yaml, falling back to
// ~/.config/hcio/config.yaml.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "hcio", "config.yaml")
}

// Load builds the configuration. An empty configFile means DefaultPath,
// which may be absent; an explicit configFile must exist. envFile is
// loaded into the process environment when present and never overrides
// variables that are already set.
func Load(configFile, envFile string) (*Config, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	path, required := configFile, true
	if path == "" {
		path, required = DefaultPath(), false
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if required || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	envKey := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Output {
	case OutputJSON, OutputYAML, OutputPretty:
	default:
		return fmt.Errorf("unknown output %q (want json, yaml or pretty)", c.Output)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	return nil
}

// RequireToken is checked before any live request.
func (c *Config) RequireToken() error {
	if c.APIToken == "" {
		return fmt.Errorf("no API token: set %sAPI_TOKEN or api_token in the config file", EnvPrefix)
	}
	return nil
}
