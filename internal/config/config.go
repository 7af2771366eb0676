// Package config loads the assistant configuration from a YAML file,
// falling back to defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	Store   StoreConfig   `yaml:"store"`
	Redis   RedisConfig   `yaml:"redis"`
	Runtime RuntimeConfig `yaml:"runtime"`
	HTTP    HTTPConfig    `yaml:"http"`
	Units   string        `yaml:"units"`
	LogJSON bool          `yaml:"log_json"`
}

// StoreConfig selects and configures the session store.
type StoreConfig struct {
	// Kind is memory, file, or redis.
	Kind string `yaml:"kind"`
	// Dir is the session directory for the file store.
	Dir string `yaml:"dir"`
}

// RedisConfig configures the redis store when Store.Kind is redis.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// RuntimeConfig bounds one turn.
type RuntimeConfig struct {
	MaxSteps      int `yaml:"max_steps"`
	MaxIterations int `yaml:"max_iterations"`
}

// HTTPConfig configures the serve command.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Store:   StoreConfig{Kind: "file", Dir: ".vaya/sessions"},
		Redis:   RedisConfig{Addr: "localhost:6379"},
		Runtime: RuntimeConfig{MaxSteps: 25, MaxIterations: 10},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Units:   "imperial",
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch c.Store.Kind {
	case "memory", "file", "redis":
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	switch c.Units {
	case "imperial", "metric":
	default:
		return fmt.Errorf("unknown units %q", c.Units)
	}
	return nil
}
