// Package config loads service configuration from an optional YAML
// file, applying defaults first and environment overrides last.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidTimeout   = errors.New("search timeout must be positive")
	ErrInvalidCacheTTL  = errors.New("cache ttl must be positive")
	ErrInvalidMaxRounds = errors.New("max rounds must not be negative")
	ErrInvalidRateLimit = errors.New("rate limit must be positive")
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "2m", or from bare numbers meaning seconds.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var secs float64
	if err := value.Decode(&secs); err != nil {
		return fmt.Errorf("invalid duration value %q", value.Value)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// Config is the root configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Search    SearchConfig    `yaml:"search"`
	Scrape    ScrapeConfig    `yaml:"scrape"`
	Narrative NarrativeConfig `yaml:"narrative"`
	Providers []HTTPProvider  `yaml:"providers"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Addr              string   `yaml:"addr"`
	ReadTimeout       Duration `yaml:"read_timeout"`
	WriteTimeout      Duration `yaml:"write_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
}

type SearchConfig struct {
	Timeout  Duration `yaml:"timeout"`
	CacheTTL Duration `yaml:"cache_ttl"`
	// MaxRounds caps iterative fetch-more rounds. Zero means unbounded.
	MaxRounds int `yaml:"max_rounds"`
}

type ScrapeConfig struct {
	Headless          bool     `yaml:"headless"`
	PageWait          Duration `yaml:"page_wait"`
	ScrollCount       int      `yaml:"scroll_count"`
	ScrollPause       Duration `yaml:"scroll_pause"`
	RequestsPerMinute int      `yaml:"requests_per_minute"`
}

type NarrativeConfig struct {
	APIKey  string   `yaml:"api_key"`
	BaseURL string   `yaml:"base_url"`
	Model   string   `yaml:"model"`
	Timeout Duration `yaml:"timeout"`
}

// HTTPProvider declares an extra JSON-over-HTTP hotel source.
type HTTPProvider struct {
	Name    string   `yaml:"name"`
	URL     string   `yaml:"url"`
	Timeout Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadTimeout:       Duration(10 * time.Second),
			WriteTimeout:      Duration(30 * time.Second),
			IdleTimeout:       Duration(60 * time.Second),
			RequestsPerMinute: 10,
		},
		Search: SearchConfig{
			Timeout:   Duration(30 * time.Second),
			CacheTTL:  Duration(30 * time.Second),
			MaxRounds: 5,
		},
		Scrape: ScrapeConfig{
			Headless:          true,
			PageWait:          Duration(6 * time.Second),
			ScrollCount:       4,
			ScrollPause:       Duration(2 * time.Second),
			RequestsPerMinute: 6,
		},
		Narrative: NarrativeConfig{
			Model:   "llama3-70b-8192",
			Timeout: Duration(15 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file
// and environment overrides, then validates it. An empty path skips the
// file step.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on top of file values.
// Secrets normally arrive this way rather than via the file.
func (c *Config) applyEnv() {
	if v := os.Getenv("HOTELFINDER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.Narrative.APIKey = v
	}
	if v := os.Getenv("GROQ_MODEL"); v != "" {
		c.Narrative.Model = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for values that would break the
// service at runtime.
func (c *Config) Validate() error {
	if c.Search.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Search.CacheTTL <= 0 {
		return ErrInvalidCacheTTL
	}
	if c.Search.MaxRounds < 0 {
		return ErrInvalidMaxRounds
	}
	if c.Server.RequestsPerMinute <= 0 || c.Scrape.RequestsPerMinute <= 0 {
		return ErrInvalidRateLimit
	}
	for _, p := range c.Providers {
		if p.Name == "" || p.URL == "" {
			return fmt.Errorf("provider entries need both name and url: %+v", p)
		}
	}
	return nil
}
