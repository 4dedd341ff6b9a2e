// Package config loads the toolgate configuration from YAML.
//
// A configuration file names the classifier rules, the ranker's strong
// associations, the category prefixes used for inference, per-provider
// schema dialect overrides, the tool catalog and the settings backend.
// Sections left empty take the travel defaults:
//
//	max_tools: 6
//	dialects:
//	  google: strict
//	rules:
//	  - category: transport
//	    keywords: [ferry, boat, flight]
//	  - category: travel
//	    fallback: true
//	settings:
//	  backend: redis
//	  redis:
//	    url: redis://localhost:6379
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/llm"
	"github.com/zero-day-ai/toolgate/policy"
	"github.com/zero-day-ai/toolgate/schema"
	"github.com/zero-day-ai/toolgate/selector"
	"github.com/zero-day-ai/toolgate/settings"
	"github.com/zero-day-ai/toolgate/travel"
)

// EnvPath names the environment variable Load reads the config path from.
const EnvPath = "TOOLGATE_CONFIG"

// ErrInvalidConfig indicates a configuration that failed validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Settings backends.
const (
	BackendNone   = ""
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendEtcd   = "etcd"
)

// Config is the root of a toolgate.yaml file.
type Config struct {
	// MaxTools is the default tool budget per turn.
	// Default: 8
	MaxTools int `yaml:"max_tools,omitempty"`

	// Dialects overrides the schema dialect per provider
	// ("strict" or "passthrough").
	Dialects map[string]string `yaml:"dialects,omitempty"`

	// CategoryPrefixes maps tool id prefixes to categories for tools that
	// declare none.
	CategoryPrefixes map[string]string `yaml:"category_prefixes,omitempty"`

	// Rules is the classifier's keyword table.
	Rules []selector.Rule `yaml:"rules,omitempty"`

	// Ranking tunes the budgeted ranker.
	Ranking RankingConfig `yaml:"ranking,omitempty"`

	// Tools is the catalog.
	Tools []ToolConfig `yaml:"tools,omitempty"`

	// Settings selects where enablement flags live.
	Settings SettingsConfig `yaml:"settings,omitempty"`
}

// RankingConfig tunes the budgeted ranker.
type RankingConfig struct {
	StrongBonus int                   `yaml:"strong_bonus,omitempty"`
	TokenBonus  int                   `yaml:"token_bonus,omitempty"`
	Strong      []selector.StrongRule `yaml:"strong,omitempty"`
}

// ToolConfig declares one catalog tool. Tools are enabled unless enabled is
// set to false.
type ToolConfig struct {
	ID            string         `yaml:"id"`
	DisplayName   string         `yaml:"display_name,omitempty"`
	Description   string         `yaml:"description"`
	InputSchema   map[string]any `yaml:"input_schema,omitempty"`
	Category      string         `yaml:"category,omitempty"`
	Integration   string         `yaml:"integration,omitempty"`
	Enabled       *bool          `yaml:"enabled,omitempty"`
	AvailableWhen string         `yaml:"available_when,omitempty"`
}

// Descriptor converts the declaration into a catalog descriptor.
func (t ToolConfig) Descriptor() catalog.Descriptor {
	enabled := true
	if t.Enabled != nil {
		enabled = *t.Enabled
	}
	return catalog.Descriptor{
		ID:            t.ID,
		DisplayName:   t.DisplayName,
		Description:   t.Description,
		InputSchema:   t.InputSchema,
		Category:      catalog.Category(t.Category),
		Integration:   t.Integration,
		Enabled:       enabled,
		AvailableWhen: t.AvailableWhen,
	}
}

// SettingsConfig selects and configures the settings store.
type SettingsConfig struct {
	// Backend is one of "", "memory", "redis" or "etcd". Empty disables
	// external settings.
	Backend string `yaml:"backend,omitempty"`

	// Flags seeds the memory backend.
	Flags map[string]bool `yaml:"flags,omitempty"`

	Redis RedisConfig         `yaml:"redis,omitempty"`
	Etcd  settings.EtcdConfig `yaml:"etcd,omitempty"`
}

// RedisConfig configures the Redis settings backend.
type RedisConfig struct {
	URL            string              `yaml:"url,omitempty"`
	Key            string              `yaml:"key,omitempty"`
	Channel        string              `yaml:"channel,omitempty"`
	ConnectTimeout time.Duration       `yaml:"connect_timeout,omitempty"`
	ReadTimeout    time.Duration       `yaml:"read_timeout,omitempty"`
	WriteTimeout   time.Duration       `yaml:"write_timeout,omitempty"`
	TLS            *settings.TLSConfig `yaml:"tls,omitempty"`
}

// Default returns the travel assistant configuration.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the file named by TOOLGATE_CONFIG, or returns Default when the
// variable is unset.
func Load() (*Config, error) {
	path := strings.TrimSpace(os.Getenv(EnvPath))
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads and validates a configuration file. If path is a directory,
// toolgate.yaml or toolgate.yml inside it is used.
func LoadFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	configPath := path
	if info.IsDir() {
		configPath = ""
		for _, name := range []string{"toolgate.yaml", "toolgate.yml"} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("no toolgate.yaml or toolgate.yml found in %s", path)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.MaxTools == 0 {
		c.MaxTools = selector.DefaultMaxTools
	}
	if len(c.CategoryPrefixes) == 0 {
		c.CategoryPrefixes = make(map[string]string)
		for prefix, cat := range travel.Prefixes() {
			c.CategoryPrefixes[prefix] = string(cat)
		}
	}
	if len(c.Rules) == 0 {
		c.Rules = travel.Rules()
		if len(c.Ranking.Strong) == 0 {
			c.Ranking.Strong = travel.StrongRules()
		}
	}
	if len(c.Tools) == 0 {
		for _, d := range travel.Descriptors() {
			c.Tools = append(c.Tools, toolConfig(d))
		}
	}
}

func toolConfig(d catalog.Descriptor) ToolConfig {
	enabled := d.Enabled
	return ToolConfig{
		ID:            d.ID,
		DisplayName:   d.DisplayName,
		Description:   d.Description,
		InputSchema:   d.InputSchema,
		Category:      string(d.Category),
		Integration:   d.Integration,
		Enabled:       &enabled,
		AvailableWhen: d.AvailableWhen,
	}
}

// Validate reports every problem in the configuration at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.MaxTools < 0 {
		add("max_tools must not be negative, got %d", c.MaxTools)
	}

	for provider, dialect := range c.Dialects {
		if _, err := llm.ParseProvider(provider); err != nil {
			add("dialects: %v", err)
		}
		if _, err := schema.ParseDialect(dialect); err != nil {
			add("dialects[%s]: %v", provider, err)
		}
	}

	for prefix, cat := range c.CategoryPrefixes {
		if prefix == "" || cat == "" {
			add("category_prefixes: empty prefix or category (%q: %q)", prefix, cat)
		}
	}

	if err := selector.ValidateRules(c.Rules); err != nil {
		errs = append(errs, fmt.Errorf("%w: rules: %w", ErrInvalidConfig, err))
	}
	if len(c.Rules) > 0 && !slices.ContainsFunc(c.Rules, func(r selector.Rule) bool { return r.Enabled }) {
		add("rules: no rule is enabled")
	}

	for i, r := range c.Ranking.Strong {
		if strings.TrimSpace(r.Keyword) == "" {
			add("ranking.strong[%d] has no keyword", i)
		}
		if r.Category == "" && r.ToolPrefix == "" {
			add("ranking.strong[%d] (%q) needs a category or tool_prefix", i, r.Keyword)
		}
	}
	if c.Ranking.StrongBonus < 0 || c.Ranking.TokenBonus < 0 {
		add("ranking bonuses must not be negative")
	}

	descriptors := c.Descriptors()
	if _, err := catalog.NewWithPrefixes(c.Prefixes(), descriptors...); err != nil {
		errs = append(errs, fmt.Errorf("%w: tools: %w", ErrInvalidConfig, err))
	}
	if _, err := policy.FromDescriptors(descriptors); err != nil {
		errs = append(errs, fmt.Errorf("%w: tools: %w", ErrInvalidConfig, err))
	}

	switch c.Settings.Backend {
	case BackendNone, BackendMemory:
	case BackendRedis:
		if err := c.Settings.Redis.TLS.Validate(); err != nil {
			add("settings.redis.tls: %v", err)
		}
	case BackendEtcd:
		if len(c.Settings.Etcd.Endpoints) == 0 {
			add("settings.etcd.endpoints is required for the etcd backend")
		}
		if err := c.Settings.Etcd.TLS.Validate(); err != nil {
			add("settings.etcd.tls: %v", err)
		}
	default:
		add("settings.backend must be memory, redis or etcd, got %q", c.Settings.Backend)
	}

	return errors.Join(errs...)
}

// Prefixes returns the category prefix table.
func (c *Config) Prefixes() catalog.Prefixes {
	out := make(catalog.Prefixes, len(c.CategoryPrefixes))
	for prefix, cat := range c.CategoryPrefixes {
		out[prefix] = catalog.Category(cat)
	}
	return out
}

// Descriptors returns the configured tools as catalog descriptors.
func (c *Config) Descriptors() []catalog.Descriptor {
	out := make([]catalog.Descriptor, len(c.Tools))
	for i, t := range c.Tools {
		out[i] = t.Descriptor()
	}
	return out
}

// Ranker returns the configured budgeted ranker.
func (c *Config) Ranker() selector.Ranker {
	return selector.Ranker{
		Strong:      c.Ranking.Strong,
		StrongBonus: c.Ranking.StrongBonus,
		TokenBonus:  c.Ranking.TokenBonus,
	}
}

// DialectTable returns the default dialect table with the configured
// overrides applied. Invalid entries are skipped; Validate reports them.
func (c *Config) DialectTable() llm.DialectTable {
	overrides := make(llm.DialectTable, len(c.Dialects))
	for provider, dialect := range c.Dialects {
		p, err := llm.ParseProvider(provider)
		if err != nil {
			continue
		}
		d, err := schema.ParseDialect(dialect)
		if err != nil {
			continue
		}
		overrides[p] = d
	}
	return llm.DefaultDialects().With(overrides)
}

// OpenStore opens the configured settings store. It returns nil when no
// backend is configured.
func (c *Config) OpenStore() (settings.Store, error) {
	s := c.Settings
	switch s.Backend {
	case BackendNone:
		return nil, nil
	case BackendMemory:
		return settings.NewMemoryStore(s.Flags), nil
	case BackendRedis:
		tlsConfig, err := s.Redis.TLS.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		store, err := settings.NewRedisStore(settings.RedisOptions{
			URL:            s.Redis.URL,
			TLS:            tlsConfig,
			ConnectTimeout: s.Redis.ConnectTimeout,
			ReadTimeout:    s.Redis.ReadTimeout,
			WriteTimeout:   s.Redis.WriteTimeout,
			Key:            s.Redis.Key,
			Channel:        s.Redis.Channel,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case BackendEtcd:
		store, err := settings.NewEtcdStore(s.Etcd)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w: unknown settings backend %q", ErrInvalidConfig, s.Backend)
	}
}
