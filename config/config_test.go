package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/llm"
	"github.com/zero-day-ai/toolgate/schema"
	"github.com/zero-day-ai/toolgate/selector"
	"github.com/zero-day-ai/toolgate/settings"
	"github.com/zero-day-ai/toolgate/travel"
)

const sampleYAML = `
max_tools: 5
dialects:
  gemini: strict
  openai: passthrough
category_prefixes:
  bike_: transport
  museum_: sights
rules:
  - category: transport
    keywords: [bike, cycle]
    enabled: true
  - category: sights
    keywords: [museum, gallery]
    enabled: true
    fallback: true
ranking:
  strong_bonus: 20
  strong:
    - keyword: bike
      tool_prefix: bike_
tools:
  - id: bike_rentals
    description: Find bike rentals near a location
    input_schema:
      type: object
      title: BikeArgs
      properties:
        city:
          type: string
      required: [city]
  - id: museum_hours
    description: Opening hours of a museum
    available_when: provider != "ollama"
  - id: bike_routes
    description: Cycling routes
    enabled: false
settings:
  backend: redis
  redis:
    url: redis://localhost:6379
    connect_timeout: 2s
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, selector.DefaultMaxTools, cfg.MaxTools)
	assert.Equal(t, travel.Rules(), cfg.Rules)
	assert.Equal(t, travel.StrongRules(), cfg.Ranking.Strong)
	assert.Len(t, cfg.Tools, len(travel.Descriptors()))
	assert.Equal(t, travel.Prefixes(), cfg.Prefixes())

	cat, err := catalog.NewWithPrefixes(cfg.Prefixes(), cfg.Descriptors()...)
	require.NoError(t, err)
	assert.Equal(t, len(travel.Descriptors()), len(cat.Pool()))

	store, err := cfg.OpenStore()
	require.NoError(t, err)
	assert.Nil(t, store)
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxTools)
	require.Len(t, cfg.Rules, 2)
	assert.Equal(t, catalog.Category("sights"), cfg.Rules[1].Category)
	assert.True(t, cfg.Rules[1].Fallback)

	ranker := cfg.Ranker()
	assert.Equal(t, 20, ranker.StrongBonus)
	assert.Zero(t, ranker.TokenBonus)
	assert.Equal(t, []selector.StrongRule{{Keyword: "bike", ToolPrefix: "bike_"}}, ranker.Strong)

	descriptors := cfg.Descriptors()
	require.Len(t, descriptors, 3)
	assert.True(t, descriptors[0].Enabled, "tools default to enabled")
	assert.False(t, descriptors[2].Enabled)
	assert.Equal(t, `provider != "ollama"`, descriptors[1].AvailableWhen)
	assert.Equal(t, "BikeArgs", descriptors[0].InputSchema["title"])

	cat, err := catalog.NewWithPrefixes(cfg.Prefixes(), descriptors...)
	require.NoError(t, err)
	museum, ok := cat.Get("museum_hours")
	require.True(t, ok)
	assert.Equal(t, catalog.Category("sights"), museum.Category)

	table := cfg.DialectTable()
	assert.Equal(t, schema.DialectStrict, table.Dialect(llm.ProviderGoogle))
	assert.Equal(t, schema.DialectPassthrough, table.Dialect(llm.ProviderOpenAI))
	assert.Equal(t, schema.DialectStrict, table.Dialect(llm.ProviderAzureOpenAI))

	assert.Equal(t, BackendRedis, cfg.Settings.Backend)
	assert.Equal(t, 2*time.Second, cfg.Settings.Redis.ConnectTimeout)
}

func TestParse_RulesDefaultToEnabled(t *testing.T) {
	cfg, err := Parse([]byte(`
rules:
  - category: transport
    keywords: [ferry]
  - category: accommodation
    keywords: [hotel]
    enabled: false
  - category: travel
    fallback: true
`))
	require.NoError(t, err)

	require.Len(t, cfg.Rules, 3)
	assert.True(t, cfg.Rules[0].Enabled)
	assert.False(t, cfg.Rules[1].Enabled)
	assert.True(t, cfg.Rules[2].Enabled)
	assert.Equal(t, selector.NewCategorySet("travel"), selector.FallbackSet(cfg.Rules))
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantMsg []string
	}{
		{
			name:    "malformed yaml",
			yaml:    "max_tools: [",
			wantMsg: []string{"failed to parse config file"},
		},
		{
			name:    "negative budget",
			yaml:    "max_tools: -1",
			wantMsg: []string{"max_tools must not be negative"},
		},
		{
			name: "bad dialects",
			yaml: "dialects:\n  mystery: strict\n  openai: loose\n",
			wantMsg: []string{
				`unknown provider "mystery"`,
				`unknown schema dialect "loose"`,
			},
		},
		{
			name:    "bad rules",
			yaml:    "rules:\n  - category: transport\n    enabled: true\n",
			wantMsg: []string{"has no keywords and is not a fallback"},
		},
		{
			name:    "every rule disabled",
			yaml:    "rules:\n  - category: travel\n    fallback: true\n    enabled: false\n",
			wantMsg: []string{"no rule is enabled"},
		},
		{
			name:    "bad strong rule",
			yaml:    "ranking:\n  strong:\n    - keyword: ferry\n",
			wantMsg: []string{"needs a category or tool_prefix"},
		},
		{
			name:    "tool without description",
			yaml:    "tools:\n  - id: ferry_x\n",
			wantMsg: []string{"tools:"},
		},
		{
			name:    "bad availability expression",
			yaml:    "tools:\n  - id: ferry_x\n    description: x\n    available_when: provider +\n",
			wantMsg: []string{"ferry_x"},
		},
		{
			name:    "etcd without endpoints",
			yaml:    "settings:\n  backend: etcd\n",
			wantMsg: []string{"settings.etcd.endpoints is required"},
		},
		{
			name:    "unknown backend",
			yaml:    "settings:\n  backend: consul\n",
			wantMsg: []string{`got "consul"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.name != "malformed yaml" {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			}
			for _, msg := range tt.wantMsg {
				assert.Contains(t, err.Error(), msg)
			}
		})
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.MaxTools = -3
	cfg.Settings.Backend = "consul"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_tools")
	assert.Contains(t, err.Error(), "settings.backend")
}

func TestLoadFile(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "custom.yaml", "max_tools: 3\n")

		cfg, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 3, cfg.MaxTools)
		assert.Equal(t, travel.Rules(), cfg.Rules)
	})

	t.Run("directory with toolgate.yml", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "toolgate.yml", "max_tools: 4\n")

		cfg, err := LoadFile(dir)
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.MaxTools)
	})

	t.Run("directory without config", func(t *testing.T) {
		_, err := LoadFile(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no toolgate.yaml or toolgate.yml found")
	})

	t.Run("missing path", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat path")
	})
}

func TestLoad(t *testing.T) {
	t.Run("unset uses defaults", func(t *testing.T) {
		t.Setenv(EnvPath, "")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("reads the named file", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "toolgate.yaml", sampleYAML)
		t.Setenv(EnvPath, path)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.MaxTools)
	})
}

func TestOpenStore_Memory(t *testing.T) {
	cfg := Default()
	cfg.Settings = SettingsConfig{
		Backend: BackendMemory,
		Flags:   map[string]bool{"ferry_search_routes": false},
	}

	store, err := cfg.OpenStore()
	require.NoError(t, err)
	require.IsType(t, &settings.MemoryStore{}, store)
	defer store.Close()

	flags, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"ferry_search_routes": false}, flags)
}

func TestOpenStore_RedisFailure(t *testing.T) {
	cfg := Default()
	cfg.Settings = SettingsConfig{
		Backend: BackendRedis,
		Redis: RedisConfig{
			URL:            "redis://localhost:99999",
			ConnectTimeout: 100 * time.Millisecond,
		},
	}

	store, err := cfg.OpenStore()
	require.Error(t, err)
	assert.Nil(t, store)
}
