package llm

import (
	"fmt"
	"maps"
	"strings"

	"github.com/zero-day-ai/toolgate/schema"
)

// Provider identifies a model provider.
type Provider string

const (
	ProviderAnthropic   Provider = "anthropic"
	ProviderOpenAI      Provider = "openai"
	ProviderAzureOpenAI Provider = "azure-openai"
	ProviderGoogle      Provider = "google"
	ProviderXAI         Provider = "xai"
	ProviderOllama      Provider = "ollama"
)

// String returns the provider identifier.
func (p Provider) String() string {
	return string(p)
}

// IsKnown reports whether p is one of the built-in providers.
func (p Provider) IsKnown() bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderAzureOpenAI,
		ProviderGoogle, ProviderXAI, ProviderOllama:
		return true
	default:
		return false
	}
}

// ParseProvider normalizes a provider identifier. Common aliases are
// accepted; unknown names are returned lower-cased with an error.
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "azure", "azure_openai", "azureopenai":
		p = ProviderAzureOpenAI
	case "claude":
		p = ProviderAnthropic
	case "gemini":
		p = ProviderGoogle
	case "grok":
		p = ProviderXAI
	}
	if !p.IsKnown() {
		return p, fmt.Errorf("unknown provider %q", s)
	}
	return p, nil
}

// DialectTable maps a provider to the schema dialect its tool-calling API
// accepts. Providers missing from the table use passthrough.
type DialectTable map[Provider]schema.Dialect

// DefaultDialects returns the built-in table: the OpenAI-compatible APIs use
// strict structured tool calling, everything else accepts schemas as written.
func DefaultDialects() DialectTable {
	return DialectTable{
		ProviderOpenAI:      schema.DialectStrict,
		ProviderAzureOpenAI: schema.DialectStrict,
	}
}

// Dialect returns the dialect for p.
func (t DialectTable) Dialect(p Provider) schema.Dialect {
	if d, ok := t[p]; ok {
		return d
	}
	return schema.DialectPassthrough
}

// Strict reports whether p requires the strict dialect.
func (t DialectTable) Strict(p Provider) bool {
	return t.Dialect(p) == schema.DialectStrict
}

// With returns a copy of the table with overrides applied.
func (t DialectTable) With(overrides DialectTable) DialectTable {
	out := maps.Clone(t)
	if out == nil {
		out = make(DialectTable, len(overrides))
	}
	maps.Copy(out, overrides)
	return out
}

// SanitizeSchema rewrites a tool input schema for provider using the
// default dialect table.
func SanitizeSchema(node any, provider Provider) map[string]any {
	return DefaultDialects().Sanitize(node, provider)
}

// Sanitize rewrites a tool input schema for provider.
func (t DialectTable) Sanitize(node any, provider Provider) map[string]any {
	return schema.Sanitize(node, t.Dialect(provider))
}
