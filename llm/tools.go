package llm

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/zero-day-ai/toolgate/catalog"
)

// ToolDef defines a tool that an LLM can invoke.
type ToolDef struct {
	// Name is the unique identifier for this tool.
	Name string `json:"name"`

	// Description explains what the tool does and when to use it.
	// This helps the LLM decide when to invoke the tool.
	Description string `json:"description"`

	// Parameters is a JSON Schema describing the tool's input parameters,
	// already rewritten for the target provider.
	Parameters map[string]any `json:"parameters"`

	// Strict asks the provider to enforce Parameters exactly. Set for
	// providers using the strict schema dialect.
	Strict bool `json:"strict,omitempty"`
}

// Validate checks if the tool definition is valid.
func (t *ToolDef) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if t.Description == "" {
		return fmt.Errorf("tool description cannot be empty")
	}
	if t.Parameters == nil {
		return fmt.Errorf("tool parameters cannot be nil")
	}
	return nil
}

// ParametersStruct returns Parameters as a protobuf Struct, for SDKs that
// take tool schemas as protobuf messages.
func (t *ToolDef) ParametersStruct() (*structpb.Struct, error) {
	// structpb only understands the plain JSON value types, so normalize
	// []string and friends through a JSON round trip first.
	data, err := json.Marshal(t.Parameters)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal parameters for %s: %w", t.Name, err)
	}
	var plain map[string]any
	if err := json.Unmarshal(data, &plain); err != nil {
		return nil, fmt.Errorf("failed to decode parameters for %s: %w", t.Name, err)
	}
	s, err := structpb.NewStruct(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to convert parameters for %s: %w", t.Name, err)
	}
	return s, nil
}

// ToolDefs converts selected tools into provider tool definitions, rewriting
// each input schema into the provider's dialect. A nil table uses
// DefaultDialects.
func ToolDefs(tools []catalog.Descriptor, provider Provider, table DialectTable) []ToolDef {
	if table == nil {
		table = DefaultDialects()
	}
	strict := table.Strict(provider)

	defs := make([]ToolDef, 0, len(tools))
	for _, d := range tools {
		defs = append(defs, ToolDef{
			Name:        d.ID,
			Description: d.Description,
			Parameters:  table.Sanitize(d.InputSchema, provider),
			Strict:      strict,
		})
	}
	return defs
}

// ToolChoice represents how the LLM should use tools.
type ToolChoice string

const (
	// ToolChoiceNone means the LLM will not use any tools.
	ToolChoiceNone ToolChoice = "none"

	// ToolChoiceAuto means the LLM decides whether to use tools.
	ToolChoiceAuto ToolChoice = "auto"

	// ToolChoiceRequired means the LLM must use a tool.
	ToolChoiceRequired ToolChoice = "required"
)

// String returns the string representation of the tool choice.
func (tc ToolChoice) String() string {
	return string(tc)
}

// IsValid checks if the tool choice is valid.
func (tc ToolChoice) IsValid() bool {
	switch tc {
	case ToolChoiceNone, ToolChoiceAuto, ToolChoiceRequired:
		return true
	default:
		return false
	}
}

// ChoiceFor returns ToolChoiceNone for an empty tool set and ToolChoiceAuto
// otherwise.
func ChoiceFor(defs []ToolDef) ToolChoice {
	if len(defs) == 0 {
		return ToolChoiceNone
	}
	return ToolChoiceAuto
}

// EstimateToolTokens approximates the prompt tokens the tool definitions
// cost, at four characters per token of name, description and encoded
// parameters.
func EstimateToolTokens(defs []ToolDef) int {
	chars := 0
	for _, d := range defs {
		chars += len(d.Name) + len(d.Description)
		if data, err := json.Marshal(d.Parameters); err == nil {
			chars += len(data)
		}
	}
	return chars / 4
}
