package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zero-day-ai/toolgate/schema"
)

var (
	// ErrUnknownTool indicates the requested tool id is not registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrDuplicateTool indicates two descriptors share the same id.
	ErrDuplicateTool = errors.New("duplicate tool id")

	// ErrInvalidDescriptor indicates a descriptor is missing a required field.
	ErrInvalidDescriptor = errors.New("invalid tool descriptor")
)

// Category is a coarse domain tag grouping related tools, such as
// "transport" or "accommodation". The set of categories is open; the
// selector only compares them for equality.
type Category string

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// Descriptor describes one callable tool offered to the model.
// It is metadata only; executing the tool is the caller's business.
type Descriptor struct {
	// ID is the unique, stable identifier for the tool. It is the name the
	// model calls the tool by and the key category inference works on.
	ID string `json:"id" yaml:"id"`

	// DisplayName is a human-readable name for the tool.
	DisplayName string `json:"display_name,omitempty" yaml:"display_name,omitempty"`

	// Description explains what the tool does. The ranker scores it against
	// the user's query.
	Description string `json:"description" yaml:"description"`

	// InputSchema is the JSON Schema of the tool's arguments.
	InputSchema map[string]any `json:"input_schema" yaml:"input_schema"`

	// Category groups the tool with related tools. When empty, it is inferred
	// from the id at catalog construction.
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`

	// Integration names the server or integration that owns the tool
	// (for example "ferries" or "maps").
	Integration string `json:"integration,omitempty" yaml:"integration,omitempty"`

	// Enabled reports whether the tool may be selected. Disabled tools never
	// reach the selector.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// AvailableWhen is an optional availability expression evaluated per
	// turn by the policy package.
	AvailableWhen string `json:"available_when,omitempty" yaml:"available_when,omitempty"`
}

// clone returns a copy of d that shares no schema maps with it.
func (d Descriptor) clone() Descriptor {
	d.InputSchema = schema.Clone(d.InputSchema)
	return d
}

// Name returns the display name, or the id when no display name is set.
func (d Descriptor) Name() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.ID
}

// Validate checks the fields every descriptor must carry.
func (d Descriptor) Validate() error {
	var errs []error
	if strings.TrimSpace(d.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, errors.New("description is required"))
	}
	if d.Category == "" {
		errs = append(errs, errors.New("category is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %w", ErrInvalidDescriptor, d.ID, errors.Join(errs...))
	}
	return nil
}
