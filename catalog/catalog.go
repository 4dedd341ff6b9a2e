package catalog

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/zero-day-ai/toolgate/schema"
)

// Catalog owns the tool descriptors known to the process. Descriptors are
// fixed at construction; only their enabled flag changes afterwards, through
// SetEnabled.
//
// Catalog is safe for concurrent use. Readers receive deep copies, input
// schemas included, so a selection works on a stable snapshot even if a flag
// is toggled while it runs, and no caller can change a stored schema.
type Catalog struct {
	mu    sync.RWMutex
	order []string
	tools map[string]*Descriptor
}

// New builds a catalog from descriptors that already carry their category.
func New(descriptors ...Descriptor) (*Catalog, error) {
	return NewWithPrefixes(nil, descriptors...)
}

// NewWithPrefixes builds a catalog, inferring the category of any descriptor
// that omits one from its id prefix. Every descriptor is validated; a nil
// input schema is replaced by the empty object schema.
func NewWithPrefixes(prefixes Prefixes, descriptors ...Descriptor) (*Catalog, error) {
	c := &Catalog{
		order: make([]string, 0, len(descriptors)),
		tools: make(map[string]*Descriptor, len(descriptors)),
	}

	for _, d := range descriptors {
		if d.Category == "" {
			if cat, ok := InferCategory(d.ID, prefixes); ok {
				d.Category = cat
			}
		}
		if d.InputSchema == nil {
			d.InputSchema = schema.EmptyObject()
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.tools[d.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, d.ID)
		}

		stored := d.clone()
		c.tools[d.ID] = &stored
		c.order = append(c.order, d.ID)
	}

	return c, nil
}

// Get returns a copy of the descriptor registered under id.
func (c *Catalog) Get(id string) (Descriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.tools[id]
	if !ok {
		return Descriptor{}, false
	}
	return d.clone(), true
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// IDs returns every tool id in registration order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.order)
}

// Categories returns the distinct categories in the catalog, sorted.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[Category]struct{})
	for _, d := range c.tools {
		seen[d.Category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(seen))
}

// SetEnabled toggles whether a tool may be selected. It returns
// ErrUnknownTool when id is not registered.
func (c *Catalog) SetEnabled(id string, enabled bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.tools[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTool, id)
	}
	d.Enabled = enabled
	return nil
}

// Snapshot returns copies of all descriptors in registration order,
// including disabled ones.
func (c *Catalog) Snapshot() []Descriptor {
	return c.collect(func(*Descriptor) bool { return true })
}

// Pool returns copies of the enabled descriptors in registration order. It
// is the candidate pool handed to the selector for one turn.
func (c *Catalog) Pool() []Descriptor {
	return c.collect(func(d *Descriptor) bool { return d.Enabled })
}

func (c *Catalog) collect(keep func(*Descriptor) bool) []Descriptor {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Descriptor, 0, len(c.order))
	for _, id := range c.order {
		if d := c.tools[id]; keep(d) {
			out = append(out, d.clone())
		}
	}
	return out
}
