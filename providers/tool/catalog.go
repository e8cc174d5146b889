package tool

import (
	"strings"
	"sync"

	"github.com/jmaren/llmwire/providers/ai"
)

// Catalog is a thread-safe registry of tools keyed by name. Lookups are
// case-insensitive because some models alter the casing of tool names when
// they call them.
type Catalog struct {
	mu    sync.RWMutex
	tools map[string]CallableTool
	order []string
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		tools: make(map[string]CallableTool),
	}
}

// AddTools registers tools in the catalog. A tool with an already registered
// name replaces the previous entry.
func (c *Catalog) AddTools(tools ...CallableTool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range tools {
		key := strings.ToLower(t.ToolInfo().Name)
		if _, exists := c.tools[key]; !exists {
			c.order = append(c.order, key)
		}
		c.tools[key] = t
	}
}

// Get returns the tool registered under name, or false when no tool matches.
func (c *Catalog) Get(name string) (CallableTool, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.tools[strings.ToLower(name)]
	return t, ok
}

// Has reports whether a tool is registered under name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Descriptions returns the descriptions of all registered tools in
// registration order, ready to be attached to a chat request.
func (c *Catalog) Descriptions() []ai.ToolDescription {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.tools) == 0 {
		return nil
	}
	descriptions := make([]ai.ToolDescription, 0, len(c.tools))
	for _, key := range c.order {
		descriptions = append(descriptions, c.tools[key].ToolInfo())
	}
	return descriptions
}
