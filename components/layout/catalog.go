package layout

import (
	"fmt"
	"sort"
	"sync"
)

// Catalog stores the widget types available to dashboards.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]WidgetType
	order []string
}

// NewCatalog builds a catalog seeded with the built-in widget types.
func NewCatalog() *Catalog {
	c := &Catalog{types: map[string]WidgetType{}}
	for _, wt := range DefaultWidgetTypes() {
		_ = c.Register(wt)
	}
	return c
}

// Register adds or replaces a widget type.
func (c *Catalog) Register(wt WidgetType) error {
	if wt.Type == "" {
		return fmt.Errorf("layout: widget type is required")
	}
	if wt.Label == "" {
		wt.Label = wt.Type
	}
	wt.DefaultConfig = copyConfig(wt.DefaultConfig)
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.types[wt.Type]; !exists {
		c.order = append(c.order, wt.Type)
	}
	c.types[wt.Type] = wt
	return nil
}

// Lookup returns the widget type registered under the given key.
func (c *Catalog) Lookup(widgetType string) (WidgetType, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	wt, ok := c.types[widgetType]
	return wt, ok
}

// Types lists widget types in registration order.
func (c *Catalog) Types() []WidgetType {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]WidgetType, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.types[key])
	}
	return out
}

// Codes returns the registered widget type keys sorted alphabetically.
func (c *Catalog) Codes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	codes := append([]string{}, c.order...)
	sort.Strings(codes)
	return codes
}
