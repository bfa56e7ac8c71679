package layout

import "strings"

const (
	DefaultLayoutID = "default"
	keyPrefix       = "layout_"
)

var defaultOptions = []Option{
	{Label: "2 Columns", Value: TypeTwoColumn, Columns: FixedColumns(2)},
	{Label: "3 Columns", Value: TypeThreeColumn, Columns: FixedColumns(3)},
	{Label: "4 Columns", Value: TypeFourColumn, Columns: FixedColumns(4)},
	{Label: "Grid Layout", Value: TypeGrid, Columns: AutoColumns()},
	{Label: "Masonry", Value: TypeMasonry, Columns: MasonryColumns()},
}

var defaultWidgetTypes = []WidgetType{
	{
		Type:      "chart",
		Label:     "Performance Chart",
		Icon:      "utility:chart",
		Component: "c-performance-chart",
		DefaultConfig: map[string]any{
			"title":      "Flow Performance",
			"chartType":  "line",
			"height":     "300px",
			"dataSource": "flows",
		},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title":      map[string]any{"type": "string"},
				"chartType":  map[string]any{"type": "string", "enum": []string{"line", "bar", "area", "pie"}},
				"height":     map[string]any{"type": "string"},
				"dataSource": map[string]any{"type": "string", "minLength": 1},
			},
		},
	},
	{
		Type:      "notifications",
		Label:     "Smart Notifications",
		Icon:      "utility:notification",
		Component: "c-smart-notifications",
		DefaultConfig: map[string]any{
			"height":           "400px",
			"maxNotifications": 10,
		},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"height":           map[string]any{"type": "string"},
				"maxNotifications": map[string]any{"type": "integer", "minimum": 1, "maximum": 100},
			},
		},
	},
	{
		Type:      "metrics",
		Label:     "Key Metrics",
		Icon:      "utility:metrics",
		Component: "c-metrics-widget",
		DefaultConfig: map[string]any{
			"metrics": []any{"executions", "performance", "risk"},
			"layout":  "horizontal",
		},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"metrics": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"layout":  map[string]any{"type": "string", "enum": []string{"horizontal", "vertical"}},
			},
		},
	},
	{
		Type:      "recent-flows",
		Label:     "Recent Flows",
		Icon:      "utility:flow",
		Component: "c-recent-flows-widget",
		DefaultConfig: map[string]any{
			"maxItems":       5,
			"showThumbnails": true,
		},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"maxItems":       map[string]any{"type": "integer", "minimum": 1, "maximum": 50},
				"showThumbnails": map[string]any{"type": "boolean"},
			},
		},
	},
	{
		Type:      "quick-actions",
		Label:     "Quick Actions",
		Icon:      "utility:apps",
		Component: "c-quick-actions-widget",
		DefaultConfig: map[string]any{
			"actions": []any{"create-flow", "run-analysis", "view-reports"},
			"layout":  "grid",
		},
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"actions": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"layout":  map[string]any{"type": "string"},
			},
		},
	},
}

// DefaultOptions returns the selectable layout arrangements.
func DefaultOptions() []Option {
	return append([]Option{}, defaultOptions...)
}

// LookupOption finds the layout option for a layout type.
func LookupOption(t Type) (Option, bool) {
	for _, opt := range defaultOptions {
		if opt.Value == t {
			return opt, true
		}
	}
	return Option{}, false
}

// DefaultWidgetTypes returns the built-in widget catalog entries.
func DefaultWidgetTypes() []WidgetType {
	out := make([]WidgetType, len(defaultWidgetTypes))
	for i, wt := range defaultWidgetTypes {
		out[i] = wt
		out[i].DefaultConfig = copyConfig(wt.DefaultConfig)
	}
	return out
}

// DefaultConfig returns the built-in layout: three columns seeded with one
// metrics, chart and notifications widget each.
func DefaultConfig(catalog CatalogReader) Config {
	config := func(widgetType string) map[string]any {
		if catalog != nil {
			if wt, ok := catalog.Lookup(widgetType); ok {
				return copyConfig(wt.DefaultConfig)
			}
		}
		for _, wt := range defaultWidgetTypes {
			if wt.Type == widgetType {
				return copyConfig(wt.DefaultConfig)
			}
		}
		return map[string]any{}
	}
	chart := config("chart")
	chart["title"] = "Execution Trends"
	return Config{
		Type:    TypeThreeColumn,
		Columns: FixedColumns(3),
		Widgets: []Widget{
			{ID: "widget-1", Type: "metrics", Column: 1, Order: 1, Config: config("metrics")},
			{ID: "widget-2", Type: "chart", Column: 2, Order: 1, Config: chart},
			{ID: "widget-3", Type: "notifications", Column: 3, Order: 1, Config: config("notifications")},
		},
	}
}

// StorageKey returns the preference store key for a layout identifier.
func StorageKey(layoutID string) string {
	if layoutID == "" {
		layoutID = DefaultLayoutID
	}
	return keyPrefix + layoutID
}

// LayoutIDFromKey reverses StorageKey.
func LayoutIDFromKey(key string) (string, bool) {
	id, ok := strings.CutPrefix(key, keyPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func copyConfig(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
