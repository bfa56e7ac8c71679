package layout

import "context"

// Store persists serialized layout configurations keyed by layout identifier.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Notifier delivers user-facing status messages. Delivery is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// ConfigureHook receives widget-configure requests so the host can open its
// configuration surface.
type ConfigureHook interface {
	WidgetConfigure(ctx context.Context, event ConfigureEvent)
}

// CatalogReader exposes the widget type catalog to the manager.
type CatalogReader interface {
	Lookup(widgetType string) (WidgetType, bool)
	Types() []WidgetType
}

// WidgetType is a catalog entry describing a kind of widget and its default configuration.
type WidgetType struct {
	Type          string         `json:"type" yaml:"type"`
	Label         string         `json:"label" yaml:"label"`
	Icon          string         `json:"icon,omitempty" yaml:"icon,omitempty"`
	Component     string         `json:"component,omitempty" yaml:"component,omitempty"`
	DefaultConfig map[string]any `json:"defaultConfig,omitempty" yaml:"default_config,omitempty"`
	Schema        map[string]any `json:"schema,omitempty" yaml:"schema,omitempty"`
}

// Widget is a positioned instance of a widget type.
type Widget struct {
	ID     string         `json:"id" yaml:"id"`
	Type   string         `json:"type" yaml:"type"`
	Column int            `json:"column" yaml:"column"`
	Order  int            `json:"order" yaml:"order"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Type enumerates the supported layout arrangements.
type Type string

const (
	TypeTwoColumn   Type = "2-col"
	TypeThreeColumn Type = "3-col"
	TypeFourColumn  Type = "4-col"
	TypeGrid        Type = "grid"
	TypeMasonry     Type = "masonry"
)

// Config is the persisted arrangement of widgets for a single layout identifier.
type Config struct {
	Type    Type     `json:"type" yaml:"type"`
	Columns Columns  `json:"columns" yaml:"columns"`
	Widgets []Widget `json:"widgets" yaml:"widgets"`
}

// Option describes a selectable layout arrangement.
type Option struct {
	Label   string  `json:"label" yaml:"label"`
	Value   Type    `json:"value" yaml:"value"`
	Columns Columns `json:"columns" yaml:"columns"`
}

// Variant classifies notifications.
type Variant string

const (
	VariantSuccess Variant = "success"
	VariantError   Variant = "error"
	VariantInfo    Variant = "info"
	VariantWarning Variant = "warning"
)

// Notification is a user-facing status message.
type Notification struct {
	LayoutID string  `json:"layout_id,omitempty"`
	Title    string  `json:"title"`
	Message  string  `json:"message"`
	Variant  Variant `json:"variant"`
}

// ConfigureEvent asks the host to open the configuration surface for a widget.
type ConfigureEvent struct {
	LayoutID string `json:"layout_id"`
	Widget   Widget `json:"widget"`
}

// DropTarget identifies the column/order slot a dragged widget is released over.
type DropTarget struct {
	Column int `json:"column"`
	Order  int `json:"order"`
}
