package layout

import (
	"fmt"
	"sort"
	"strings"
)

const defaultColumnCount = 3

// ColumnCount is the numeric column count, or 3 for flowing layouts.
func (c Config) ColumnCount() int {
	if n, ok := c.Columns.Count(); ok {
		return n
	}
	return defaultColumnCount
}

// WidgetsByColumn buckets widgets into columns 1..ColumnCount, each sorted by order.
func (c Config) WidgetsByColumn() map[int][]Widget {
	count := c.ColumnCount()
	columns := make(map[int][]Widget, count)
	for i := 1; i <= count; i++ {
		bucket := []Widget{}
		for _, w := range c.Widgets {
			if w.Column == i {
				bucket = append(bucket, w)
			}
		}
		sort.SliceStable(bucket, func(a, b int) bool { return bucket[a].Order < bucket[b].Order })
		columns[i] = bucket
	}
	return columns
}

// ColumnStyle renders the grid-template-columns declaration for the layout.
func (c Config) ColumnStyle() string {
	if c.Type == TypeGrid {
		return "grid-template-columns: repeat(auto-fit, minmax(300px, 1fr));"
	}
	if n, ok := c.Columns.Count(); ok {
		return fmt.Sprintf("grid-template-columns: repeat(%d, 1fr);", n)
	}
	return fmt.Sprintf("grid-template-columns: repeat(%d, 1fr);", defaultColumnCount)
}

// EditButton is the label/icon/variant triple of the edit-mode toggle.
type EditButton struct {
	Label   string `json:"label" yaml:"label"`
	Icon    string `json:"icon" yaml:"icon"`
	Variant string `json:"variant" yaml:"variant"`
}

// EditButtonFor returns the toggle presentation for the given edit mode.
func EditButtonFor(editMode bool) EditButton {
	if editMode {
		return EditButton{Label: "Exit Edit Mode", Icon: "utility:close", Variant: "neutral"}
	}
	return EditButton{Label: "Edit Layout", Icon: "utility:edit", Variant: "brand"}
}

// WidgetView is a widget decorated with its catalog metadata for rendering.
type WidgetView struct {
	Widget    `yaml:",inline"`
	Label     string `json:"label" yaml:"label"`
	Icon      string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Component string `json:"component,omitempty" yaml:"component,omitempty"`
	Dragging  bool   `json:"dragging" yaml:"dragging"`
}

// ColumnView is one rendered column.
type ColumnView struct {
	Index   int          `json:"index" yaml:"index"`
	Widgets []WidgetView `json:"widgets" yaml:"widgets"`
}

// View is the render-ready state of a layout. It is derived on every call and
// never stored.
type View struct {
	LayoutID          string       `json:"layout_id" yaml:"layout_id"`
	Type              Type         `json:"type" yaml:"type"`
	ColumnCount       int          `json:"column_count" yaml:"column_count"`
	ColumnStyle       string       `json:"column_style" yaml:"column_style"`
	LayoutClass       string       `json:"layout_class" yaml:"layout_class"`
	Columns           []ColumnView `json:"columns" yaml:"columns"`
	HasWidgets        bool         `json:"has_widgets" yaml:"has_widgets"`
	EmptyStateMessage string       `json:"empty_state_message" yaml:"empty_state_message"`
	EditMode          bool         `json:"edit_mode" yaml:"edit_mode"`
	EditButton        EditButton   `json:"edit_button" yaml:"edit_button"`
	Draggable         bool         `json:"draggable" yaml:"draggable"`
	DropZoneActive    bool         `json:"drop_zone_active" yaml:"drop_zone_active"`
	DraggingID        string       `json:"dragging_id,omitempty" yaml:"dragging_id,omitempty"`
}

// View derives the render-ready state from the current configuration.
func (m *Manager) View() View {
	m.mu.Lock()
	cfg := m.snapshotLocked()
	editMode := m.editMode
	draggable := m.draggableLocked()
	drag := m.drag
	m.mu.Unlock()

	count := cfg.ColumnCount()
	byColumn := cfg.WidgetsByColumn()
	columns := make([]ColumnView, 0, count)
	for i := 1; i <= count; i++ {
		col := ColumnView{Index: i, Widgets: []WidgetView{}}
		for _, w := range byColumn[i] {
			wv := WidgetView{Widget: w, Label: w.Type, Dragging: w.ID == drag.widgetID}
			if wt, ok := m.opts.Catalog.Lookup(w.Type); ok {
				wv.Label = wt.Label
				wv.Icon = wt.Icon
				wv.Component = wt.Component
			}
			col.Widgets = append(col.Widgets, wv)
		}
		columns = append(columns, col)
	}

	return View{
		LayoutID:          m.layoutID,
		Type:              cfg.Type,
		ColumnCount:       count,
		ColumnStyle:       cfg.ColumnStyle(),
		LayoutClass:       layoutClass(cfg.Type, editMode, drag.dropZoneActive),
		Columns:           columns,
		HasWidgets:        len(cfg.Widgets) > 0,
		EmptyStateMessage: emptyStateMessage(m.opts.EnableCustomization),
		EditMode:          editMode,
		EditButton:        EditButtonFor(editMode),
		Draggable:         draggable,
		DropZoneActive:    drag.dropZoneActive,
		DraggingID:        drag.widgetID,
	}
}

func layoutClass(t Type, editMode, dropZoneActive bool) string {
	classes := []string{"dashboard-layout", "layout-" + string(t)}
	if editMode {
		classes = append(classes, "edit-mode")
	}
	if dropZoneActive {
		classes = append(classes, "drop-zone-active")
	}
	return strings.Join(classes, " ")
}

func emptyStateMessage(customizable bool) string {
	if customizable {
		return "Start customizing your dashboard by adding widgets."
	}
	return "No widgets configured for this dashboard."
}
