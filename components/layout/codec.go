package layout

import (
	"encoding/json"
	"fmt"
)

// Encode serializes a layout configuration for the preference store.
func Encode(cfg Config) (string, error) {
	if cfg.Widgets == nil {
		cfg.Widgets = []Widget{}
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("layout: encode config: %w", err)
	}
	return string(data), nil
}

// Decode parses a serialized layout configuration and normalizes it so the
// ordering invariants hold.
func Decode(raw string, newID IDGenerator) (Config, error) {
	var cfg Config
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return Config{}, fmt.Errorf("layout: decode config: %w", err)
	}
	if newID == nil {
		newID = NewWidgetID
	}
	normalize(&cfg, newID)
	return cfg, nil
}

// normalize repairs configurations written by older clients or by hand:
// missing layout type/columns, columns that disagree with the type, widget
// columns outside the layout, duplicate or empty ids, and gaps in column
// ordering.
func normalize(cfg *Config, newID IDGenerator) {
	if _, ok := LookupOption(cfg.Type); !ok {
		if cfg.Columns.IsZero() {
			cfg.Columns = FixedColumns(defaultColumnCount)
		}
		cfg.Type = typeForColumns(cfg.Columns)
	}
	opt, _ := LookupOption(cfg.Type)
	cfg.Columns = opt.Columns
	if cfg.Widgets == nil {
		cfg.Widgets = []Widget{}
	}
	seen := make(map[string]struct{}, len(cfg.Widgets))
	for i := range cfg.Widgets {
		w := &cfg.Widgets[i]
		if _, dup := seen[w.ID]; w.ID == "" || dup {
			w.ID = newID()
		}
		seen[w.ID] = struct{}{}
		if w.Column < 1 {
			w.Column = 1
		}
		if w.Config == nil {
			w.Config = map[string]any{}
		}
	}
	reorder(cfg.Widgets)
	foldColumns(cfg.Widgets, cfg.ColumnCount())
	sortByColumn(cfg.Widgets)
}

func typeForColumns(c Columns) Type {
	if n, ok := c.Count(); ok {
		switch n {
		case 2:
			return TypeTwoColumn
		case 4:
			return TypeFourColumn
		default:
			return TypeThreeColumn
		}
	}
	if c.String() == columnsMasonry {
		return TypeMasonry
	}
	return TypeGrid
}
