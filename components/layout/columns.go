package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	columnsAuto    = "auto"
	columnsMasonry = "masonry"
)

// Columns holds either a fixed positive column count or one of the flowing
// modes ("auto" for grid layouts, "masonry" for masonry layouts).
type Columns struct {
	count int
	mode  string
}

// FixedColumns returns a numeric column count.
func FixedColumns(n int) Columns {
	return Columns{count: n}
}

// AutoColumns is the column value used by grid layouts.
func AutoColumns() Columns {
	return Columns{mode: columnsAuto}
}

// MasonryColumns is the column value used by masonry layouts.
func MasonryColumns() Columns {
	return Columns{mode: columnsMasonry}
}

// Count reports the numeric column count, if any.
func (c Columns) Count() (int, bool) {
	if c.mode != "" || c.count <= 0 {
		return 0, false
	}
	return c.count, true
}

// IsZero reports whether no column value was set.
func (c Columns) IsZero() bool {
	return c.mode == "" && c.count == 0
}

func (c Columns) String() string {
	if c.mode != "" {
		return c.mode
	}
	return strconv.Itoa(c.count)
}

// MarshalJSON encodes numeric counts as numbers and modes as strings.
func (c Columns) MarshalJSON() ([]byte, error) {
	if c.mode != "" {
		return json.Marshal(c.mode)
	}
	return json.Marshal(c.count)
}

// UnmarshalJSON accepts a number, a numeric string, "auto" or "masonry".
func (c *Columns) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Columns{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		return c.parse(raw)
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("layout: columns must be a number or mode: %w", err)
	}
	if n <= 0 {
		return fmt.Errorf("layout: columns must be positive, got %d", n)
	}
	*c = FixedColumns(n)
	return nil
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (c Columns) MarshalYAML() (any, error) {
	if c.mode != "" {
		return c.mode, nil
	}
	return c.count, nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (c *Columns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("layout: columns must be a scalar")
	}
	return c.parse(node.Value)
}

func (c *Columns) parse(raw string) error {
	switch raw {
	case columnsAuto:
		*c = AutoColumns()
		return nil
	case columnsMasonry:
		*c = MasonryColumns()
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fmt.Errorf("layout: unsupported columns value %q", raw)
	}
	*c = FixedColumns(n)
	return nil
}
