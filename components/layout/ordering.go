package layout

import "sort"

// sortByColumn orders widgets by (column, order), keeping the relative order of ties.
func sortByColumn(widgets []Widget) {
	sort.SliceStable(widgets, func(i, j int) bool {
		if widgets[i].Column != widgets[j].Column {
			return widgets[i].Column < widgets[j].Column
		}
		return widgets[i].Order < widgets[j].Order
	})
}

// reorder renumbers each column's widgets 1..N following their current order.
// Widget positions in the slice are left untouched.
func reorder(widgets []Widget) {
	groups := map[int][]int{}
	for i, w := range widgets {
		groups[w.Column] = append(groups[w.Column], i)
	}
	for _, idx := range groups {
		sort.SliceStable(idx, func(a, b int) bool {
			return widgets[idx[a]].Order < widgets[idx[b]].Order
		})
		for pos, i := range idx {
			widgets[i].Order = pos + 1
		}
	}
}

// nextOrder returns the slot after the last widget in column.
func nextOrder(widgets []Widget, column int) int {
	max := 0
	for _, w := range widgets {
		if w.Column == column && w.Order > max {
			max = w.Order
		}
	}
	return max + 1
}

// move places the widget at index at (column, order) and shifts every other
// widget in that column at or after order down one slot. It builds a new
// slice from the snapshot so no intermediate state is observable.
func move(widgets []Widget, index, column, order int) []Widget {
	movedID := widgets[index].ID
	out := make([]Widget, len(widgets))
	for i, w := range widgets {
		switch {
		case i == index:
			w.Column = column
			w.Order = order
		case w.Column == column && w.ID != movedID && w.Order >= order:
			w.Order++
		}
		out[i] = w
	}
	reorder(out)
	return out
}

// redistribute assigns columns cyclically in slice order and renumbers.
func redistribute(widgets []Widget, columns int) {
	if columns <= 0 {
		return
	}
	for i := range widgets {
		widgets[i].Column = i%columns + 1
	}
	reorder(widgets)
}

// foldColumns moves widgets sitting past the last column to the end of the
// last column, keeping their relative order, and renumbers.
func foldColumns(widgets []Widget, columns int) bool {
	if columns <= 0 {
		return false
	}
	base := 0
	for _, w := range widgets {
		if w.Column == columns && w.Order > base {
			base = w.Order
		}
	}
	folded := false
	for i := range widgets {
		if widgets[i].Column > columns {
			// keep the source column in the order so folded columns stay grouped
			widgets[i].Order = base + (widgets[i].Column-columns)*len(widgets) + widgets[i].Order
			widgets[i].Column = columns
			folded = true
		}
	}
	if folded {
		reorder(widgets)
	}
	return folded
}

func indexOf(widgets []Widget, id string) int {
	for i, w := range widgets {
		if w.ID == id {
			return i
		}
	}
	return -1
}

func cloneWidgets(widgets []Widget) []Widget {
	out := make([]Widget, len(widgets))
	for i, w := range widgets {
		out[i] = w
		out[i].Config = copyConfig(w.Config)
	}
	return out
}
