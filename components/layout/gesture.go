package layout

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DragPhase is the state of the drag-and-drop gesture.
type DragPhase int

const (
	DragIdle DragPhase = iota
	DragDragging
	DragDropped
	DragCancelled
)

func (p DragPhase) String() string {
	switch p {
	case DragDragging:
		return "dragging"
	case DragDropped:
		return "dropped"
	case DragCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

type dragState struct {
	phase          DragPhase
	widgetID       string
	dropZoneActive bool
}

// ParseDropTarget translates drop-zone data attributes into a target. An
// empty order means the first slot.
func ParseDropTarget(column, order string) (DropTarget, error) {
	col, err := strconv.Atoi(strings.TrimSpace(column))
	if err != nil {
		return DropTarget{}, fmt.Errorf("layout: drop target column %q: %w", column, err)
	}
	target := DropTarget{Column: col, Order: 1}
	if order = strings.TrimSpace(order); order != "" {
		ord, err := strconv.Atoi(order)
		if err != nil {
			return DropTarget{}, fmt.Errorf("layout: drop target order %q: %w", order, err)
		}
		target.Order = ord
	}
	return target, nil
}

// Draggable reports whether drag-and-drop is enabled and edit mode is active.
func (m *Manager) Draggable() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draggableLocked()
}

func (m *Manager) draggableLocked() bool {
	return m.opts.EnableDragDrop && m.editMode
}

// DragStart records the widget being dragged. It returns false when dragging
// is not permitted or the widget does not exist.
func (m *Manager) DragStart(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.draggableLocked() {
		return false
	}
	if indexOf(m.config.Widgets, id) < 0 {
		m.logger.Debug("drag start ignored: unknown id", zap.String("widget_id", id))
		return false
	}
	m.drag = dragState{phase: DragDragging, widgetID: id}
	return true
}

// DragOver marks the drop zone active. A true result tells the host to
// suppress its default drop rejection so the drop can happen.
func (m *Manager) DragOver(DropTarget) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.draggableLocked() {
		return false
	}
	m.drag.dropZoneActive = true
	return true
}

// DragLeave clears the active drop zone when the pointer leaves the
// container. Leave events bubbling up from child elements pass
// exitsContainer=false and are ignored.
func (m *Manager) DragLeave(exitsContainer bool) {
	if !exitsContainer {
		return
	}
	m.mu.Lock()
	m.drag.dropZoneActive = false
	m.mu.Unlock()
}

// Drop moves the dragged widget to the target slot.
func (m *Manager) Drop(ctx context.Context, target DropTarget) (bool, error) {
	m.mu.Lock()
	if !m.draggableLocked() {
		m.mu.Unlock()
		return false, nil
	}
	id := m.drag.widgetID
	m.drag.dropZoneActive = false
	m.drag.widgetID = ""
	if id == "" {
		m.mu.Unlock()
		return false, nil
	}
	m.drag.phase = DragDropped
	m.mu.Unlock()

	return m.MoveWidget(ctx, id, target.Column, target.Order)
}

// DragEnd clears all transient drag state and reports how the gesture ended.
func (m *Manager) DragEnd() DragPhase {
	m.mu.Lock()
	defer m.mu.Unlock()
	outcome := m.drag.phase
	if outcome == DragDragging {
		outcome = DragCancelled
	}
	m.drag = dragState{}
	return outcome
}

// Phase returns the current gesture phase.
func (m *Manager) Phase() DragPhase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drag.phase
}
