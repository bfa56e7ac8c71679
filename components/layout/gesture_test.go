package layout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDragHandlersRequireEditModeAndDragDrop(t *testing.T) {
	m, _ := newTestManager(t, "", Options{EnableDragDrop: false})
	m.ToggleEditMode(context.Background())
	assert.False(t, m.DragStart("widget-1"))
	assert.False(t, m.DragOver(DropTarget{Column: 1, Order: 1}))

	m, _ = newTestManager(t, "", Options{EnableDragDrop: true})
	assert.False(t, m.DragStart("widget-1"), "edit mode is off")
	ok, err := m.Drop(context.Background(), DropTarget{Column: 2, Order: 1})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDragAndDropMovesWidget(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, "", Options{EnableDragDrop: true})
	require.True(t, m.ToggleEditMode(ctx))

	require.True(t, m.DragStart("widget-3"))
	assert.Equal(t, DragDragging, m.Phase())
	assert.Equal(t, "widget-3", m.View().DraggingID)

	require.True(t, m.DragOver(DropTarget{Column: 1, Order: 1}))
	assert.True(t, m.View().DropZoneActive)

	moved, err := m.Drop(ctx, DropTarget{Column: 1, Order: 1})
	require.NoError(t, err)
	require.True(t, moved)
	assert.False(t, m.View().DropZoneActive)
	assert.Equal(t, DragDropped, m.DragEnd())
	assert.Equal(t, DragIdle, m.Phase())

	cols := m.Config().WidgetsByColumn()
	assert.Equal(t, "widget-3", cols[1][0].ID)
	assert.Equal(t, 2, cols[1][1].Order)
}

func TestDragEndWithoutDropIsCancelled(t *testing.T) {
	m, _ := newTestManager(t, "", Options{EnableDragDrop: true})
	m.ToggleEditMode(context.Background())
	require.True(t, m.DragStart("widget-1"))
	m.DragOver(DropTarget{Column: 2})
	assert.Equal(t, DragCancelled, m.DragEnd())

	view := m.View()
	assert.Empty(t, view.DraggingID)
	assert.False(t, view.DropZoneActive)
	assert.Equal(t, DragIdle, m.DragEnd())
}

func TestDragLeaveIgnoresChildEvents(t *testing.T) {
	m, _ := newTestManager(t, "", Options{EnableDragDrop: true})
	m.ToggleEditMode(context.Background())
	m.DragStart("widget-1")
	m.DragOver(DropTarget{Column: 1, Order: 1})

	m.DragLeave(false)
	assert.True(t, m.View().DropZoneActive)
	m.DragLeave(true)
	assert.False(t, m.View().DropZoneActive)
}

func TestDropReadsLatestState(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, "", Options{EnableDragDrop: true})
	m.ToggleEditMode(ctx)
	require.True(t, m.DragStart("widget-2"))
	_, err := m.RemoveWidget(ctx, "widget-2")
	require.NoError(t, err)

	moved, err := m.Drop(ctx, DropTarget{Column: 1, Order: 1})
	require.NoError(t, err)
	assert.False(t, moved)
	assertDenseOrders(t, m.Config().Widgets)
}

func TestLeavingEditModeClearsDrag(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, "", Options{EnableDragDrop: true})
	m.ToggleEditMode(ctx)
	m.DragStart("widget-1")
	assert.False(t, m.ToggleEditMode(ctx))
	assert.Equal(t, DragIdle, m.Phase())
	assert.False(t, m.Draggable())
}

func TestParseDropTarget(t *testing.T) {
	target, err := ParseDropTarget("2", "")
	require.NoError(t, err)
	assert.Equal(t, DropTarget{Column: 2, Order: 1}, target)

	target, err = ParseDropTarget(" 3 ", "4")
	require.NoError(t, err)
	assert.Equal(t, DropTarget{Column: 3, Order: 4}, target)

	_, err = ParseDropTarget("x", "1")
	assert.Error(t, err)
	_, err = ParseDropTarget("1", "y")
	assert.Error(t, err)
}
