package layout

import (
	"context"
	"errors"
	"math/rand"
	"testing"
)

func TestRandomOperationsKeepOrdersDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	types := []string{"chart", "metrics", "notifications", "recent-flows", "quick-actions", "unknown"}
	ctx := context.Background()

	for run := 0; run < 20; run++ {
		m, _ := newTestManager(t, "", Options{})
		for step := 0; step < 60; step++ {
			widgets := m.Config().Widgets
			pick := func() string {
				if len(widgets) == 0 {
					return "missing"
				}
				return widgets[rng.Intn(len(widgets))].ID
			}
			var err error
			switch rng.Intn(5) {
			case 0:
				_, _, err = m.AddWidget(ctx, types[rng.Intn(len(types))])
			case 1:
				_, err = m.RemoveWidget(ctx, pick())
			case 2:
				_, _, err = m.DuplicateWidget(ctx, pick())
			case 3:
				_, err = m.MoveWidget(ctx, pick(), 1+rng.Intn(3), 1+rng.Intn(6))
			case 4:
				options := []Type{TypeTwoColumn, TypeThreeColumn, TypeFourColumn, TypeGrid, TypeMasonry}
				err = m.ChangeLayout(ctx, options[rng.Intn(len(options))])
			}
			if err != nil && !isColumnRange(err) {
				t.Fatalf("run %d step %d: unexpected error %v", run, step, err)
			}
			assertDenseOrders(t, m.Config().Widgets)
		}
	}
}

func isColumnRange(err error) bool {
	return err != nil && errors.Is(err, ErrInvalidColumn)
}

func TestMoveNeverDuplicatesOrders(t *testing.T) {
	base := []Widget{
		{ID: "a", Column: 1, Order: 1},
		{ID: "b", Column: 1, Order: 2},
		{ID: "c", Column: 1, Order: 3},
		{ID: "d", Column: 2, Order: 1},
		{ID: "e", Column: 2, Order: 2},
	}
	for idx := range base {
		for column := 1; column <= 3; column++ {
			for order := 1; order <= 6; order++ {
				out := move(cloneWidgets(base), idx, column, order)
				assertDenseOrders(t, out)
				if out[idx].Column != column {
					t.Fatalf("moved widget landed in column %d, want %d", out[idx].Column, column)
				}
			}
		}
	}
}

func TestMoveDoesNotMutateInput(t *testing.T) {
	in := []Widget{{ID: "a", Column: 1, Order: 1}, {ID: "b", Column: 1, Order: 2}}
	_ = move(in, 1, 1, 1)
	if in[0].Order != 1 || in[1].Order != 2 {
		t.Fatalf("move mutated its input: %#v", in)
	}
}

func TestRedistributeAssignsColumnsCyclically(t *testing.T) {
	widgets := make([]Widget, 7)
	for i := range widgets {
		widgets[i] = Widget{ID: string(rune('a' + i)), Column: 1, Order: i + 1}
	}
	redistribute(widgets, 3)
	for i, w := range widgets {
		if want := i%3 + 1; w.Column != want {
			t.Fatalf("widget %d: column %d, want %d", i, w.Column, want)
		}
	}
	assertDenseOrders(t, widgets)
	if widgets[0].Order != 1 || widgets[3].Order != 2 || widgets[6].Order != 3 {
		t.Fatalf("expected column 1 to keep array order, got %#v", widgets)
	}
}

func TestSortByColumnIsStable(t *testing.T) {
	widgets := []Widget{
		{ID: "x", Column: 2, Order: 1},
		{ID: "y", Column: 1, Order: 1},
		{ID: "z", Column: 1, Order: 1},
	}
	sortByColumn(widgets)
	if widgets[0].ID != "y" || widgets[1].ID != "z" || widgets[2].ID != "x" {
		t.Fatalf("unexpected order: %#v", widgets)
	}
}

func TestNextOrder(t *testing.T) {
	widgets := []Widget{{Column: 1, Order: 1}, {Column: 1, Order: 2}, {Column: 2, Order: 1}}
	if got := nextOrder(widgets, 1); got != 3 {
		t.Fatalf("expected 3, got %d", got)
	}
	if got := nextOrder(widgets, 3); got != 1 {
		t.Fatalf("expected 1 for empty column, got %d", got)
	}
}
