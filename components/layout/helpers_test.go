package layout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func sequentialIDs(prefix string) IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

func (r *recordingNotifier) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return Notification{}
	}
	return r.notes[len(r.notes)-1]
}

func (r *recordingNotifier) count(v Variant) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, note := range r.notes {
		if note.Variant == v {
			n++
		}
	}
	return n
}

type recordingConfigureHook struct {
	events []ConfigureEvent
}

func (r *recordingConfigureHook) WidgetConfigure(_ context.Context, e ConfigureEvent) {
	r.events = append(r.events, e)
}

type failingStore struct {
	getErr error
	setErr error
}

func (f failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, f.getErr
}

func (f failingStore) Set(context.Context, string, string) error {
	return f.setErr
}

var errStoreDown = errors.New("store down")

// newTestManager loads a manager from raw JSON (or the default layout when raw is empty).
func newTestManager(t *testing.T, raw string, opts Options) (*Manager, *InMemoryStore) {
	t.Helper()
	store := NewInMemoryStore()
	if raw != "" {
		if err := store.Set(context.Background(), StorageKey("test"), raw); err != nil {
			t.Fatalf("seed store: %v", err)
		}
	}
	opts.Store = store
	if opts.NewID == nil {
		opts.NewID = sequentialIDs("w")
	}
	m := NewManager("test", opts)
	if _, err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return m, store
}

// assertDenseOrders fails when any column's orders are not exactly 1..N.
func assertDenseOrders(t *testing.T, widgets []Widget) {
	t.Helper()
	byColumn := map[int][]int{}
	for _, w := range widgets {
		byColumn[w.Column] = append(byColumn[w.Column], w.Order)
	}
	for column, orders := range byColumn {
		seen := make(map[int]bool, len(orders))
		for _, o := range orders {
			if o < 1 || o > len(orders) || seen[o] {
				t.Fatalf("column %d has non-dense orders %v", column, orders)
			}
			seen[o] = true
		}
	}
}

const emptyLayoutJSON = `{"type":"3-col","columns":3,"widgets":[]}`
