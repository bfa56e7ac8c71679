package layout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrInvalidColumn     = errors.New("layout: column must be between 1 and the layout column count")
	ErrUnknownLayoutType = errors.New("layout: unknown layout type")
	ErrWidgetNotFound    = errors.New("layout: widget not found")
	ErrUnknownWidgetType = errors.New("layout: unknown widget type")
	ErrInvalidConfig     = errors.New("layout: invalid widget configuration")
)

// Options configures managers and the Service. Every collaborator is an
// interface so hosts can swap implementations.
type Options struct {
	Store               Store
	Catalog             CatalogReader
	Validator           ConfigValidator
	Notifier            Notifier
	ConfigureHook       ConfigureHook
	Logger              *zap.Logger
	NewID               IDGenerator
	EnableDragDrop      bool
	EnableCustomization bool
}

func (opts Options) withDefaults() Options {
	if opts.Store == nil {
		opts.Store = NewInMemoryStore()
	}
	if opts.Catalog == nil {
		opts.Catalog = NewCatalog()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Notifier == nil {
		opts.Notifier = noopNotifier{}
	}
	if opts.ConfigureHook == nil {
		opts.ConfigureHook = noopConfigureHook{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = NewWidgetID
	}
	return opts
}

// Manager owns the widget layout of a single layout identifier. Every
// operation runs to completion under the manager lock against the latest
// state; notifications are emitted after the lock is released.
type Manager struct {
	mu       sync.Mutex
	layoutID string
	opts     Options
	logger   *zap.Logger

	config   Config
	editMode bool
	drag     dragState
}

// NewManager builds a manager holding the default layout. Call Load to read
// the persisted configuration.
func NewManager(layoutID string, opts Options) *Manager {
	if layoutID == "" {
		layoutID = DefaultLayoutID
	}
	opts = opts.withDefaults()
	return &Manager{
		layoutID: layoutID,
		opts:     opts,
		logger:   opts.Logger.With(zap.String("layout_id", layoutID)),
		config:   DefaultConfig(opts.Catalog),
	}
}

// LayoutID returns the identifier the manager persists under.
func (m *Manager) LayoutID() string {
	return m.layoutID
}

// Load reads the persisted configuration. Absent data yields the default
// layout; malformed data also yields the default layout plus a warning
// notification. A store failure keeps the default layout and is returned.
func (m *Manager) Load(ctx context.Context) (Config, error) {
	key := StorageKey(m.layoutID)
	raw, ok, err := m.opts.Store.Get(ctx, key)

	m.mu.Lock()
	var note *Notification
	switch {
	case err != nil:
		m.logger.Error("read layout", zap.String("key", key), zap.Error(err))
		m.config = DefaultConfig(m.opts.Catalog)
		err = fmt.Errorf("layout: read %s: %w", key, err)
	case !ok:
		m.config = DefaultConfig(m.opts.Catalog)
	default:
		cfg, decodeErr := Decode(raw, m.opts.NewID)
		if decodeErr != nil {
			m.logger.Warn("stored layout is malformed, using default", zap.String("key", key), zap.Error(decodeErr))
			m.config = DefaultConfig(m.opts.Catalog)
			note = m.notification("Warning", "Saved layout could not be read; the default layout was restored", VariantWarning)
		} else {
			m.config = cfg
		}
	}
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	m.notify(ctx, note)
	return snapshot, err
}

// Save persists the current configuration and emits a success notification.
func (m *Manager) Save(ctx context.Context) error {
	m.mu.Lock()
	note, err := m.persistLocked(ctx)
	m.mu.Unlock()
	m.notify(ctx, note)
	return err
}

// Config returns a deep copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// AddWidget appends a widget of the given type to the end of column 1 using a
// copy of the type's default configuration. Unknown types are ignored.
func (m *Manager) AddWidget(ctx context.Context, widgetType string) (Widget, bool, error) {
	wt, ok := m.opts.Catalog.Lookup(widgetType)
	if !ok {
		m.logger.Debug("add widget ignored: unknown type", zap.String("type", widgetType))
		return Widget{}, false, nil
	}
	var added Widget
	_, err := m.mutate(ctx, func(cfg *Config) bool {
		added = Widget{
			ID:     m.opts.NewID(),
			Type:   wt.Type,
			Column: 1,
			Order:  nextOrder(cfg.Widgets, 1),
			Config: copyConfig(wt.DefaultConfig),
		}
		cfg.Widgets = append(cfg.Widgets, added)
		return true
	})
	added = m.widget(added.ID, added)
	return added, true, err
}

// RemoveWidget deletes a widget and closes the gap in its column.
func (m *Manager) RemoveWidget(ctx context.Context, id string) (bool, error) {
	return m.mutate(ctx, func(cfg *Config) bool {
		idx := indexOf(cfg.Widgets, id)
		if idx < 0 {
			m.logger.Debug("remove widget ignored: unknown id", zap.String("widget_id", id))
			return false
		}
		cfg.Widgets = append(cfg.Widgets[:idx:idx], cfg.Widgets[idx+1:]...)
		return true
	})
}

// DuplicateWidget clones a widget under a new id at the end of its column.
func (m *Manager) DuplicateWidget(ctx context.Context, id string) (Widget, bool, error) {
	var dup Widget
	changed, err := m.mutate(ctx, func(cfg *Config) bool {
		idx := indexOf(cfg.Widgets, id)
		if idx < 0 {
			m.logger.Debug("duplicate widget ignored: unknown id", zap.String("widget_id", id))
			return false
		}
		src := cfg.Widgets[idx]
		dup = Widget{
			ID:     m.opts.NewID(),
			Type:   src.Type,
			Column: src.Column,
			Order:  nextOrder(cfg.Widgets, src.Column),
			Config: copyConfig(src.Config),
		}
		cfg.Widgets = append(cfg.Widgets, dup)
		return true
	})
	if !changed {
		return Widget{}, false, err
	}
	return m.widget(dup.ID, dup), true, err
}

// MoveWidget places a widget at (column, order), shifting the widgets already
// occupying that slot or later in the target column. Orders below 1 are
// clamped to 1; columns outside the layout are rejected.
func (m *Manager) MoveWidget(ctx context.Context, id string, column, order int) (bool, error) {
	if column < 1 {
		return false, fmt.Errorf("%w: got %d", ErrInvalidColumn, column)
	}
	if order < 1 {
		order = 1
	}
	var rangeErr error
	changed, err := m.mutate(ctx, func(cfg *Config) bool {
		if n := cfg.ColumnCount(); column > n {
			rangeErr = fmt.Errorf("%w: got %d, layout has %d", ErrInvalidColumn, column, n)
			return false
		}
		idx := indexOf(cfg.Widgets, id)
		if idx < 0 {
			m.logger.Debug("move widget ignored: unknown id", zap.String("widget_id", id))
			return false
		}
		cfg.Widgets = move(cfg.Widgets, idx, column, order)
		return true
	})
	if rangeErr != nil {
		return false, rangeErr
	}
	return changed, err
}

// ChangeLayout switches the layout type. Fixed layouts reflow every widget
// across the new column count; flowing layouts fold widgets past their last
// column into it.
func (m *Manager) ChangeLayout(ctx context.Context, t Type) error {
	opt, ok := LookupOption(t)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayoutType, t)
	}
	_, err := m.mutate(ctx, func(cfg *Config) bool {
		cfg.Type = opt.Value
		cfg.Columns = opt.Columns
		if n, ok := cfg.Columns.Count(); ok {
			redistribute(cfg.Widgets, n)
		} else {
			foldColumns(cfg.Widgets, cfg.ColumnCount())
		}
		return true
	})
	return err
}

// ResetLayout restores the default widgets.
func (m *Manager) ResetLayout(ctx context.Context) error {
	_, err := m.mutate(ctx, func(cfg *Config) bool {
		cfg.Widgets = DefaultConfig(m.opts.Catalog).Widgets
		return true
	})
	if err == nil {
		m.notify(ctx, m.notification("Success", "Layout reset to default", VariantSuccess))
	}
	return err
}

// UpdateWidgetConfig replaces a widget's configuration after validating it
// against the widget type schema.
func (m *Manager) UpdateWidgetConfig(ctx context.Context, id string, config map[string]any) error {
	current, ok := m.find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}
	if wt, ok := m.opts.Catalog.Lookup(current.Type); ok {
		if err := m.opts.Validator.Validate(wt, config); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
	}
	changed, err := m.mutate(ctx, func(cfg *Config) bool {
		idx := indexOf(cfg.Widgets, id)
		if idx < 0 {
			return false
		}
		cfg.Widgets[idx].Config = copyConfig(config)
		return true
	})
	if !changed && err == nil {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, id)
	}
	return err
}

// ConfigureWidget asks the host to open the configuration surface for a widget.
func (m *Manager) ConfigureWidget(ctx context.Context, id string) bool {
	w, ok := m.find(id)
	if !ok {
		m.logger.Debug("configure widget ignored: unknown id", zap.String("widget_id", id))
		return false
	}
	m.opts.ConfigureHook.WidgetConfigure(ctx, ConfigureEvent{LayoutID: m.layoutID, Widget: w})
	return true
}

// ToggleEditMode flips edit mode and returns the new state.
func (m *Manager) ToggleEditMode(ctx context.Context) bool {
	m.mu.Lock()
	m.editMode = !m.editMode
	enabled := m.editMode
	if !enabled {
		m.drag = dragState{}
	}
	m.mu.Unlock()
	if enabled {
		m.notify(ctx, m.notification("Info", "Edit mode enabled. Drag widgets to rearrange.", VariantInfo))
	}
	return enabled
}

// EditMode reports whether edit mode is active.
func (m *Manager) EditMode() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.editMode
}

// mutate applies fn to the live configuration, restores the ordering
// invariants and persists. fn reports whether it changed anything.
func (m *Manager) mutate(ctx context.Context, fn func(cfg *Config) bool) (bool, error) {
	m.mu.Lock()
	if !fn(&m.config) {
		m.mu.Unlock()
		return false, nil
	}
	reorder(m.config.Widgets)
	sortByColumn(m.config.Widgets)
	note, err := m.persistLocked(ctx)
	m.mu.Unlock()

	m.notify(ctx, note)
	return true, err
}

func (m *Manager) persistLocked(ctx context.Context) (*Notification, error) {
	key := StorageKey(m.layoutID)
	raw, err := Encode(m.config)
	if err == nil {
		err = m.opts.Store.Set(ctx, key, raw)
	}
	if err != nil {
		m.logger.Error("save layout", zap.String("key", key), zap.Error(err))
		return m.notification("Error", "Layout could not be saved", VariantError), fmt.Errorf("layout: save %s: %w", key, err)
	}
	return m.notification("Success", "Layout saved successfully", VariantSuccess), nil
}

func (m *Manager) notification(title, message string, variant Variant) *Notification {
	return &Notification{LayoutID: m.layoutID, Title: title, Message: message, Variant: variant}
}

func (m *Manager) notify(ctx context.Context, note *Notification) {
	if note == nil {
		return
	}
	m.opts.Notifier.Notify(ctx, *note)
}

func (m *Manager) find(id string) (Widget, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := indexOf(m.config.Widgets, id)
	if idx < 0 {
		return Widget{}, false
	}
	w := m.config.Widgets[idx]
	w.Config = copyConfig(w.Config)
	return w, true
}

func (m *Manager) widget(id string, fallback Widget) Widget {
	if w, ok := m.find(id); ok {
		return w
	}
	return fallback
}

func (m *Manager) snapshotLocked() Config {
	cfg := m.config
	cfg.Widgets = cloneWidgets(m.config.Widgets)
	return cfg
}
