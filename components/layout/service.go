package layout

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Service hosts one Manager per layout identifier for multi-layout hosts
// (HTTP API, CLI). Managers are loaded lazily on first use.
type Service struct {
	opts     Options
	mu       sync.RWMutex
	managers map[string]*Manager
}

// NewService builds a Service instance with safe defaults.
func NewService(opts Options) *Service {
	return &Service{
		opts:     opts.withDefaults(),
		managers: map[string]*Manager{},
	}
}

// Manager returns the loaded manager for layoutID. A manager whose load hit a
// store failure is not cached, so the next call retries.
func (s *Service) Manager(ctx context.Context, layoutID string) (*Manager, error) {
	if layoutID == "" {
		layoutID = DefaultLayoutID
	}
	s.mu.RLock()
	m, ok := s.managers[layoutID]
	s.mu.RUnlock()
	if ok {
		return m, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.managers[layoutID]; ok {
		return m, nil
	}
	m = NewManager(layoutID, s.opts)
	if _, err := m.Load(ctx); err != nil {
		return m, err
	}
	s.managers[layoutID] = m
	s.opts.Logger.Debug("layout loaded", zap.String("layout_id", layoutID))
	return m, nil
}

// Catalog lists the available widget types.
func (s *Service) Catalog() []WidgetType {
	return s.opts.Catalog.Types()
}

// Options lists the selectable layout arrangements.
func (s *Service) Options() []Option {
	return DefaultOptions()
}

// ErrListUnsupported is returned by LayoutIDs when the store cannot list keys.
var ErrListUnsupported = errors.New("layout: store cannot list layouts")

// LayoutIDs lists the identifiers of every persisted layout.
func (s *Service) LayoutIDs(ctx context.Context) ([]string, error) {
	lister, ok := s.opts.Store.(KeyLister)
	if !ok {
		return nil, ErrListUnsupported
	}
	keys, err := lister.Keys(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if id, ok := LayoutIDFromKey(key); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Layout returns the configuration of a layout.
func (s *Service) Layout(ctx context.Context, layoutID string) (Config, error) {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return Config{}, err
	}
	return m.Config(), nil
}

// View returns the render-ready state of a layout.
func (s *Service) View(ctx context.Context, layoutID string) (View, error) {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return View{}, err
	}
	return m.View(), nil
}

// AddWidget adds a widget of widgetType to a layout.
func (s *Service) AddWidget(ctx context.Context, layoutID, widgetType string) (Widget, bool, error) {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return Widget{}, false, err
	}
	return m.AddWidget(ctx, widgetType)
}

// RemoveWidget removes a widget from a layout.
func (s *Service) RemoveWidget(ctx context.Context, layoutID, widgetID string) (bool, error) {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return false, err
	}
	return m.RemoveWidget(ctx, widgetID)
}

// DuplicateWidget clones a widget within a layout.
func (s *Service) DuplicateWidget(ctx context.Context, layoutID, widgetID string) (Widget, bool, error) {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return Widget{}, false, err
	}
	return m.DuplicateWidget(ctx, widgetID)
}

// MoveWidget repositions a widget within a layout.
func (s *Service) MoveWidget(ctx context.Context, layoutID, widgetID string, target DropTarget) (bool, error) {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return false, err
	}
	return m.MoveWidget(ctx, widgetID, target.Column, target.Order)
}

// UpdateWidgetConfig replaces a widget configuration.
func (s *Service) UpdateWidgetConfig(ctx context.Context, layoutID, widgetID string, config map[string]any) error {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return err
	}
	return m.UpdateWidgetConfig(ctx, widgetID, config)
}

// ConfigureWidget emits the configure event for a widget.
func (s *Service) ConfigureWidget(ctx context.Context, layoutID, widgetID string) (bool, error) {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return false, err
	}
	return m.ConfigureWidget(ctx, widgetID), nil
}

// ChangeLayout switches the layout type.
func (s *Service) ChangeLayout(ctx context.Context, layoutID string, t Type) error {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return err
	}
	return m.ChangeLayout(ctx, t)
}

// ResetLayout restores the default widgets of a layout.
func (s *Service) ResetLayout(ctx context.Context, layoutID string) error {
	m, err := s.Manager(ctx, layoutID)
	if err != nil {
		return err
	}
	return m.ResetLayout(ctx)
}

// Forget drops the cached manager so the next access reloads from the store.
func (s *Service) Forget(layoutID string) {
	if layoutID == "" {
		layoutID = DefaultLayoutID
	}
	s.mu.Lock()
	delete(s.managers, layoutID)
	s.mu.Unlock()
}
