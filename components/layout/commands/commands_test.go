package commands

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-flowsense/components/layout"
)

func TestAddWidgetCommand(t *testing.T) {
	service := &stubService{}
	telemetry := &stubTelemetry{}
	cmd := NewAddWidgetCommand(service, telemetry)
	var created layout.Widget
	if err := cmd.Execute(context.Background(), AddWidgetInput{LayoutID: "main", Type: "chart", Result: &created}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.addCalls != 1 {
		t.Fatalf("expected add call")
	}
	if created.ID != "widget-new" {
		t.Fatalf("expected result to be populated, got %#v", created)
	}
	if telemetry.last != "layout.widget.add" {
		t.Fatalf("expected telemetry event, got %q", telemetry.last)
	}
}

func TestAddWidgetCommandRequiresType(t *testing.T) {
	cmd := NewAddWidgetCommand(&stubService{}, nil)
	if err := cmd.Execute(context.Background(), AddWidgetInput{LayoutID: "main"}); err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestRemoveWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewRemoveWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), RemoveWidgetInput{WidgetID: "widget-1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.removeCalls != 1 {
		t.Fatalf("expected remove call")
	}
}

func TestDuplicateWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewDuplicateWidgetCommand(service, nil)
	var clone layout.Widget
	if err := cmd.Execute(context.Background(), DuplicateWidgetInput{WidgetID: "widget-1", Result: &clone}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.duplicateCalls != 1 || clone.ID == "" {
		t.Fatalf("expected duplicate call with result")
	}
}

func TestMoveWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewMoveWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), MoveWidgetInput{WidgetID: "widget-1", Column: 2, Order: 3}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.lastTarget != (layout.DropTarget{Column: 2, Order: 3}) {
		t.Fatalf("unexpected target %#v", service.lastTarget)
	}
}

func TestMoveWidgetCommandPropagatesErrors(t *testing.T) {
	service := &stubService{err: layout.ErrInvalidColumn}
	cmd := NewMoveWidgetCommand(service, nil)
	err := cmd.Execute(context.Background(), MoveWidgetInput{WidgetID: "widget-1", Column: 9, Order: 1})
	if !errors.Is(err, layout.ErrInvalidColumn) {
		t.Fatalf("expected ErrInvalidColumn, got %v", err)
	}
}

func TestUpdateWidgetConfigCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewUpdateWidgetConfigCommand(service, nil)
	if err := cmd.Execute(context.Background(), UpdateWidgetConfigInput{WidgetID: "widget-1", Config: map[string]any{"title": "x"}}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.updateCalls != 1 {
		t.Fatalf("expected update call")
	}
	if err := cmd.Execute(context.Background(), UpdateWidgetConfigInput{}); err == nil {
		t.Fatalf("expected error for missing widget id")
	}
}

func TestConfigureWidgetCommand(t *testing.T) {
	service := &stubService{}
	cmd := NewConfigureWidgetCommand(service, nil)
	if err := cmd.Execute(context.Background(), ConfigureWidgetInput{WidgetID: "widget-1"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if service.configureCalls != 1 {
		t.Fatalf("expected configure call")
	}
}

func TestChangeAndResetLayoutCommands(t *testing.T) {
	service := &stubService{}
	if err := NewChangeLayoutCommand(service, nil).Execute(context.Background(), ChangeLayoutInput{Type: layout.TypeGrid}); err != nil {
		t.Fatalf("change returned error: %v", err)
	}
	if service.lastType != layout.TypeGrid {
		t.Fatalf("expected grid, got %q", service.lastType)
	}
	if err := NewResetLayoutCommand(service, nil).Execute(context.Background(), ResetLayoutInput{LayoutID: "main"}); err != nil {
		t.Fatalf("reset returned error: %v", err)
	}
	if service.resetCalls != 1 {
		t.Fatalf("expected reset call")
	}
}

func TestCommandsRequireService(t *testing.T) {
	ctx := context.Background()
	if err := NewRemoveWidgetCommand(nil, nil).Execute(ctx, RemoveWidgetInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
	if err := NewResetLayoutCommand(nil, nil).Execute(ctx, ResetLayoutInput{}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestCommandsAgainstRealService(t *testing.T) {
	ctx := context.Background()
	svc := layout.NewService(layout.Options{})
	var created layout.Widget
	if err := NewAddWidgetCommand(svc, nil).Execute(ctx, AddWidgetInput{LayoutID: "main", Type: "metrics", Result: &created}); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if err := NewMoveWidgetCommand(svc, nil).Execute(ctx, MoveWidgetInput{LayoutID: "main", WidgetID: created.ID, Column: 1, Order: 1}); err != nil {
		t.Fatalf("move returned error: %v", err)
	}
	cfg, err := svc.Layout(ctx, "main")
	if err != nil {
		t.Fatalf("layout returned error: %v", err)
	}
	if cfg.Widgets[0].ID != created.ID {
		t.Fatalf("expected moved widget first, got %s", cfg.Widgets[0].ID)
	}
}

func TestCommandsReportUnknownTypesAndIDs(t *testing.T) {
	ctx := context.Background()
	svc := layout.NewService(layout.Options{})
	telemetry := &stubTelemetry{}

	err := NewAddWidgetCommand(svc, telemetry).Execute(ctx, AddWidgetInput{LayoutID: "main", Type: "nope"})
	if !errors.Is(err, layout.ErrUnknownWidgetType) {
		t.Fatalf("expected ErrUnknownWidgetType, got %v", err)
	}
	if telemetry.last != "layout.widget.add" {
		t.Fatalf("expected telemetry for ignored add, got %q", telemetry.last)
	}
	err = NewDuplicateWidgetCommand(svc, nil).Execute(ctx, DuplicateWidgetInput{LayoutID: "main", WidgetID: "missing"})
	if !errors.Is(err, layout.ErrWidgetNotFound) {
		t.Fatalf("expected ErrWidgetNotFound from duplicate, got %v", err)
	}
	err = NewMoveWidgetCommand(svc, nil).Execute(ctx, MoveWidgetInput{LayoutID: "main", WidgetID: "missing", Column: 1, Order: 1})
	if !errors.Is(err, layout.ErrWidgetNotFound) {
		t.Fatalf("expected ErrWidgetNotFound from move, got %v", err)
	}
	err = NewConfigureWidgetCommand(svc, nil).Execute(ctx, ConfigureWidgetInput{LayoutID: "main", WidgetID: "missing"})
	if !errors.Is(err, layout.ErrWidgetNotFound) {
		t.Fatalf("expected ErrWidgetNotFound from configure, got %v", err)
	}
	if err := NewConfigureWidgetCommand(svc, nil).Execute(ctx, ConfigureWidgetInput{LayoutID: "main", WidgetID: "widget-1"}); err != nil {
		t.Fatalf("configure of known widget returned error: %v", err)
	}
}

func TestLogTelemetry(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tel := LogTelemetry{Logger: zap.New(core)}
	tel.Record(context.Background(), "layout.reset", map[string]any{"layout_id": "main"})
	entries := logs.FilterMessage("layout.reset").All()
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["layout_id"] != "main" {
		t.Fatalf("unexpected fields %#v", entries[0].ContextMap())
	}
	LogTelemetry{}.Record(context.Background(), "ignored", nil)
}

type stubService struct {
	err            error
	addCalls       int
	removeCalls    int
	duplicateCalls int
	updateCalls    int
	configureCalls int
	resetCalls     int
	lastTarget     layout.DropTarget
	lastType       layout.Type
}

func (s *stubService) AddWidget(context.Context, string, string) (layout.Widget, bool, error) {
	s.addCalls++
	return layout.Widget{ID: "widget-new"}, true, s.err
}

func (s *stubService) RemoveWidget(context.Context, string, string) (bool, error) {
	s.removeCalls++
	return true, s.err
}

func (s *stubService) DuplicateWidget(_ context.Context, _ string, id string) (layout.Widget, bool, error) {
	s.duplicateCalls++
	return layout.Widget{ID: id + "-copy"}, true, s.err
}

func (s *stubService) MoveWidget(_ context.Context, _ string, _ string, target layout.DropTarget) (bool, error) {
	s.lastTarget = target
	return s.err == nil, s.err
}

func (s *stubService) UpdateWidgetConfig(context.Context, string, string, map[string]any) error {
	s.updateCalls++
	return s.err
}

func (s *stubService) ConfigureWidget(context.Context, string, string) (bool, error) {
	s.configureCalls++
	return true, s.err
}

func (s *stubService) ChangeLayout(_ context.Context, _ string, t layout.Type) error {
	s.lastType = t
	return s.err
}

func (s *stubService) ResetLayout(context.Context, string) error {
	s.resetCalls++
	return s.err
}

type stubTelemetry struct {
	calls int
	last  string
}

func (s *stubTelemetry) Record(_ context.Context, event string, _ map[string]any) {
	s.calls++
	s.last = event
}
