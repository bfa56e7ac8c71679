package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-flowsense/components/layout"
)

// AddWidgetInput is the widget-add event: a widget type key for a layout.
type AddWidgetInput struct {
	LayoutID string         `json:"layout_id"`
	Type     string         `json:"type"`
	Result   *layout.Widget `json:"-"`
}

type addService interface {
	AddWidget(ctx context.Context, layoutID, widgetType string) (layout.Widget, bool, error)
}

// AddWidgetCommand wraps Service.AddWidget. When Result is set on the input
// it receives the created widget. Types missing from the catalog fail with
// layout.ErrUnknownWidgetType.
type AddWidgetCommand struct {
	service   addService
	telemetry Telemetry
}

// NewAddWidgetCommand creates a command instance.
func NewAddWidgetCommand(service addService, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute delegates to the layout service.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.service == nil {
		return errors.New("add command requires service")
	}
	if msg.Type == "" {
		return fmt.Errorf("add command requires widget type: %w", layout.ErrUnknownWidgetType)
	}
	widget, ok, err := c.service.AddWidget(ctx, msg.LayoutID, msg.Type)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = widget
	}
	c.telemetry.Record(ctx, "layout.widget.add", map[string]any{
		"layout_id": msg.LayoutID,
		"type":      msg.Type,
		"applied":   ok,
	})
	if !ok {
		return fmt.Errorf("%w: %s", layout.ErrUnknownWidgetType, msg.Type)
	}
	return nil
}

// RemoveWidgetInput identifies the widget to remove.
type RemoveWidgetInput struct {
	LayoutID string `json:"layout_id"`
	WidgetID string `json:"widget_id"`
}

type removeService interface {
	RemoveWidget(ctx context.Context, layoutID, widgetID string) (bool, error)
}

// RemoveWidgetCommand wraps Service.RemoveWidget.
type RemoveWidgetCommand struct {
	service   removeService
	telemetry Telemetry
}

// NewRemoveWidgetCommand builds a command instance.
func NewRemoveWidgetCommand(service removeService, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.service == nil {
		return errors.New("remove command requires service")
	}
	ok, err := c.service.RemoveWidget(ctx, msg.LayoutID, msg.WidgetID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "layout.widget.remove", map[string]any{
		"layout_id": msg.LayoutID,
		"widget_id": msg.WidgetID,
		"applied":   ok,
	})
	return nil
}

// DuplicateWidgetInput identifies the widget to clone.
type DuplicateWidgetInput struct {
	LayoutID string         `json:"layout_id"`
	WidgetID string         `json:"widget_id"`
	Result   *layout.Widget `json:"-"`
}

type duplicateService interface {
	DuplicateWidget(ctx context.Context, layoutID, widgetID string) (layout.Widget, bool, error)
}

// DuplicateWidgetCommand wraps Service.DuplicateWidget. Unknown ids fail with
// layout.ErrWidgetNotFound.
type DuplicateWidgetCommand struct {
	service   duplicateService
	telemetry Telemetry
}

// NewDuplicateWidgetCommand builds a command instance.
func NewDuplicateWidgetCommand(service duplicateService, telemetry Telemetry) *DuplicateWidgetCommand {
	return &DuplicateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DuplicateWidgetInput] = (*DuplicateWidgetCommand)(nil)

// Execute clones the widget.
func (c *DuplicateWidgetCommand) Execute(ctx context.Context, msg DuplicateWidgetInput) error {
	if c.service == nil {
		return errors.New("duplicate command requires service")
	}
	widget, ok, err := c.service.DuplicateWidget(ctx, msg.LayoutID, msg.WidgetID)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = widget
	}
	c.telemetry.Record(ctx, "layout.widget.duplicate", map[string]any{
		"layout_id": msg.LayoutID,
		"widget_id": msg.WidgetID,
		"applied":   ok,
	})
	if !ok {
		return fmt.Errorf("%w: %s", layout.ErrWidgetNotFound, msg.WidgetID)
	}
	return nil
}

// MoveWidgetInput carries the target slot of a move.
type MoveWidgetInput struct {
	LayoutID string `json:"layout_id"`
	WidgetID string `json:"widget_id"`
	Column   int    `json:"column"`
	Order    int    `json:"order"`
}

type moveService interface {
	MoveWidget(ctx context.Context, layoutID, widgetID string, target layout.DropTarget) (bool, error)
}

// MoveWidgetCommand wraps Service.MoveWidget. Unknown ids fail with
// layout.ErrWidgetNotFound.
type MoveWidgetCommand struct {
	service   moveService
	telemetry Telemetry
}

// NewMoveWidgetCommand builds the command.
func NewMoveWidgetCommand(service moveService, telemetry Telemetry) *MoveWidgetCommand {
	return &MoveWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveWidgetInput] = (*MoveWidgetCommand)(nil)

// Execute applies the move.
func (c *MoveWidgetCommand) Execute(ctx context.Context, msg MoveWidgetInput) error {
	if c.service == nil {
		return errors.New("move command requires service")
	}
	ok, err := c.service.MoveWidget(ctx, msg.LayoutID, msg.WidgetID, layout.DropTarget{Column: msg.Column, Order: msg.Order})
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "layout.widget.move", map[string]any{
		"layout_id": msg.LayoutID,
		"widget_id": msg.WidgetID,
		"column":    msg.Column,
		"order":     msg.Order,
		"applied":   ok,
	})
	if !ok {
		return fmt.Errorf("%w: %s", layout.ErrWidgetNotFound, msg.WidgetID)
	}
	return nil
}

// UpdateWidgetConfigInput replaces a widget configuration.
type UpdateWidgetConfigInput struct {
	LayoutID string         `json:"layout_id"`
	WidgetID string         `json:"widget_id"`
	Config   map[string]any `json:"config"`
}

type updateService interface {
	UpdateWidgetConfig(ctx context.Context, layoutID, widgetID string, config map[string]any) error
}

// UpdateWidgetConfigCommand wraps Service.UpdateWidgetConfig.
type UpdateWidgetConfigCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateWidgetConfigCommand creates the command.
func NewUpdateWidgetConfigCommand(service updateService, telemetry Telemetry) *UpdateWidgetConfigCommand {
	return &UpdateWidgetConfigCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetConfigInput] = (*UpdateWidgetConfigCommand)(nil)

// Execute validates and stores the configuration.
func (c *UpdateWidgetConfigCommand) Execute(ctx context.Context, msg UpdateWidgetConfigInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("update command requires widget id")
	}
	if err := c.service.UpdateWidgetConfig(ctx, msg.LayoutID, msg.WidgetID, msg.Config); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "layout.widget.update", map[string]any{
		"layout_id": msg.LayoutID,
		"widget_id": msg.WidgetID,
	})
	return nil
}

// ConfigureWidgetInput requests the host configuration surface for a widget.
type ConfigureWidgetInput struct {
	LayoutID string `json:"layout_id"`
	WidgetID string `json:"widget_id"`
}

type configureService interface {
	ConfigureWidget(ctx context.Context, layoutID, widgetID string) (bool, error)
}

// ConfigureWidgetCommand wraps Service.ConfigureWidget. Unknown ids fail with
// layout.ErrWidgetNotFound since no event is emitted for them.
type ConfigureWidgetCommand struct {
	service   configureService
	telemetry Telemetry
}

// NewConfigureWidgetCommand creates the command.
func NewConfigureWidgetCommand(service configureService, telemetry Telemetry) *ConfigureWidgetCommand {
	return &ConfigureWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ConfigureWidgetInput] = (*ConfigureWidgetCommand)(nil)

// Execute emits the configure event.
func (c *ConfigureWidgetCommand) Execute(ctx context.Context, msg ConfigureWidgetInput) error {
	if c.service == nil {
		return errors.New("configure command requires service")
	}
	ok, err := c.service.ConfigureWidget(ctx, msg.LayoutID, msg.WidgetID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "layout.widget.configure", map[string]any{
		"layout_id": msg.LayoutID,
		"widget_id": msg.WidgetID,
		"applied":   ok,
	})
	if !ok {
		return fmt.Errorf("%w: %s", layout.ErrWidgetNotFound, msg.WidgetID)
	}
	return nil
}
