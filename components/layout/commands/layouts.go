package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-flowsense/components/layout"
)

// ChangeLayoutInput selects a new layout arrangement.
type ChangeLayoutInput struct {
	LayoutID string      `json:"layout_id"`
	Type     layout.Type `json:"type"`
}

type changeLayoutService interface {
	ChangeLayout(ctx context.Context, layoutID string, t layout.Type) error
}

// ChangeLayoutCommand wraps Service.ChangeLayout.
type ChangeLayoutCommand struct {
	service   changeLayoutService
	telemetry Telemetry
}

// NewChangeLayoutCommand creates the command.
func NewChangeLayoutCommand(service changeLayoutService, telemetry Telemetry) *ChangeLayoutCommand {
	return &ChangeLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ChangeLayoutInput] = (*ChangeLayoutCommand)(nil)

// Execute switches the layout type and reflows widgets.
func (c *ChangeLayoutCommand) Execute(ctx context.Context, msg ChangeLayoutInput) error {
	if c.service == nil {
		return errors.New("change layout command requires service")
	}
	if err := c.service.ChangeLayout(ctx, msg.LayoutID, msg.Type); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "layout.change", map[string]any{
		"layout_id": msg.LayoutID,
		"type":      string(msg.Type),
	})
	return nil
}

// ResetLayoutInput identifies the layout to restore.
type ResetLayoutInput struct {
	LayoutID string `json:"layout_id"`
}

type resetService interface {
	ResetLayout(ctx context.Context, layoutID string) error
}

// ResetLayoutCommand wraps Service.ResetLayout.
type ResetLayoutCommand struct {
	service   resetService
	telemetry Telemetry
}

// NewResetLayoutCommand creates the command.
func NewResetLayoutCommand(service resetService, telemetry Telemetry) *ResetLayoutCommand {
	return &ResetLayoutCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ResetLayoutInput] = (*ResetLayoutCommand)(nil)

// Execute restores the default widgets.
func (c *ResetLayoutCommand) Execute(ctx context.Context, msg ResetLayoutInput) error {
	if c.service == nil {
		return errors.New("reset command requires service")
	}
	if err := c.service.ResetLayout(ctx, msg.LayoutID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "layout.reset", map[string]any{"layout_id": msg.LayoutID})
	return nil
}
