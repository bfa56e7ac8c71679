package main

import (
	"context"
	"fmt"

	"github.com/goliatone/go-flowsense/components/layout"
	"github.com/goliatone/go-flowsense/components/layout/commands"
)

type listCmd struct{}

func (listCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	ids, err := s.svc.LayoutIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := fmt.Fprintln(g.writer(), id); err != nil {
			return err
		}
	}
	return nil
}

type showCmd struct {
	View bool `help:"Print the derived view instead of the stored configuration."`
}

func (cmd *showCmd) Run(ctx context.Context, g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	if cmd.View {
		view, err := s.svc.View(ctx, g.Layout)
		if err != nil {
			return err
		}
		return g.printYAML(view)
	}
	cfg, err := s.svc.Layout(ctx, g.Layout)
	if err != nil {
		return err
	}
	return g.printYAML(cfg)
}

type catalogCmd struct{}

func (catalogCmd) Run(_ context.Context, g *Globals) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	return g.printYAML(map[string]any{
		"widget_types": s.svc.Catalog(),
		"layouts":      s.svc.Options(),
	})
}

type addCmd struct {
	Type string `arg:"" help:"Widget type key (chart, metrics, ...)."`
}

func (cmd *addCmd) Run(ctx context.Context, g *Globals) error {
	return g.withSession(ctx, func(svc *layout.Service) error {
		return commands.NewAddWidgetCommand(svc, nil).Execute(ctx, commands.AddWidgetInput{
			LayoutID: g.Layout,
			Type:     cmd.Type,
		})
	})
}

type removeCmd struct {
	Widget string `arg:"" help:"Widget id."`
}

func (cmd *removeCmd) Run(ctx context.Context, g *Globals) error {
	return g.withSession(ctx, func(svc *layout.Service) error {
		return commands.NewRemoveWidgetCommand(svc, nil).Execute(ctx, commands.RemoveWidgetInput{LayoutID: g.Layout, WidgetID: cmd.Widget})
	})
}

type duplicateCmd struct {
	Widget string `arg:"" help:"Widget id."`
}

func (cmd *duplicateCmd) Run(ctx context.Context, g *Globals) error {
	return g.withSession(ctx, func(svc *layout.Service) error {
		return commands.NewDuplicateWidgetCommand(svc, nil).Execute(ctx, commands.DuplicateWidgetInput{
			LayoutID: g.Layout,
			WidgetID: cmd.Widget,
		})
	})
}

type moveCmd struct {
	Widget string `arg:"" help:"Widget id."`
	Column string `required:"" help:"Target column (1-based)."`
	Order  string `help:"Target position in the column (defaults to 1)."`
}

func (cmd *moveCmd) Run(ctx context.Context, g *Globals) error {
	target, err := layout.ParseDropTarget(cmd.Column, cmd.Order)
	if err != nil {
		return err
	}
	return g.withSession(ctx, func(svc *layout.Service) error {
		return commands.NewMoveWidgetCommand(svc, nil).Execute(ctx, commands.MoveWidgetInput{
			LayoutID: g.Layout,
			WidgetID: cmd.Widget,
			Column:   target.Column,
			Order:    target.Order,
		})
	})
}

type setLayoutCmd struct {
	Type string `arg:"" enum:"2-col,3-col,4-col,grid,masonry" help:"Layout type."`
}

func (cmd *setLayoutCmd) Run(ctx context.Context, g *Globals) error {
	return g.withSession(ctx, func(svc *layout.Service) error {
		return commands.NewChangeLayoutCommand(svc, nil).Execute(ctx, commands.ChangeLayoutInput{LayoutID: g.Layout, Type: layout.Type(cmd.Type)})
	})
}

type resetCmd struct{}

func (resetCmd) Run(ctx context.Context, g *Globals) error {
	return g.withSession(ctx, func(svc *layout.Service) error {
		return commands.NewResetLayoutCommand(svc, nil).Execute(ctx, commands.ResetLayoutInput{LayoutID: g.Layout})
	})
}
