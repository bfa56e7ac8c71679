package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-flowsense/components/layout"
	"github.com/goliatone/go-flowsense/pkg/flowsense"
)

type Globals struct {
	Store    string `default:"sqlite" enum:"sqlite,file,memory" env:"FLOWSENSE_STORE" help:"Preference store backend (sqlite, file, memory)."`
	Path     string `default:".flowsense/layouts.db" env:"FLOWSENSE_STORE_PATH" help:"Database file (sqlite) or directory (file)."`
	Layout   string `short:"l" default:"default" env:"FLOWSENSE_LAYOUT" help:"Layout identifier."`
	Manifest string `type:"path" env:"FLOWSENSE_MANIFEST" help:"Optional catalog manifest registering extra widget types."`
	Verbose  bool   `short:"v" help:"Log store and notification activity to stderr."`

	out io.Writer
}

type cli struct {
	Globals

	List      listCmd      `cmd:"" help:"List the stored layout identifiers."`
	Show      showCmd      `cmd:"" help:"Print the stored layout."`
	Catalog   catalogCmd   `cmd:"" help:"List widget types and layout options."`
	Add       addCmd       `cmd:"" help:"Add a widget of the given type to column 1."`
	Remove    removeCmd    `cmd:"" help:"Remove a widget."`
	Duplicate duplicateCmd `cmd:"" help:"Duplicate a widget."`
	Move      moveCmd      `cmd:"" help:"Move a widget to a column and order."`
	SetLayout setLayoutCmd `cmd:"" name:"set-layout" help:"Change the layout type."`
	Reset     resetCmd     `cmd:"" help:"Restore the default widgets."`
	Scaffold  scaffoldCmd  `cmd:"" help:"Add a widget type entry to a catalog manifest."`
}

func main() {
	var c cli
	c.out = os.Stdout
	ctx := kong.Parse(&c,
		kong.Description("Layout utility for go-flowsense dashboards."),
		kong.UsageOnError(),
		kong.Bind(&c.Globals),
		kong.BindTo(context.Background(), (*context.Context)(nil)),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// session is an opened service plus the resources backing it.
type session struct {
	svc    *layout.Service
	logger *zap.Logger
	close  func() error
}

func (g *Globals) open() (*session, error) {
	logger := zap.NewNop()
	if g.Verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("layoutctl: logger: %w", err)
		}
		logger = dev
	}
	store, closeStore, err := flowsense.OpenStore(g.Store, g.Path, logger)
	if err != nil {
		return nil, err
	}
	catalog := layout.NewCatalog()
	if g.Manifest != "" {
		if _, err := catalog.LoadManifestFile(g.Manifest); err != nil {
			closeStore()
			return nil, err
		}
	}
	svc := flowsense.NewService(flowsense.Options{
		Store:    store,
		Catalog:  catalog,
		Logger:   logger,
		Notifier: layout.LogNotifier{Logger: logger},
	})
	return &session{
		svc:    svc,
		logger: logger,
		close: func() error {
			_ = logger.Sync()
			return closeStore()
		},
	}, nil
}

func (g *Globals) writer() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

func (g *Globals) printYAML(v any) error {
	encoder := yaml.NewEncoder(g.writer())
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("layoutctl: write output: %w", err)
	}
	return nil
}

// withSession opens the service, runs fn and prints the resulting layout.
func (g *Globals) withSession(ctx context.Context, fn func(*layout.Service) error) error {
	s, err := g.open()
	if err != nil {
		return err
	}
	defer s.close()
	if err := fn(s.svc); err != nil {
		return err
	}
	cfg, err := s.svc.Layout(ctx, g.Layout)
	if err != nil {
		return err
	}
	return g.printYAML(cfg)
}
