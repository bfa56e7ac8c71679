package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-flowsense/components/layout"
	"github.com/goliatone/go-flowsense/components/layout/commands"
	"github.com/goliatone/go-flowsense/components/layout/gorouter"
	"github.com/goliatone/go-flowsense/components/layout/httpapi"
	"github.com/goliatone/go-flowsense/pkg/filestore"
	"github.com/goliatone/go-flowsense/pkg/flowsense"
)

type serveCmd struct {
	Addr          string `default:":9876" env:"FLOWSENSE_ADDR" help:"Listen address."`
	BasePath      string `default:"/flowsense" env:"FLOWSENSE_BASE_PATH" help:"Route prefix."`
	Store         string `default:"sqlite" enum:"sqlite,file,memory" env:"FLOWSENSE_STORE" help:"Preference store backend."`
	Path          string `default:".flowsense/layouts.db" env:"FLOWSENSE_STORE_PATH" help:"Database file (sqlite) or directory (file)."`
	Manifest      string `type:"path" env:"FLOWSENSE_MANIFEST" help:"Optional catalog manifest registering extra widget types."`
	DragDrop      bool   `default:"true" negatable:"" env:"FLOWSENSE_DRAG_DROP" help:"Enable drag-and-drop rearranging."`
	Customization bool   `default:"true" negatable:"" env:"FLOWSENSE_CUSTOMIZATION" help:"Enable widget customization."`
	Watch         bool   `env:"FLOWSENSE_WATCH" help:"Reload layouts edited on disk (file store only)."`
	Stdlib        bool   `help:"Serve with net/http instead of the go-router fiber adapter."`
	Debug         bool   `env:"FLOWSENSE_DEBUG" help:"Use a development logger."`
}

func main() {
	var cmd serveCmd
	kctx := kong.Parse(&cmd,
		kong.Description("FlowSense dashboard layout server."),
		kong.UsageOnError(),
	)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	kctx.FatalIfErrorf(cmd.run(ctx))
}

func (cmd *serveCmd) logger() (*zap.Logger, error) {
	if cmd.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (cmd *serveCmd) run(ctx context.Context) error {
	logger, err := cmd.logger()
	if err != nil {
		return fmt.Errorf("flowsense: logger: %w", err)
	}
	defer logger.Sync()

	store, closeStore, err := flowsense.OpenStore(cmd.Store, cmd.Path, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	catalog := layout.NewCatalog()
	if cmd.Manifest != "" {
		doc, err := catalog.LoadManifestFile(cmd.Manifest)
		if err != nil {
			return err
		}
		logger.Info("catalog manifest loaded", zap.String("source", doc.Source), zap.Int("widgets", len(doc.Widgets)))
	}

	hook := layout.NewBroadcastHook()
	svc := flowsense.NewService(flowsense.Options{
		Store:               store,
		Catalog:             catalog,
		Notifier:            layout.MultiNotifier{hook, layout.LogNotifier{Logger: logger}},
		ConfigureHook:       hook,
		Logger:              logger,
		EnableDragDrop:      cmd.DragDrop,
		EnableCustomization: cmd.Customization,
	})
	api := httpapi.NewHandlers(svc, commands.LogTelemetry{Logger: logger})

	group, gctx := errgroup.WithContext(ctx)
	if cmd.Watch {
		fs, ok := store.(*filestore.Store)
		if !ok {
			return errors.New("flowsense: --watch requires the file store")
		}
		group.Go(func() error { return watchLayouts(gctx, fs, svc, hook, logger) })
	}
	group.Go(func() error {
		if cmd.Stdlib {
			return cmd.serveStdlib(gctx, api, hook, logger)
		}
		return cmd.serveRouter(gctx, api, hook, logger)
	})
	return group.Wait()
}

func (cmd *serveCmd) serveRouter(ctx context.Context, api *httpapi.Handlers, hook *layout.BroadcastHook, logger *zap.Logger) error {
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:    server.Router(),
		API:       api,
		Broadcast: hook,
		BasePath:  cmd.BasePath,
	}); err != nil {
		return fmt.Errorf("flowsense: register routes: %w", err)
	}
	logger.Info("layout routes ready",
		zap.String("addr", cmd.Addr),
		zap.String("layouts", cmd.BasePath+"/layouts/:id"),
		zap.String("events", cmd.BasePath+"/events"),
	)
	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(cmd.Addr) }()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return server.Shutdown(context.Background())
	}
}

func (cmd *serveCmd) serveStdlib(ctx context.Context, api *httpapi.Handlers, hook *layout.BroadcastHook, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:    cmd.Addr,
		Handler: httpapi.NewServeMux(api, cmd.BasePath, hook),
	}
	logger.Info("layout routes ready (net/http)", zap.String("addr", cmd.Addr), zap.String("base", cmd.BasePath))
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return srv.Shutdown(context.Background())
	}
}

// watchLayouts drops cached managers for files edited outside the process and
// tells subscribers to refetch. It returns when ctx is done.
func watchLayouts(ctx context.Context, fs *filestore.Store, svc *layout.Service, hook *layout.BroadcastHook, logger *zap.Logger) error {
	err := fs.Watch(ctx, func(key string) {
		id, ok := layout.LayoutIDFromKey(key)
		if !ok {
			return
		}
		svc.Forget(id)
		hook.Publish(layout.Event{Kind: layout.EventChanged, LayoutID: id})
		logger.Info("layout reloaded from disk", zap.String("layout_id", id))
	})
	if err != nil {
		logger.Error("layout watch stopped", zap.Error(err))
	}
	return err
}
