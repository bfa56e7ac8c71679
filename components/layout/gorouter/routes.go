package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-flowsense/components/layout"
	"github.com/goliatone/go-flowsense/components/layout/commands"
	"github.com/goliatone/go-flowsense/components/layout/httpapi"
	"github.com/goliatone/go-flowsense/components/layout/queries"
)

// LayoutResolver picks the layout id for a request. The default reads the
// ":id" route parameter and falls back to the "layout_id" local.
type LayoutResolver func(router.Context) string

// Config wires go-router with the layout commands, queries and event stream.
type Config[T any] struct {
	Router         router.Router[T]
	API            *httpapi.Handlers
	Broadcast      *layout.BroadcastHook
	LayoutResolver LayoutResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for layout endpoints.
type RouteConfig struct {
	Layout      string
	View        string
	WidgetTypes string
	Widgets     string
	WidgetID    string
	Duplicate   string
	Move        string
	Config      string
	Configure   string
	LayoutType  string
	Reset       string
	WebSocket   string
}

// Register mounts layout routes (JSON reads, mutations, WebSocket events) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api handlers are required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/flowsense"
	}
	resolver := cfg.LayoutResolver
	if resolver == nil {
		resolver = defaultLayoutResolver
	}
	api := cfg.API

	group := cfg.Router.Group(base)

	group.Get(routes.WidgetTypes, router.WrapHandler(func(ctx router.Context) error {
		result, err := api.Catalog.Query(ctx.Context(), queries.CatalogInput{})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, result)
	}))

	group.Get(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		cfg, err := api.Layout.Query(ctx.Context(), queries.LayoutInput{LayoutID: resolver(ctx)})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, cfg)
	}))

	group.Get(routes.View, router.WrapHandler(func(ctx router.Context) error {
		view, err := api.View.Query(ctx.Context(), queries.LayoutInput{LayoutID: resolver(ctx)})
		if err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	registerMutations(group, api, resolver, routes)

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}
	return nil
}

func registerMutations[T any](r router.Router[T], api *httpapi.Handlers, resolver LayoutResolver, routes RouteConfig) {
	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.AddWidgetRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		var created layout.Widget
		input := commands.AddWidgetInput{LayoutID: resolver(ctx), Type: payload.Type, Result: &created}
		if err := api.Add.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, created)
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		id := ctx.Param("widget")
		if id == "" {
			return respondStatus(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		if err := api.Remove.Execute(ctx.Context(), commands.RemoveWidgetInput{LayoutID: resolver(ctx), WidgetID: id}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusNoContent, map[string]string{"status": "removed"})
	}))

	r.Post(routes.Duplicate, router.WrapHandler(func(ctx router.Context) error {
		var clone layout.Widget
		input := commands.DuplicateWidgetInput{LayoutID: resolver(ctx), WidgetID: ctx.Param("widget"), Result: &clone}
		if err := api.Duplicate.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, clone)
	}))

	r.Post(routes.Move, router.WrapHandler(func(ctx router.Context) error {
		target, err := moveTarget(ctx)
		if err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		input := commands.MoveWidgetInput{
			LayoutID: resolver(ctx),
			WidgetID: ctx.Param("widget"),
			Column:   target.Column,
			Order:    target.Order,
		}
		if err := api.Move.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "moved"})
	}))

	r.Put(routes.Config, router.WrapHandler(func(ctx router.Context) error {
		var config map[string]any
		if err := json.Unmarshal(ctx.Body(), &config); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		input := commands.UpdateWidgetConfigInput{LayoutID: resolver(ctx), WidgetID: ctx.Param("widget"), Config: config}
		if err := api.Update.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.Configure, router.WrapHandler(func(ctx router.Context) error {
		input := commands.ConfigureWidgetInput{LayoutID: resolver(ctx), WidgetID: ctx.Param("widget")}
		if err := api.Configure.Execute(ctx.Context(), input); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
	}))

	r.Put(routes.LayoutType, router.WrapHandler(func(ctx router.Context) error {
		var payload httpapi.ChangeLayoutRequest
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondStatus(ctx, http.StatusBadRequest, err)
		}
		if err := api.ChangeLayout.Execute(ctx.Context(), commands.ChangeLayoutInput{LayoutID: resolver(ctx), Type: payload.Type}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "changed"})
	}))

	r.Post(routes.Reset, router.WrapHandler(func(ctx router.Context) error {
		if err := api.Reset.Execute(ctx.Context(), commands.ResetLayoutInput{LayoutID: resolver(ctx)}); err != nil {
			return respondError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "reset"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *layout.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

// moveTarget reads the drop slot from a JSON body, or from the column/order
// query parameters when the body is empty.
func moveTarget(ctx router.Context) (layout.DropTarget, error) {
	body := ctx.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return layout.ParseDropTarget(ctx.Query("column"), ctx.Query("order"))
	}
	var payload httpapi.MoveWidgetRequest
	if err := json.Unmarshal(body, &payload); err != nil {
		return layout.DropTarget{}, err
	}
	return layout.DropTarget{Column: payload.Column, Order: payload.Order}, nil
}

func defaultLayoutResolver(ctx router.Context) string {
	if id := strings.TrimSpace(ctx.Param("id")); id != "" {
		return id
	}
	if id, ok := ctx.Locals("layout_id").(string); ok {
		return id
	}
	return layout.DefaultLayoutID
}

func respondError(ctx router.Context, err error) error {
	return respondStatus(ctx, httpapi.StatusFor(err), err)
}

func respondStatus(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Layout == "" {
		routes.Layout = "/layouts/:id"
	}
	if routes.View == "" {
		routes.View = "/layouts/:id/view"
	}
	if routes.WidgetTypes == "" {
		routes.WidgetTypes = "/widget-types"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/layouts/:id/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/layouts/:id/widgets/:widget"
	}
	if routes.Duplicate == "" {
		routes.Duplicate = "/layouts/:id/widgets/:widget/duplicate"
	}
	if routes.Move == "" {
		routes.Move = "/layouts/:id/widgets/:widget/move"
	}
	if routes.Config == "" {
		routes.Config = "/layouts/:id/widgets/:widget/config"
	}
	if routes.Configure == "" {
		routes.Configure = "/layouts/:id/widgets/:widget/configure"
	}
	if routes.LayoutType == "" {
		routes.LayoutType = "/layouts/:id/type"
	}
	if routes.Reset == "" {
		routes.Reset = "/layouts/:id/reset"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/events"
	}
	return routes
}
