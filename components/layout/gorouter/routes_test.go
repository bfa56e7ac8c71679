package gorouter

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-flowsense/components/layout"
	"github.com/goliatone/go-flowsense/components/layout/httpapi"
)

func TestRegisterValidatesConfig(t *testing.T) {
	if err := Register(Config[struct{}]{}); err == nil {
		t.Fatalf("expected error when router is missing")
	}
	api := httpapi.NewHandlers(layout.NewService(layout.Options{}), nil)
	if err := Register(Config[struct{}]{API: api}); err == nil {
		t.Fatalf("expected error when router is missing with api set")
	}
}

func TestDefaultRouteConfig(t *testing.T) {
	routes := defaultRouteConfig(RouteConfig{Reset: "/custom/reset"})
	if routes.Reset != "/custom/reset" {
		t.Fatalf("expected override to be kept, got %q", routes.Reset)
	}
	if routes.Move != "/layouts/:id/widgets/:widget/move" {
		t.Fatalf("unexpected move route %q", routes.Move)
	}
	if routes.WebSocket != "/events" {
		t.Fatalf("unexpected websocket route %q", routes.WebSocket)
	}
}

// serveFiber registers the layout routes on a fiber adapter and serves them
// on a free local port, returning the base URL.
func serveFiber(t *testing.T, svc *layout.Service) string {
	t.Helper()
	server := router.NewFiberAdapter()
	require.NoError(t, Register(Config[*fiber.App]{
		Router: server.Router(),
		API:    httpapi.NewHandlers(svc, nil),
	}))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	go func() { _ = server.Serve(addr) }()
	t.Cleanup(func() { _ = server.Shutdown(context.Background()) })

	base := "http://" + addr + "/flowsense"
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/widget-types")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return base
			}
		}
		if time.Now().After(deadline) {
			t.Fatalf("fiber server did not come up on %s: %v", addr, err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	var resp *http.Response
	var err error
	if body == "" {
		resp, err = http.Post(url, "application/json", nil)
	} else {
		resp, err = http.Post(url, "application/json", strings.NewReader(body))
	}
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutesOverFiber(t *testing.T) {
	svc := layout.NewService(layout.Options{})
	base := serveFiber(t, svc)
	widgets := base + "/layouts/ops/widgets"

	added := post(t, widgets, `{"type":"chart"}`)
	require.Equal(t, http.StatusCreated, added.StatusCode)
	var created layout.Widget
	require.NoError(t, json.NewDecoder(added.Body).Decode(&created))
	assert.Equal(t, "chart", created.Type)
	assert.Equal(t, 1, created.Column)

	assert.Equal(t, http.StatusBadRequest, post(t, widgets, `{"type":"nope"}`).StatusCode)

	moved := post(t, widgets+"/"+created.ID+"/move?column=2&order=1", "")
	require.Equal(t, http.StatusOK, moved.StatusCode)
	cfg, err := svc.Layout(context.Background(), "ops")
	require.NoError(t, err)
	byColumn := cfg.WidgetsByColumn()
	require.NotEmpty(t, byColumn[2])
	assert.Equal(t, created.ID, byColumn[2][0].ID)

	assert.Equal(t, http.StatusBadRequest, post(t, widgets+"/"+created.ID+"/move?column=9&order=1", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(t, widgets+"/"+created.ID+"/move?column=abc", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, post(t, widgets+"/"+created.ID+"/move", `{"column":0,"order":1}`).StatusCode)

	assert.Equal(t, http.StatusNotFound, post(t, widgets+"/missing/duplicate", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, post(t, widgets+"/missing/configure", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, post(t, widgets+"/missing/move?column=1", "").StatusCode)
	assert.Equal(t, http.StatusAccepted, post(t, widgets+"/"+created.ID+"/configure", "").StatusCode)

	dup := post(t, widgets+"/"+created.ID+"/duplicate", "")
	require.Equal(t, http.StatusCreated, dup.StatusCode)
	var clone layout.Widget
	require.NoError(t, json.NewDecoder(dup.Body).Decode(&clone))
	assert.NotEqual(t, created.ID, clone.ID)
	assert.Equal(t, 2, clone.Column)

	req, err := http.NewRequest(http.MethodDelete, widgets+"/"+clone.ID, nil)
	require.NoError(t, err)
	removed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	removed.Body.Close()
	assert.Equal(t, http.StatusNoContent, removed.StatusCode)

	req, err = http.NewRequest(http.MethodPut, base+"/layouts/ops/type", strings.NewReader(`{"type":"5-col"}`))
	require.NoError(t, err)
	changed, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	changed.Body.Close()
	assert.Equal(t, http.StatusBadRequest, changed.StatusCode)

	view, err := http.Get(base + "/layouts/ops/view")
	require.NoError(t, err)
	defer view.Body.Close()
	var payload layout.View
	require.NoError(t, json.NewDecoder(view.Body).Decode(&payload))
	assert.Equal(t, "ops", payload.LayoutID)
	assert.Equal(t, 3, payload.ColumnCount)
}
