package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-flowsense/components/layout"
	"github.com/goliatone/go-flowsense/components/layout/commands"
	"github.com/goliatone/go-flowsense/components/layout/queries"
)

// Handlers exposes HTTP endpoints backed by shared commands and queries.
type Handlers struct {
	Add          gocommand.Commander[commands.AddWidgetInput]
	Remove       gocommand.Commander[commands.RemoveWidgetInput]
	Duplicate    gocommand.Commander[commands.DuplicateWidgetInput]
	Move         gocommand.Commander[commands.MoveWidgetInput]
	Update       gocommand.Commander[commands.UpdateWidgetConfigInput]
	Configure    gocommand.Commander[commands.ConfigureWidgetInput]
	ChangeLayout gocommand.Commander[commands.ChangeLayoutInput]
	Reset        gocommand.Commander[commands.ResetLayoutInput]

	Layout  gocommand.Querier[queries.LayoutInput, layout.Config]
	View    gocommand.Querier[queries.LayoutInput, layout.View]
	Catalog gocommand.Querier[queries.CatalogInput, queries.CatalogResult]
}

// NewHandlers wires every endpoint to the provided service.
func NewHandlers(svc *layout.Service, telemetry commands.Telemetry) *Handlers {
	return &Handlers{
		Add:          commands.NewAddWidgetCommand(svc, telemetry),
		Remove:       commands.NewRemoveWidgetCommand(svc, telemetry),
		Duplicate:    commands.NewDuplicateWidgetCommand(svc, telemetry),
		Move:         commands.NewMoveWidgetCommand(svc, telemetry),
		Update:       commands.NewUpdateWidgetConfigCommand(svc, telemetry),
		Configure:    commands.NewConfigureWidgetCommand(svc, telemetry),
		ChangeLayout: commands.NewChangeLayoutCommand(svc, telemetry),
		Reset:        commands.NewResetLayoutCommand(svc, telemetry),
		Layout:       queries.NewLayoutQuery(svc),
		View:         queries.NewViewQuery(svc),
		Catalog:      queries.NewCatalogQuery(svc),
	}
}

// AddWidgetRequest is the body accepted by HandleAddWidget.
type AddWidgetRequest struct {
	Type string `json:"type"`
}

// MoveWidgetRequest is the body accepted by HandleMoveWidget.
type MoveWidgetRequest struct {
	Column int `json:"column"`
	Order  int `json:"order"`
}

// ChangeLayoutRequest is the body accepted by HandleChangeLayout.
type ChangeLayoutRequest struct {
	Type layout.Type `json:"type"`
}

func (h *Handlers) HandleLayout(w http.ResponseWriter, r *http.Request, layoutID string) {
	cfg, err := h.Layout.Query(r.Context(), queries.LayoutInput{LayoutID: layoutID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request, layoutID string) {
	view, err := h.View.Query(r.Context(), queries.LayoutInput{LayoutID: layoutID})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	result, err := h.Catalog.Query(r.Context(), queries.CatalogInput{})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) HandleAddWidget(w http.ResponseWriter, r *http.Request, layoutID string) {
	var payload AddWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var created layout.Widget
	input := commands.AddWidgetInput{LayoutID: layoutID, Type: payload.Type, Result: &created}
	if err := h.Add.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handlers) HandleRemoveWidget(w http.ResponseWriter, r *http.Request, layoutID, widgetID string) {
	input := commands.RemoveWidgetInput{LayoutID: layoutID, WidgetID: widgetID}
	if err := h.Remove.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleDuplicateWidget(w http.ResponseWriter, r *http.Request, layoutID, widgetID string) {
	var clone layout.Widget
	input := commands.DuplicateWidgetInput{LayoutID: layoutID, WidgetID: widgetID, Result: &clone}
	if err := h.Duplicate.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, clone)
}

func (h *Handlers) HandleMoveWidget(w http.ResponseWriter, r *http.Request, layoutID, widgetID string) {
	var payload MoveWidgetRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := commands.MoveWidgetInput{
		LayoutID: layoutID,
		WidgetID: widgetID,
		Column:   payload.Column,
		Order:    payload.Order,
	}
	if err := h.Move.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleUpdateWidgetConfig(w http.ResponseWriter, r *http.Request, layoutID, widgetID string) {
	var config map[string]any
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := commands.UpdateWidgetConfigInput{LayoutID: layoutID, WidgetID: widgetID, Config: config}
	if err := h.Update.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleConfigureWidget(w http.ResponseWriter, r *http.Request, layoutID, widgetID string) {
	input := commands.ConfigureWidgetInput{LayoutID: layoutID, WidgetID: widgetID}
	if err := h.Configure.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleChangeLayout(w http.ResponseWriter, r *http.Request, layoutID string) {
	var payload ChangeLayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	input := commands.ChangeLayoutInput{LayoutID: layoutID, Type: payload.Type}
	if err := h.ChangeLayout.Execute(r.Context(), input); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleResetLayout(w http.ResponseWriter, r *http.Request, layoutID string) {
	if err := h.Reset.Execute(r.Context(), commands.ResetLayoutInput{LayoutID: layoutID}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// StatusFor maps layout errors onto HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, layout.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, layout.ErrInvalidColumn),
		errors.Is(err, layout.ErrUnknownLayoutType),
		errors.Is(err, layout.ErrUnknownWidgetType):
		return http.StatusBadRequest
	case errors.Is(err, layout.ErrInvalidConfig):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), StatusFor(err))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
