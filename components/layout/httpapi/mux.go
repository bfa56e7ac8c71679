package httpapi

import (
	"net/http"
	"strings"
)

// NewServeMux mounts the handlers on a standard library mux under basePath.
// events, when non-nil, is served at basePath + "/events".
func NewServeMux(h *Handlers, basePath string, events http.Handler) *http.ServeMux {
	base := "/" + strings.Trim(basePath, "/")
	if base == "/" {
		base = ""
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+base+"/widget-types", h.HandleCatalog)
	mux.HandleFunc("GET "+base+"/layouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleLayout(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("GET "+base+"/layouts/{id}/view", func(w http.ResponseWriter, r *http.Request) {
		h.HandleView(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST "+base+"/layouts/{id}/widgets", func(w http.ResponseWriter, r *http.Request) {
		h.HandleAddWidget(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("DELETE "+base+"/layouts/{id}/widgets/{widget}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleRemoveWidget(w, r, r.PathValue("id"), r.PathValue("widget"))
	})
	mux.HandleFunc("POST "+base+"/layouts/{id}/widgets/{widget}/duplicate", func(w http.ResponseWriter, r *http.Request) {
		h.HandleDuplicateWidget(w, r, r.PathValue("id"), r.PathValue("widget"))
	})
	mux.HandleFunc("POST "+base+"/layouts/{id}/widgets/{widget}/move", func(w http.ResponseWriter, r *http.Request) {
		h.HandleMoveWidget(w, r, r.PathValue("id"), r.PathValue("widget"))
	})
	mux.HandleFunc("PUT "+base+"/layouts/{id}/widgets/{widget}/config", func(w http.ResponseWriter, r *http.Request) {
		h.HandleUpdateWidgetConfig(w, r, r.PathValue("id"), r.PathValue("widget"))
	})
	mux.HandleFunc("POST "+base+"/layouts/{id}/widgets/{widget}/configure", func(w http.ResponseWriter, r *http.Request) {
		h.HandleConfigureWidget(w, r, r.PathValue("id"), r.PathValue("widget"))
	})
	mux.HandleFunc("PUT "+base+"/layouts/{id}/type", func(w http.ResponseWriter, r *http.Request) {
		h.HandleChangeLayout(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST "+base+"/layouts/{id}/reset", func(w http.ResponseWriter, r *http.Request) {
		h.HandleResetLayout(w, r, r.PathValue("id"))
	})
	if events != nil {
		mux.Handle("GET "+base+"/events", events)
	}
	return mux
}
