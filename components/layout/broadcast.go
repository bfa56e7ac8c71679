package layout

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// EventKind labels broadcast events.
type EventKind string

const (
	EventNotification EventKind = "notification"
	EventConfigure    EventKind = "configure"
	EventChanged      EventKind = "changed"
)

// Event is the payload streamed to broadcast subscribers.
type Event struct {
	Kind         EventKind       `json:"kind"`
	LayoutID     string          `json:"layout_id,omitempty"`
	Notification *Notification   `json:"notification,omitempty"`
	Configure    *ConfigureEvent `json:"configure,omitempty"`
}

// BroadcastHook fans notifications and configure events out to in-process
// subscribers. It satisfies both Notifier and ConfigureHook.
type BroadcastHook struct {
	mu   sync.RWMutex
	subs map[int]chan Event
	next int
}

// NewBroadcastHook creates a broadcast hook.
func NewBroadcastHook() *BroadcastHook {
	return &BroadcastHook{subs: make(map[int]chan Event)}
}

// Notify broadcasts a notification event.
func (h *BroadcastHook) Notify(_ context.Context, note Notification) {
	h.Publish(Event{Kind: EventNotification, LayoutID: note.LayoutID, Notification: &note})
}

// WidgetConfigure broadcasts a configure event.
func (h *BroadcastHook) WidgetConfigure(_ context.Context, event ConfigureEvent) {
	h.Publish(Event{Kind: EventConfigure, LayoutID: event.LayoutID, Configure: &event})
}

// Publish delivers an event to every subscriber without blocking; slow
// subscribers drop events.
func (h *BroadcastHook) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Subscribe returns a channel of events and a cancel func.
func (h *BroadcastHook) Subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.next
	h.next++
	ch := make(chan Event, 8)
	h.subs[id] = ch
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams events as JSON.
func (h *BroadcastHook) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events, cancel := h.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE provides a Server-Sent Events endpoint for the same stream.
func (h *BroadcastHook) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := h.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("data: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}

// ServeHTTP serves WebSocket upgrades and falls back to SSE for plain requests.
func (h *BroadcastHook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if websocket.IsWebSocketUpgrade(r) {
		h.ServeWebSocket(w, r)
		return
	}
	h.ServeSSE(w, r)
}

func (h *BroadcastHook) subscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
