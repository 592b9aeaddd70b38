package serve

import (
	"net/http"
	"sync"
	"time"

	"go.trai.ch/jig/internal/core/domain"
)

// reloadScript is the browser half of live reload. It is served at
// domain.LiveReloadScriptPath and injected into the entry document as the
// last script reference. EventSource reconnects on its own, so a dev
// server restart picks clients back up without extra code.
const reloadScript = `(function () {
  "use strict";
  var source = new EventSource("` + domain.LiveReloadEventsPath + `");
  source.addEventListener("reload", function () {
    location.reload();
  });
})();
`

// keepAliveInterval bounds how long an idle SSE connection stays silent.
// Proxies tend to cut streams that look dead.
const keepAliveInterval = 15 * time.Second

// reloadHub fans a reload signal out to every connected browser over
// Server-Sent Events.
type reloadHub struct {
	mu          sync.Mutex
	subscribers map[chan struct{}]struct{}
}

func newReloadHub() *reloadHub {
	return &reloadHub{subscribers: make(map[chan struct{}]struct{})}
}

// subscribe registers a new listener. The returned cancel removes it
// again; it is safe to call more than once.
func (h *reloadHub) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, ch)
			h.mu.Unlock()
		})
	}
	return ch, cancel
}

// broadcast signals every subscriber. The send is non-blocking: a
// subscriber that has not drained its previous signal still reloads
// once, which is all a browser needs.
func (h *reloadHub) broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ServeHTTP streams reload events to one browser until it disconnects.
func (h *reloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	events, cancel := h.subscribe()
	defer cancel()

	// Comment line so the client sees bytes immediately.
	_, _ = w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-events:
			if _, err := w.Write([]byte("event: reload\ndata: build\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func serveReloadScript(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write([]byte(reloadScript))
}
