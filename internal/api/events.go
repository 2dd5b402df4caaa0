package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vibecraft-ai/vibecraft/internal/agent"
)

// ─── Event hub ───────────────────────────────────────────────────────────────

// Hub fans agent progress events out to websocket subscribers. It
// implements agent.Notifier, so the agent service can publish to it
// directly. Notify never blocks the agent loop.
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[chan agent.Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: map[string]map[chan agent.Event]struct{}{}}
}

// Subscribe registers a listener for one session's events. The cancel
// function must be called when the listener is done.
func (h *Hub) Subscribe(sessionID string) (<-chan agent.Event, func()) {
	ch := make(chan agent.Event, 32)
	h.mu.Lock()
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = map[chan agent.Event]struct{}{}
	}
	h.subs[sessionID][ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		delete(h.subs[sessionID], ch)
		if len(h.subs[sessionID]) == 0 {
			delete(h.subs, sessionID)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Notify delivers an event to every subscriber of its session. A
// subscriber that has fallen behind loses its oldest event first.
func (h *Hub) Notify(evt agent.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[evt.SessionID] {
		select {
		case ch <- evt:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- evt:
		default:
		}
	}
}

// ─── Websocket stream ────────────────────────────────────────────────────────

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// handleEvents streams a session's agent progress events as JSON
// frames. The stream is one-way: the read loop only services pong
// frames and notices the client going away.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.mgr.Get(id); err != nil {
		writeError(w, errStatus(err), "session %s: %v", id, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	events, unsubscribe := s.hub.Subscribe(id)
	defer unsubscribe()

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(wsPingEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-events:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(evt); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			cancel()
			<-writerDone
			return
		}
	}
}
