// Package api serves the HTTP surface: session CRUD, chat, file
// access, a websocket stream of agent progress, and project export.
//
// Routing uses Go 1.22 method+path patterns. The handler chain is
// CORS over h2c so HTTP/2 clients can connect without TLS. A cron
// job reaps idle sessions on the configured schedule.
package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/vibecraft-ai/vibecraft/internal/archive"
	"github.com/vibecraft-ai/vibecraft/internal/config"
	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// Chatter runs one chat turn against a session and returns the reply.
type Chatter interface {
	HandleMessage(ctx context.Context, sessionID, message string) (string, error)
}

// Server is the HTTP front end over one session manager.
type Server struct {
	mgr     *session.Manager
	chat    Chatter
	exports *archive.Service // nil disables the export endpoint
	hub     *Hub

	httpSrv *http.Server
	cron    *cron.Cron
	reapAge time.Duration
}

// New assembles the server. The hub must be the same one the agent
// service publishes to, otherwise the event stream stays silent.
func New(cfg *config.Config, mgr *session.Manager, chat Chatter, exports *archive.Service, hub *Hub) (*Server, error) {
	s := &Server{
		mgr:     mgr,
		chat:    chat,
		exports: exports,
		hub:     hub,
		reapAge: cfg.Server.SessionMaxIdle.Std(),
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Server.ReaperSchedule, s.reap); err != nil {
		return nil, fmt.Errorf("api: reaper schedule %q: %w", cfg.Server.ReaperSchedule, err)
	}
	s.cron = c

	s.httpSrv = &http.Server{
		Addr:    cfg.Server.Listen,
		Handler: h2c.NewHandler(corsMiddleware(s.routes()), &http2.Server{}),
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)

	mux.HandleFunc("POST /api/sessions/{id}/chat", s.handleChat)
	mux.HandleFunc("GET /api/sessions/{id}/messages", s.handleMessages)
	mux.HandleFunc("GET /api/sessions/{id}/files", s.handleFiles)
	mux.HandleFunc("GET /api/sessions/{id}/files/{path...}", s.handleFileContent)
	mux.HandleFunc("GET /api/sessions/{id}/preview", s.handlePreview)
	mux.HandleFunc("GET /api/sessions/{id}/events", s.handleEvents)
	mux.HandleFunc("POST /api/sessions/{id}/export", s.handleExport)

	return mux
}

// Handler returns the full middleware-wrapped handler chain.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Start runs the reaper and serves until Shutdown or a listener error.
func (s *Server) Start() error {
	s.cron.Start()
	log.Printf("API server listening on %s", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the reaper and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cron.Stop()
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) reap() {
	ids, err := s.mgr.Reap(s.reapAge)
	if err != nil {
		log.Printf("WARNING: session reaper: %v", err)
		return
	}
	if len(ids) > 0 {
		log.Printf("reaped %d idle sessions: %s", len(ids), strings.Join(ids, ", "))
	}
}

// corsMiddleware echoes the caller's origin and short-circuits
// preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
