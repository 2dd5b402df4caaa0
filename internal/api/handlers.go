package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/store"
)

// ─── JSON helpers ────────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("WARNING: encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"error": fmt.Sprintf(format, args...)})
}

func errStatus(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// ─── Health ──────────────────────────────────────────────────────────────────

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	infos, err := s.mgr.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing sessions: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": len(infos),
	})
}

// ─── Sessions ────────────────────────────────────────────────────────────────

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AppName string `json:"app_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}

	sess, err := s.mgr.Create(body.AppName)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "creating session: %v", err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	infos, err := s.mgr.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing sessions: %v", err)
		return
	}
	if infos == nil {
		infos = []store.SessionInfo{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": infos})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.mgr.Get(id)
	if err != nil {
		writeError(w, errStatus(err), "session %s: %v", id, err)
		return
	}
	paths, err := s.mgr.ListFiles(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing files: %v", err)
		return
	}
	if paths == nil {
		paths = []string{}
	}
	writeJSON(w, http.StatusOK, struct {
		*store.Session
		Files []string `json:"files"`
	}{sess, paths})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.mgr.Delete(id); err != nil {
		writeError(w, errStatus(err), "deleting session %s: %v", id, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

// ─── Chat ────────────────────────────────────────────────────────────────────

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: %v", err)
		return
	}
	if body.Message == "" {
		writeError(w, http.StatusBadRequest, "'message' is required")
		return
	}

	reply, err := s.chat.HandleMessage(r.Context(), id, body.Message)
	if err != nil {
		writeError(w, errStatus(err), "chat: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"response": reply})
}

// ─── Messages and files ──────────────────────────────────────────────────────

func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.mgr.Get(id); err != nil {
		writeError(w, errStatus(err), "session %s: %v", id, err)
		return
	}
	msgs, err := s.mgr.Messages(id, 0)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading messages: %v", err)
		return
	}
	if msgs == nil {
		msgs = []store.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.mgr.Get(id); err != nil {
		writeError(w, errStatus(err), "session %s: %v", id, err)
		return
	}
	paths, err := s.mgr.ListFiles(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "listing files: %v", err)
		return
	}
	if paths == nil {
		paths = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": paths})
}

func (s *Server) handleFileContent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path := r.PathValue("path")
	content, err := s.mgr.FileContent(id, path)
	if err != nil {
		writeError(w, errStatus(err), "file %s: %v", path, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"path":    path,
		"content": content,
	})
}

// ─── Preview ─────────────────────────────────────────────────────────────────

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.mgr.Get(id); err != nil {
		writeError(w, errStatus(err), "session %s: %v", id, err)
		return
	}

	resp := struct {
		Status string `json:"status"`
		URL    string `json:"url,omitempty"`
	}{Status: "not_created"}

	if sb := s.mgr.Sandbox(id); sb != nil {
		switch sb.State() {
		case sandbox.StateReady:
			resp.Status = "ready"
			resp.URL = sb.PreviewURL()
		case sandbox.StateError:
			resp.Status = "error"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ─── Export ──────────────────────────────────────────────────────────────────

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exports == nil {
		writeError(w, http.StatusServiceUnavailable, "export backend disabled")
		return
	}
	id := r.PathValue("id")
	sess, err := s.mgr.Get(id)
	if err != nil {
		writeError(w, errStatus(err), "session %s: %v", id, err)
		return
	}
	files, err := s.mgr.Files(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "loading files: %v", err)
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "session %s has no files to export", id)
		return
	}

	key, err := s.exports.Export(r.Context(), sess.AppName, sess.ID, files)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"key":   key,
		"files": len(files),
	})
}
