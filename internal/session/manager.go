// Package session coordinates the pieces that make up one app-building
// session: the durable store, the live sandbox, and the smart-context
// pipeline.
//
// A Manager instance is passed explicitly to every consumer (tools,
// HTTP API, CLI). There is no process-global current session; the
// session ID travels with each call.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibecraft-ai/vibecraft/internal/relevance"
	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/store"
)

// maxRecent bounds the recency list fed into the relevance scorer.
const maxRecent = 10

// recentMessageWindow is how many conversation turns the context
// renderers receive.
const recentMessageWindow = 5

// runtime is the in-memory side of a session: the live sandbox and the
// most recently written paths, newest first.
type runtime struct {
	sandbox sandbox.Sandbox
	recent  []string
}

// Manager owns session lifecycles and builds per-query context.
type Manager struct {
	store      *store.Store
	builder    *relevance.Builder
	newSandbox sandbox.Factory

	mu   sync.Mutex
	live map[string]*runtime
}

// NewManager wires a Manager from its collaborators.
func NewManager(st *store.Store, builder *relevance.Builder, factory sandbox.Factory) *Manager {
	return &Manager{
		store:      st,
		builder:    builder,
		newSandbox: factory,
		live:       map[string]*runtime{},
	}
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

// Create registers a new session and returns it. IDs are the first
// eight hex digits of a UUID, which keeps them readable in chat.
func (m *Manager) Create(appName string) (*store.Session, error) {
	if strings.TrimSpace(appName) == "" {
		appName = "untitled-app"
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if err := m.store.CreateSession(id, appName); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.live[id] = &runtime{}
	m.mu.Unlock()
	return m.store.GetSession(id)
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*store.Session, error) {
	return m.store.GetSession(id)
}

// List returns all sessions with counts, newest first.
func (m *Manager) List() ([]store.SessionInfo, error) {
	return m.store.ListSessions()
}

// Delete closes the session's sandbox, if any, and removes all stored
// state.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	rt := m.live[id]
	delete(m.live, id)
	m.mu.Unlock()

	if rt != nil && rt.sandbox != nil && rt.sandbox.State() != sandbox.StateClosed {
		if err := rt.sandbox.Close(); err != nil {
			return fmt.Errorf("session %s: close sandbox: %w", id, err)
		}
	}
	return m.store.DeleteSession(id)
}

// Reap deletes sessions idle longer than age and returns their IDs.
func (m *Manager) Reap(age time.Duration) ([]string, error) {
	ids, err := m.store.IdleSessions(age)
	if err != nil {
		return nil, err
	}
	var reaped []string
	for _, id := range ids {
		if err := m.Delete(id); err != nil {
			return reaped, err
		}
		reaped = append(reaped, id)
	}
	return reaped, nil
}

// Close shuts down every live sandbox. Stored state is untouched.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rt := range m.live {
		if rt.sandbox != nil && rt.sandbox.State() != sandbox.StateClosed {
			if err := rt.sandbox.Close(); err != nil {
				return fmt.Errorf("session %s: close sandbox: %w", id, err)
			}
		}
	}
	m.live = map[string]*runtime{}
	return nil
}

// ─── Sandbox ─────────────────────────────────────────────────────────────────

// EnsureSandbox returns the session's sandbox, provisioning one on
// first use and recording its preview URL.
func (m *Manager) EnsureSandbox(ctx context.Context, id string) (sandbox.Sandbox, error) {
	if _, err := m.store.GetSession(id); err != nil {
		return nil, err
	}

	m.mu.Lock()
	rt, ok := m.live[id]
	if !ok {
		rt = &runtime{}
		m.live[id] = rt
	}
	sb := rt.sandbox
	m.mu.Unlock()

	if sb != nil && sb.State() == sandbox.StateReady {
		return sb, nil
	}

	sb = m.newSandbox(id)
	if err := sb.Create(ctx); err != nil {
		return nil, fmt.Errorf("session %s: provision sandbox: %w", id, err)
	}
	if err := m.store.SetPreviewURL(id, sb.PreviewURL()); err != nil {
		return nil, err
	}

	m.mu.Lock()
	rt.sandbox = sb
	m.mu.Unlock()
	return sb, nil
}

// Sandbox returns the live sandbox or nil when none is provisioned.
func (m *Manager) Sandbox(id string) sandbox.Sandbox {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rt, ok := m.live[id]; ok {
		return rt.sandbox
	}
	return nil
}

// ─── Conversation ────────────────────────────────────────────────────────────

// AddMessage appends one turn to the session's history.
func (m *Manager) AddMessage(id, role, content string) error {
	return m.store.AddMessage(id, role, content)
}

// Messages returns the conversation, oldest first. limit <= 0 means
// everything.
func (m *Manager) Messages(id string, limit int) ([]store.Message, error) {
	return m.store.Messages(id, limit)
}

// ─── Files ───────────────────────────────────────────────────────────────────

// SaveFile persists a generated file and mirrors it into the live
// sandbox. The two writes are independent: the store copy is the
// durable one, the sandbox copy feeds the preview.
func (m *Manager) SaveFile(ctx context.Context, id, path, content string) error {
	if err := m.store.SaveFile(id, path, content); err != nil {
		return err
	}
	m.touchRecent(id, path)

	if sb := m.Sandbox(id); sb != nil && sb.State() == sandbox.StateReady {
		if err := sb.WriteFile(ctx, path, content); err != nil {
			return fmt.Errorf("session %s: mirror to sandbox: %w", id, err)
		}
	}
	return nil
}

// FileContent returns one stored file.
func (m *Manager) FileContent(id, path string) (string, error) {
	return m.store.GetFile(id, path)
}

// ListFiles returns the session's stored paths in lexicographic order.
func (m *Manager) ListFiles(id string) ([]string, error) {
	return m.store.ListFiles(id)
}

// Files returns every stored file keyed by path.
func (m *Manager) Files(id string) (map[string]string, error) {
	return m.store.AllFiles(id)
}

// touchRecent moves path to the front of the session's recency list.
func (m *Manager) touchRecent(id, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rt, ok := m.live[id]
	if !ok {
		rt = &runtime{}
		m.live[id] = rt
	}

	next := make([]string, 0, len(rt.recent)+1)
	next = append(next, path)
	for _, p := range rt.recent {
		if p != path {
			next = append(next, p)
		}
	}
	if len(next) > maxRecent {
		next = next[:maxRecent]
	}
	rt.recent = next
}

// Recent returns the most recently written paths, newest first. After
// a restart the list is rebuilt from the store's write order.
func (m *Manager) Recent(id string) []string {
	m.mu.Lock()
	rt, ok := m.live[id]
	if ok && len(rt.recent) > 0 {
		out := make([]string, len(rt.recent))
		copy(out, rt.recent)
		m.mu.Unlock()
		return out
	}
	m.mu.Unlock()

	paths, err := m.store.RecentFiles(id, maxRecent)
	if err != nil {
		return nil
	}
	return paths
}

// ─── Session fields ──────────────────────────────────────────────────────────

// SetArchitecture stores the generated architecture document.
func (m *Manager) SetArchitecture(id, architecture string) error {
	return m.store.SetArchitecture(id, architecture)
}

// SetAppName renames the session's app.
func (m *Manager) SetAppName(id, name string) error {
	return m.store.SetAppName(id, name)
}

// IsNew reports whether the session has neither files nor an
// architecture document yet, which routes the first request into the
// full generation workflow.
func (m *Manager) IsNew(id string) (bool, error) {
	sess, err := m.store.GetSession(id)
	if err != nil {
		return false, err
	}
	paths, err := m.store.ListFiles(id)
	if err != nil {
		return false, err
	}
	return len(paths) == 0 && sess.Architecture == "", nil
}

// ─── Smart context ───────────────────────────────────────────────────────────

// BuildContext runs the relevance pipeline over the session's files.
// maxTokens overrides the configured budget when positive.
func (m *Manager) BuildContext(id, query string, maxTokens int) (*relevance.Result, error) {
	files, err := m.store.AllFiles(id)
	if err != nil {
		return nil, err
	}
	return m.builder.Build(relevance.BuildRequest{
		Files:     files,
		Query:     query,
		Recent:    m.Recent(id),
		MaxTokens: maxTokens,
	}), nil
}

// SmartContext renders the context block for a query. Sessions without
// files fall back to the plain summary. maxTokens overrides the
// configured budget when positive.
func (m *Manager) SmartContext(id, query string, maxTokens int) (string, error) {
	sess, err := m.store.GetSession(id)
	if err != nil {
		return "", err
	}
	msgs, err := m.store.Messages(id, recentMessageWindow)
	if err != nil {
		return "", err
	}
	meta := relevance.Meta{
		AppName:      sess.AppName,
		PreviewURL:   sess.PreviewURL,
		Messages:     toContextMessages(msgs),
		Architecture: sess.Architecture,
	}

	files, err := m.store.AllFiles(id)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return relevance.FormatSummary(meta, nil), nil
	}

	res := m.builder.Build(relevance.BuildRequest{
		Files:     files,
		Query:     query,
		Recent:    m.Recent(id),
		MaxTokens: maxTokens,
	})
	return relevance.FormatContext(res, meta), nil
}

func toContextMessages(msgs []store.Message) []relevance.Message {
	out := make([]relevance.Message, len(msgs))
	for i, msg := range msgs {
		out[i] = relevance.Message{Role: msg.Role, Content: msg.Content}
	}
	return out
}
