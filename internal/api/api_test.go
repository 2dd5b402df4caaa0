package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vibecraft-ai/vibecraft/internal/agent"
	"github.com/vibecraft-ai/vibecraft/internal/archive"
	"github.com/vibecraft-ai/vibecraft/internal/config"
	"github.com/vibecraft-ai/vibecraft/internal/relevance"
	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/session"
	"github.com/vibecraft-ai/vibecraft/internal/store"
)

func newTestManager(t *testing.T) *session.Manager {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "vibecraft.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	builder, err := relevance.NewBuilder(relevance.DefaultConfig())
	if err != nil {
		t.Fatalf("NewBuilder failed: %v", err)
	}
	factory := sandbox.LocalFactory(t.TempDir(), "http://localhost:3000")
	m := session.NewManager(st, builder, factory)
	t.Cleanup(func() { m.Close() })
	return m
}

type fakeChatter struct {
	reply      string
	err        error
	gotSession string
	gotMessage string
}

func (f *fakeChatter) HandleMessage(ctx context.Context, sessionID, message string) (string, error) {
	f.gotSession = sessionID
	f.gotMessage = message
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

// newTestServer builds a Server with a local export backend and spins
// up an httptest listener in front of its handler chain.
func newTestServer(t *testing.T, m *session.Manager, chat Chatter) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := New(config.Default(), m, chat, archive.NewService(archive.NewLocal(t.TempDir())), NewHub())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
}

// ─── Sessions ────────────────────────────────────────────────────────────────

func TestCreateSession(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})

	resp := postJSON(t, ts.URL+"/api/sessions", `{"app_name":"todo-app"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var sess store.Session
	decodeBody(t, resp, &sess)
	if sess.ID == "" {
		t.Error("created session has no ID")
	}
	if sess.AppName != "todo-app" {
		t.Errorf("AppName = %q, want %q", sess.AppName, "todo-app")
	}
}

func TestCreateSession_DefaultName(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})

	resp := postJSON(t, ts.URL+"/api/sessions", "")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	var sess store.Session
	decodeBody(t, resp, &sess)
	if sess.AppName != "untitled-app" {
		t.Errorf("AppName = %q, want %q", sess.AppName, "untitled-app")
	}
}

func TestListSessions(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/sessions")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Sessions []store.SessionInfo `json:"sessions"`
	}
	decodeBody(t, resp, &body)
	if len(body.Sessions) != 1 || body.Sessions[0].ID != sess.ID {
		t.Errorf("sessions = %+v, want just %s", body.Sessions, sess.ID)
	}
}

func TestGetSession_IncludesFiles(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.SaveFile(context.Background(), sess.ID, "app/page.tsx", "export default function Home() {}"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		ID    string   `json:"id"`
		Files []string `json:"files"`
	}
	decodeBody(t, resp, &body)
	if body.ID != sess.ID {
		t.Errorf("id = %q, want %q", body.ID, sess.ID)
	}
	if len(body.Files) != 1 || body.Files[0] != "app/page.tsx" {
		t.Errorf("files = %v, want [app/page.tsx]", body.Files)
	}
}

func TestGetSession_NotFound(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})

	resp, err := http.Get(ts.URL + "/api/sessions/beef9999")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
	var body struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &body)
	if body.Error == "" {
		t.Error("error body should name the problem")
	}
}

func TestDeleteSession(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+sess.ID, nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	check, err := http.Get(ts.URL + "/api/sessions/" + sess.ID)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	check.Body.Close()
	if check.StatusCode != http.StatusNotFound {
		t.Errorf("deleted session still answers with %d", check.StatusCode)
	}
}

// ─── Chat ────────────────────────────────────────────────────────────────────

func TestChat(t *testing.T) {
	m := newTestManager(t)
	fake := &fakeChatter{reply: "Changed the header to blue."}
	_, ts := newTestServer(t, m, fake)
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp := postJSON(t, ts.URL+"/api/sessions/"+sess.ID+"/chat", `{"message":"make the header blue"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var body struct {
		Response string `json:"response"`
	}
	decodeBody(t, resp, &body)
	if body.Response != fake.reply {
		t.Errorf("response = %q, want %q", body.Response, fake.reply)
	}
	if fake.gotSession != sess.ID {
		t.Errorf("chatter saw session %q, want %q", fake.gotSession, sess.ID)
	}
	if fake.gotMessage != "make the header blue" {
		t.Errorf("chatter saw message %q", fake.gotMessage)
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp := postJSON(t, ts.URL+"/api/sessions/"+sess.ID+"/chat", `{"message":""}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestChat_UnknownSession(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{err: store.ErrNotFound})

	resp := postJSON(t, ts.URL+"/api/sessions/beef9999/chat", `{"message":"hello"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

// ─── Messages and files ──────────────────────────────────────────────────────

func TestMessages_EmptyArrayNotNull(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/messages")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Messages []store.Message `json:"messages"`
	}
	decodeBody(t, resp, &body)
	if body.Messages == nil {
		t.Error("messages should decode to an empty slice, not nil")
	}
	if len(body.Messages) != 0 {
		t.Errorf("fresh session has %d messages", len(body.Messages))
	}
}

func TestMessages_ReturnsConversation(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.AddMessage(sess.ID, "user", "build a todo app"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}
	if err := m.AddMessage(sess.ID, "assistant", "Done!"); err != nil {
		t.Fatalf("AddMessage failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/messages")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Messages []store.Message `json:"messages"`
	}
	decodeBody(t, resp, &body)
	if len(body.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(body.Messages))
	}
	if body.Messages[0].Role != "user" || body.Messages[1].Role != "assistant" {
		t.Errorf("roles = %s, %s", body.Messages[0].Role, body.Messages[1].Role)
	}
}

func TestFileContent_NestedPath(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := m.SaveFile(context.Background(), sess.ID, "components/ui/Button.tsx", "export function Button() {}"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/files/components/ui/Button.tsx")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var body struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	decodeBody(t, resp, &body)
	if body.Path != "components/ui/Button.tsx" {
		t.Errorf("path = %q", body.Path)
	}
	if body.Content != "export function Button() {}" {
		t.Errorf("content = %q", body.Content)
	}
}

func TestFileContent_Missing(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/files/no/such.ts")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}

// ─── Preview ─────────────────────────────────────────────────────────────────

func TestPreview_Lifecycle(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/preview")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Status string `json:"status"`
		URL    string `json:"url"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "not_created" {
		t.Errorf("status = %q, want not_created", body.Status)
	}

	if _, err := m.EnsureSandbox(context.Background(), sess.ID); err != nil {
		t.Fatalf("EnsureSandbox failed: %v", err)
	}
	resp, err = http.Get(ts.URL + "/api/sessions/" + sess.ID + "/preview")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	decodeBody(t, resp, &body)
	if body.Status != "ready" {
		t.Errorf("status = %q, want ready", body.Status)
	}
	if body.URL != "http://localhost:3000" {
		t.Errorf("url = %q", body.URL)
	}
}

// ─── Export ──────────────────────────────────────────────────────────────────

func TestExport(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	ctx := context.Background()
	if err := m.SaveFile(ctx, sess.ID, "app/page.tsx", "x"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if err := m.SaveFile(ctx, sess.ID, "app/layout.tsx", "y"); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}

	resp := postJSON(t, ts.URL+"/api/sessions/"+sess.ID+"/export", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var body struct {
		Key   string `json:"key"`
		Files int    `json:"files"`
	}
	decodeBody(t, resp, &body)
	if body.Key != archive.Key(sess.AppName, sess.ID) {
		t.Errorf("key = %q, want %q", body.Key, archive.Key(sess.AppName, sess.ID))
	}
	if body.Files != 2 {
		t.Errorf("files = %d, want 2", body.Files)
	}
}

func TestExport_NoFiles(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp := postJSON(t, ts.URL+"/api/sessions/"+sess.ID+"/export", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestExport_Disabled(t *testing.T) {
	m := newTestManager(t)
	srv, err := New(config.Default(), m, &fakeChatter{}, nil, NewHub())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp := postJSON(t, ts.URL+"/api/sessions/"+sess.ID+"/export", "")
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusServiceUnavailable)
	}
}

// ─── Health and middleware ───────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})
	if _, err := m.Create("todo-app"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	var body struct {
		Status   string `json:"status"`
		Sessions int    `json:"sessions"`
	}
	decodeBody(t, resp, &body)
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if body.Sessions != 1 {
		t.Errorf("sessions = %d, want 1", body.Sessions)
	}
}

func TestCORS_PreflightAndOriginEcho(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/sessions", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("OPTIONS: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Errorf("Allow-Origin = %q, want the echoed origin", got)
	}

	plain, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	plain.Body.Close()
	if got := plain.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

// ─── Events ──────────────────────────────────────────────────────────────────

func TestHub_DropsOldestWhenFull(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s1")
	defer cancel()

	for i := 0; i < 40; i++ {
		hub.Notify(agent.Event{SessionID: "s1", Detail: strconv.Itoa(i)})
	}

	first := <-ch
	if first.Detail != "8" {
		t.Errorf("first buffered event = %q, want %q (oldest dropped)", first.Detail, "8")
	}
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s1")
	cancel()

	hub.Notify(agent.Event{SessionID: "s1", Detail: "late"})
	select {
	case evt := <-ch:
		t.Errorf("received %+v after cancel", evt)
	default:
	}
}

func TestEvents_StreamsAgentProgress(t *testing.T) {
	m := newTestManager(t)
	srv, ts := newTestServer(t, m, &fakeChatter{})
	sess, err := m.Create("todo-app")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + sess.ID + "/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	// The handler subscribes shortly after the handshake; wait for it.
	deadline := time.Now().Add(5 * time.Second)
	for {
		srv.hub.mu.Lock()
		n := len(srv.hub.subs[sess.ID])
		srv.hub.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed to the hub")
		}
		time.Sleep(10 * time.Millisecond)
	}

	srv.hub.Notify(agent.Event{
		SessionID: sess.ID,
		Phase:     agent.PhaseCoding,
		Detail:    "write_file app/page.tsx",
		Time:      time.Now().UTC(),
	})

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var evt agent.Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("ReadJSON failed: %v", err)
	}
	if evt.Phase != agent.PhaseCoding {
		t.Errorf("phase = %q, want %q", evt.Phase, agent.PhaseCoding)
	}
	if evt.SessionID != sess.ID {
		t.Errorf("session = %q, want %q", evt.SessionID, sess.ID)
	}
}

func TestEvents_UnknownSession(t *testing.T) {
	m := newTestManager(t)
	_, ts := newTestServer(t, m, &fakeChatter{})

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/beef9999/events"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		conn.Close()
		t.Fatal("Dial succeeded for an unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("handshake response = %+v, want 404", resp)
	}
}
