package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/vibecraft-ai/vibecraft/internal/session"
)

// defaultMaxTurns bounds one agent run. Each turn is one model call
// plus the execution of every function it requested.
const defaultMaxTurns = 40

// Event is one progress notification emitted while an agent works.
type Event struct {
	SessionID string    `json:"session_id"`
	Phase     string    `json:"phase"`
	Detail    string    `json:"detail,omitempty"`
	Time      time.Time `json:"time"`
}

// Event phases, in the order a new project moves through them.
const (
	PhaseSandbox      = "sandbox"
	PhaseArchitecture = "architecture"
	PhaseCoding       = "coding"
	PhaseChat         = "chat"
	PhaseTool         = "tool"
	PhaseDone         = "done"
)

// Notifier receives progress events. Implementations must not block;
// the agent loop calls Notify inline.
type Notifier interface {
	Notify(Event)
}

// generator is the slice of Client the service needs. It exists so
// tests can script model responses.
type generator interface {
	generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config tunes the agent service.
type Config struct {
	// MaxTurns caps model round-trips per agent run. Zero means the
	// default.
	MaxTurns int
}

// Service routes chat messages into agent workflows.
type Service struct {
	llm      generator
	mgr      *session.Manager
	cfg      Config
	notifier Notifier
}

// NewService wires a Service. notifier may be nil.
func NewService(llm *Client, mgr *session.Manager, cfg Config, notifier Notifier) *Service {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaultMaxTurns
	}
	return &Service{llm: llm, mgr: mgr, cfg: cfg, notifier: notifier}
}

func (s *Service) notify(sessionID, phase, detail string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(Event{
		SessionID: sessionID,
		Phase:     phase,
		Detail:    detail,
		Time:      time.Now().UTC(),
	})
}

// newProjectKeywords route a message into the full generation workflow
// when the session has no files yet.
var newProjectKeywords = []string{
	"create", "build", "make", "generate", "start",
	"new project", "new app", "new website", "new application",
	"i want", "i need", "can you build", "can you create",
}

// bigChangeKeywords mark requests that likely need architectural work
// rather than a targeted edit.
var bigChangeKeywords = []string{
	"authentication", "auth", "login", "signup", "register",
	"payment", "stripe", "checkout",
	"new page", "add page", "create page", "new route",
	"database", "backend", "api endpoint",
	"restructure", "rebuild", "redesign completely",
}

func isNewProjectRequest(message string) bool {
	return containsAny(message, newProjectKeywords)
}

func isBigChangeRequest(message string) bool {
	return containsAny(message, bigChangeKeywords)
}

func containsAny(message string, keywords []string) bool {
	lower := strings.ToLower(message)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// bigChangeNotice is prepended when a modification request looks
// structural.
const bigChangeNotice = "This looks like a significant change. I'll try to make it directly.\n" +
	"For major structural changes, consider starting a new project with /new\n\n"

// HandleMessage processes one user message end to end: it picks the
// workflow, runs the agents, and records both sides of the exchange in
// the conversation history.
func (s *Service) HandleMessage(ctx context.Context, sessionID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("agent: empty message")
	}
	if err := s.mgr.AddMessage(sessionID, "user", message); err != nil {
		return "", err
	}

	isNew, err := s.mgr.IsNew(sessionID)
	if err != nil {
		return "", err
	}
	paths, err := s.mgr.ListFiles(sessionID)
	if err != nil {
		return "", err
	}

	var response string
	switch {
	case isNew, isNewProjectRequest(message) && len(paths) == 0:
		response, err = s.runNewProject(ctx, sessionID, message)
	case isBigChangeRequest(message):
		response, err = s.runModification(ctx, sessionID, message)
		if err == nil {
			response = bigChangeNotice + response
		}
	default:
		response, err = s.runModification(ctx, sessionID, message)
	}
	if err != nil {
		return "", err
	}

	if err := s.mgr.AddMessage(sessionID, "assistant", response); err != nil {
		return "", err
	}
	s.notify(sessionID, PhaseDone, "")
	return response, nil
}
