// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the store, the context
// builder, and the session manager, and injects them into the tools,
// prompts, and resources that depend on them. No business logic lives
// here.
package server

import (
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/vibecraft-ai/vibecraft/internal/archive"
	"github.com/vibecraft-ai/vibecraft/internal/config"
	"github.com/vibecraft-ai/vibecraft/internal/prompts"
	"github.com/vibecraft-ai/vibecraft/internal/relevance"
	"github.com/vibecraft-ai/vibecraft/internal/resources"
	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/session"
	"github.com/vibecraft-ai/vibecraft/internal/store"
	"github.com/vibecraft-ai/vibecraft/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes live sandboxes and the store's
// database connection and must be called on shutdown (typically via
// defer). It is always non-nil and safe to call even if init failed.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	// --- Create shared dependencies ---

	builder, err := relevance.NewBuilder(cfg.ContextConfig())
	if err != nil {
		return nil, noop, fmt.Errorf("creating context builder: %w", err)
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return nil, noop, fmt.Errorf("opening store: %w", err)
	}

	factory := sandbox.LocalFactory(cfg.Sandbox.Dir, cfg.PreviewURL())
	mgr := session.NewManager(st, builder, factory)

	cleanup := func() {
		if err := mgr.Close(); err != nil {
			log.Printf("WARNING: closing sandboxes: %v", err)
		}
		if err := st.Close(); err != nil {
			log.Printf("WARNING: closing store: %v", err)
		}
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"vibecraft",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register session tools ---

	newSessionTool := tools.NewNewSessionTool(mgr)
	s.AddTool(newSessionTool.Definition(), newSessionTool.Handle)

	sessionsTool := tools.NewSessionsTool(mgr)
	s.AddTool(sessionsTool.Definition(), sessionsTool.Handle)

	deleteSessionTool := tools.NewDeleteSessionTool(mgr)
	s.AddTool(deleteSessionTool.Definition(), deleteSessionTool.Handle)

	// --- Register file tools ---

	writeFileTool := tools.NewWriteFileTool(mgr)
	s.AddTool(writeFileTool.Definition(), writeFileTool.Handle)

	readFileTool := tools.NewReadFileTool(mgr)
	s.AddTool(readFileTool.Definition(), readFileTool.Handle)

	updateFileTool := tools.NewUpdateFileTool(mgr)
	s.AddTool(updateFileTool.Definition(), updateFileTool.Handle)

	grepTool := tools.NewGrepTool(mgr)
	s.AddTool(grepTool.Definition(), grepTool.Handle)

	listFilesTool := tools.NewListFilesTool(mgr)
	s.AddTool(listFilesTool.Definition(), listFilesTool.Handle)

	// --- Register sandbox tools ---

	runCommandTool := tools.NewRunCommandTool(mgr)
	s.AddTool(runCommandTool.Definition(), runCommandTool.Handle)

	installPackagesTool := tools.NewInstallPackagesTool(mgr)
	s.AddTool(installPackagesTool.Definition(), installPackagesTool.Handle)

	// --- Register the context tool ---

	contextTool := tools.NewContextTool(mgr)
	s.AddTool(contextTool.Definition(), contextTool.Handle)

	// --- Register the export tool ---
	//
	// Export is an independent subsystem: if its backend fails to
	// initialize, app-building tools continue working. We log a
	// warning and skip vibe_export registration.

	backend, err := archive.ForConfig(cfg.Archive)
	if err != nil {
		log.Printf("WARNING: export subsystem disabled: %v", err)
	} else {
		exportTool := tools.NewExportTool(mgr, archive.NewService(backend))
		s.AddTool(exportTool.Definition(), exportTool.Handle)
	}

	// --- Register prompts ---

	newAppPrompt := prompts.NewNewAppPrompt()
	s.AddPrompt(newAppPrompt.Definition(), newAppPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(mgr)
	s.AddResource(resourceHandler.SessionsResource(), resourceHandler.HandleSessions)
	s.AddResourceTemplate(resourceHandler.SessionTemplate(), resourceHandler.HandleSession)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when init
// fails before any resource is acquired.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use VibeCraft effectively.
func serverInstructions() string {
	return `You have access to VibeCraft, an app-building MCP server.

## WHEN TO ACTIVATE VibeCraft

You MUST proactively suggest using VibeCraft when the user:
- Asks to build a website, web app, or landing page
- Says things like "I want a site for...", "build me an app that..."
- Wants to see a live preview of something while iterating on it

You do NOT need VibeCraft for:
- Code questions, explanations, or reviews
- Editing files in the user's own repository
- Anything that is not a runnable web app

## THE WORKFLOW

Every app lives in a session with its own sandbox and preview URL.

1. vibe_new_session — creates the session. Note the session ID; every
   other tool requires it.
2. Write architecture.md FIRST with vibe_write_file. Describe the app
   name, design style, routes, and components before any code. The
   plan is stored on the session and drives later context building.
3. Generate the app with vibe_write_file: app/layout.tsx, app/page.tsx,
   then components. The sandbox runs Next.js with Tailwind CSS and
   shadcn/ui, and hot-reloads every write.
4. Share the preview URL with the user after generating.

## MODIFYING AN EXISTING APP

Do NOT re-read every file. Call vibe_context with the user's request
first: it scores all project files against the request and returns the
relevant ones in full, the rest as one-line summaries. Then edit only
what the context shows you need, using vibe_update_file for targeted
changes and vibe_write_file for full rewrites.

Use vibe_grep to locate a symbol when the context summaries are not
enough, and vibe_run_command / vibe_install_packages for sandbox work
like adding a dependency.

## RULES

- architecture.md before any code file, always
- vibe_context before modifying, never blind rewrites
- Keep file paths relative to the project root (app/page.tsx, not /app/page.tsx)
- One session per app; list them with vibe_sessions, clean up with
  vibe_delete_session
- vibe_export packs the finished project into a tar.zst archive when
  the user wants to take it home`
}
