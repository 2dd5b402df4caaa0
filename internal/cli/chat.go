package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vibecraft-ai/vibecraft/internal/agent"
	"github.com/vibecraft-ai/vibecraft/internal/relevance"
	"github.com/vibecraft-ai/vibecraft/internal/sandbox"
	"github.com/vibecraft-ai/vibecraft/internal/session"
	"github.com/vibecraft-ai/vibecraft/internal/store"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	replyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	phaseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with a session from the terminal",
	Long: `An interactive line-based chat. Plain lines go to the agent; slash
commands inspect the session:

  /new [name]   start a fresh session (and its sandbox)
  /files        list the session's files
  /preview      show the preview status and URL
  /status       show session, app, files, preview, and model
  /quit         leave`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().String("session", "", "resume an existing session by ID")
	chatCmd.Flags().String("model", "", "override the configured model")
	chatCmd.Flags().String("store", "", "override the configured store path")
	chatCmd.Flags().String("sandbox-dir", "", "override the configured sandbox directory")
}

func runChat(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	builder, err := relevance.NewBuilder(cfg.ContextConfig())
	if err != nil {
		return fmt.Errorf("creating context builder: %w", err)
	}

	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}

	factory := sandbox.LocalFactory(cfg.Sandbox.Dir, cfg.PreviewURL())
	mgr := session.NewManager(st, builder, factory)
	defer func() {
		if err := mgr.Close(); err != nil {
			log.Printf("WARNING: closing sandboxes: %v", err)
		}
		if err := st.Close(); err != nil {
			log.Printf("WARNING: closing store: %v", err)
		}
	}()

	client, err := agent.NewClient(cmd.Context(), cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("connecting to Gemini: %w", err)
	}

	r := &repl{
		mgr:   mgr,
		svc:   agent.NewService(client, mgr, agent.Config{}, phasePrinter{out: os.Stdout}),
		model: cfg.Model,
		in:    os.Stdin,
		out:   os.Stdout,
	}

	if id, _ := cmd.Flags().GetString("session"); id != "" {
		if _, err := mgr.Get(id); err != nil {
			return fmt.Errorf("session %s: %w", id, err)
		}
		r.current = id
	}

	return r.run(cmd.Context())
}

// chatter is the slice of agent.Service the REPL needs. Tests script
// replies through it.
type chatter interface {
	HandleMessage(ctx context.Context, sessionID, message string) (string, error)
}

// phasePrinter streams agent progress lines to the terminal while a
// message is being handled.
type phasePrinter struct {
	out io.Writer
}

func (p phasePrinter) Notify(evt agent.Event) {
	line := evt.Phase
	if evt.Detail != "" {
		line += " " + evt.Detail
	}
	fmt.Fprintln(p.out, phaseStyle.Render("  · "+line))
}

// repl is the interactive chat loop. A session is created lazily on
// the first plain message when none is active.
type repl struct {
	mgr     *session.Manager
	svc     chatter
	model   string
	current string
	in      io.Reader
	out     io.Writer
}

func (r *repl) run(ctx context.Context) error {
	fmt.Fprintln(r.out, titleStyle.Render("vibecraft chat"))
	if r.current != "" {
		fmt.Fprintln(r.out, hintStyle.Render("resuming session "+r.current))
	}
	fmt.Fprintln(r.out, hintStyle.Render("describe the app you want, /help lists commands"))
	fmt.Fprintln(r.out)

	scanner := bufio.NewScanner(r.in)
	// Pasted prompts can exceed the default 64KB line cap.
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)

	for {
		fmt.Fprint(r.out, promptStyle.Render("you ❯ "))
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := r.command(ctx, line)
			if err != nil {
				fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
			}
			if quit {
				return nil
			}
			continue
		}

		if err := r.send(ctx, line); err != nil {
			fmt.Fprintln(r.out, errorStyle.Render(err.Error()))
		}
	}
}

// send routes one plain message through the agent service and prints
// the reply.
func (r *repl) send(ctx context.Context, message string) error {
	if r.current == "" {
		sess, err := r.mgr.Create("")
		if err != nil {
			return fmt.Errorf("creating session: %w", err)
		}
		r.current = sess.ID
		fmt.Fprintln(r.out, hintStyle.Render("session "+sess.ID))
	}

	reply, err := r.svc.HandleMessage(ctx, r.current, message)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, replyStyle.Render(reply))
	return nil
}

// command dispatches one slash command. quit is true after /quit.
func (r *repl) command(ctx context.Context, line string) (quit bool, err error) {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/q":
		fmt.Fprintln(r.out, hintStyle.Render("bye"))
		return true, nil

	case "/new":
		sess, err := r.mgr.Create(arg)
		if err != nil {
			return false, fmt.Errorf("creating session: %w", err)
		}
		if _, err := r.mgr.EnsureSandbox(ctx, sess.ID); err != nil {
			return false, fmt.Errorf("starting sandbox: %w", err)
		}
		r.current = sess.ID
		fmt.Fprintln(r.out, hintStyle.Render(fmt.Sprintf("session %s (%s) ready", sess.ID, sess.AppName)))
		return false, nil

	case "/files":
		if err := r.requireSession(); err != nil {
			return false, err
		}
		paths, err := r.mgr.ListFiles(r.current)
		if err != nil {
			return false, err
		}
		if len(paths) == 0 {
			fmt.Fprintln(r.out, hintStyle.Render("no files yet"))
			return false, nil
		}
		for _, p := range paths {
			fmt.Fprintln(r.out, "  "+p)
		}
		return false, nil

	case "/preview":
		if err := r.requireSession(); err != nil {
			return false, err
		}
		status, url := previewStatus(r.mgr, r.current)
		if url != "" {
			status += " at " + url
		}
		fmt.Fprintln(r.out, hintStyle.Render(status))
		return false, nil

	case "/status":
		if err := r.requireSession(); err != nil {
			return false, err
		}
		return false, r.printStatus()

	case "/help":
		r.printHelp()
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s, /help lists commands", name)
	}
}

func (r *repl) requireSession() error {
	if r.current == "" {
		return fmt.Errorf("no active session, /new starts one")
	}
	return nil
}

func (r *repl) printStatus() error {
	sess, err := r.mgr.Get(r.current)
	if err != nil {
		return err
	}
	paths, err := r.mgr.ListFiles(r.current)
	if err != nil {
		return err
	}
	status, url := previewStatus(r.mgr, r.current)
	if url != "" {
		status += " at " + url
	}

	rows := [][2]string{
		{"session", sess.ID},
		{"app", sess.AppName},
		{"files", fmt.Sprintf("%d", len(paths))},
		{"preview", status},
		{"model", r.model},
	}
	for _, row := range rows {
		fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-8s", row[0])), row[1])
	}
	return nil
}

func (r *repl) printHelp() {
	fmt.Fprintln(r.out, hintStyle.Render(strings.TrimSpace(`
/new [name]   start a fresh session (and its sandbox)
/files        list the session's files
/preview      show the preview status and URL
/status       show session, app, files, preview, and model
/quit         leave`)))
}

// previewStatus reports the sandbox lifecycle the way the HTTP preview
// endpoint does, phrased for a terminal.
func previewStatus(mgr *session.Manager, id string) (status, url string) {
	sb := mgr.Sandbox(id)
	if sb == nil {
		return "not created", ""
	}
	switch sb.State() {
	case sandbox.StateReady:
		return "ready", sb.PreviewURL()
	case sandbox.StateError:
		return "error", ""
	default:
		return "not created", ""
	}
}
