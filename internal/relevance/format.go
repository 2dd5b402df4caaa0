package relevance

import (
	"fmt"
	"strings"
)

// Rendering limits for the conversation and architecture sections.
const (
	maxRecentMessages   = 5
	messageExcerptLen   = 100
	architectureExcerpt = 500
)

// Message is one conversational turn rendered into the context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Meta carries the session details rendered around the file bundle.
type Meta struct {
	AppName      string    `json:"app_name"`
	PreviewURL   string    `json:"preview_url"`
	Messages     []Message `json:"messages,omitempty"`
	Architecture string    `json:"architecture,omitempty"`
}

// FormatContext renders a Result and session metadata into the text
// block injected into the chat agent's system prompt. Section order is
// fixed: project context, pre-loaded files, summarized files, recent
// conversation, architecture excerpt. Downstream prompt instructions
// reference these section titles.
func FormatContext(res *Result, meta Meta) string {
	var full strings.Builder
	for _, f := range res.FullFiles {
		fmt.Fprintf(&full, "### %s\n", f.Path)
		fmt.Fprintf(&full, "```%s\n", languageHint(f.Path))
		full.WriteString(f.Content)
		full.WriteString("\n```\n\n")
	}
	fullSection := strings.TrimSuffix(full.String(), "\n")
	if fullSection == "" {
		fullSection = "(none)"
	}

	var sums strings.Builder
	for i, s := range res.Summaries {
		if i > 0 {
			sums.WriteByte('\n')
		}
		fmt.Fprintf(&sums, "- %s (%d lines) - %s", s.Path, s.LineCount, s.Purpose)
	}
	sumSection := sums.String()
	if sumSection == "" {
		sumSection = "(none)"
	}

	msgSection := formatRecentMessages(meta.Messages)
	if msgSection == "" {
		msgSection = "(new session)"
	}

	archSection := truncateRunes(meta.Architecture, architectureExcerpt)
	if archSection == "" {
		archSection = "(not yet created)"
	}

	var b strings.Builder
	b.WriteString("## Current Project Context\n\n")
	fmt.Fprintf(&b, "App Name: %s\n", meta.AppName)
	fmt.Fprintf(&b, "Preview URL: %s\n\n", meta.PreviewURL)
	b.WriteString("## Relevant Files (Pre-loaded)\n\n")
	b.WriteString("The following files are most relevant to your request. Use them directly without calling read_file:\n\n")
	b.WriteString(fullSection)
	b.WriteString("\n\n## Other Files (Request if needed)\n\n")
	b.WriteString("These files exist but weren't pre-loaded. Use read_file if you need them:\n\n")
	b.WriteString(sumSection)
	b.WriteString("\n\n## Recent Conversation\n\n")
	b.WriteString(msgSection)
	b.WriteString("\n\n## Architecture Summary\n\n")
	b.WriteString(archSection)
	b.WriteByte('\n')
	return b.String()
}

// FormatSummary renders the fallback context used before any files
// exist: the project header, a plain listing of generated paths, the
// recent conversation, and the architecture excerpt.
func FormatSummary(meta Meta, paths []string) string {
	var files strings.Builder
	for i, p := range paths {
		if i > 0 {
			files.WriteByte('\n')
		}
		fmt.Fprintf(&files, "  - %s", p)
	}
	filesSection := files.String()
	if filesSection == "" {
		filesSection = "  (none yet)"
	}

	msgSection := formatRecentMessages(meta.Messages)
	if msgSection == "" {
		msgSection = "  (new session)"
	}

	archSection := truncateRunes(meta.Architecture, architectureExcerpt)
	if archSection == "" {
		archSection = "(not yet created)"
	}

	var b strings.Builder
	b.WriteString("## Current Project Context\n\n")
	fmt.Fprintf(&b, "App Name: %s\n", meta.AppName)
	fmt.Fprintf(&b, "Preview URL: %s\n\n", meta.PreviewURL)
	b.WriteString("### Generated Files:\n")
	b.WriteString(filesSection)
	b.WriteString("\n\n### Recent Conversation:\n")
	b.WriteString(msgSection)
	b.WriteString("\n\n### Architecture:\n")
	b.WriteString(archSection)
	b.WriteByte('\n')
	return b.String()
}

// formatRecentMessages renders the last five turns, one line each, with
// long contents cut at 100 characters.
func formatRecentMessages(msgs []Message) string {
	if len(msgs) > maxRecentMessages {
		msgs = msgs[len(msgs)-maxRecentMessages:]
	}

	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteByte('\n')
		}
		content := m.Content
		if excerpt := truncateRunes(content, messageExcerptLen); excerpt != content {
			content = excerpt + "..."
		}
		fmt.Fprintf(&b, "  %s: %s", m.Role, content)
	}
	return b.String()
}

// truncateRunes cuts s to at most n runes without splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
