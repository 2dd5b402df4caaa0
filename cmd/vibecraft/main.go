// VibeCraft: chat-driven app builder.
//
// Build and modify Next.js apps through conversation, with a smart
// context engine that keeps model calls small.
//
// Usage:
//
//	vibecraft serve    # HTTP API server
//	vibecraft mcp      # MCP server (stdio transport)
//	vibecraft chat     # interactive chat in the terminal
//	vibecraft bench    # smart context benchmark
//	vibecraft update   # update to the latest version
package main

import (
	"fmt"
	"os"

	"github.com/vibecraft-ai/vibecraft/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
