package ui

import (
	"fmt"
	"io"

	"searchgate/config"
)

// PrintHelp lists the chat commands for the configured tokens
func PrintHelp(w io.Writer, cfg config.SearchConfig) {
	fmt.Fprintln(w, "\n=== Commands ===")
	fmt.Fprintf(w, "  %-28s %s\n", cfg.UserSearchPrefix+" <query>", "search now (once every "+fmt.Sprint(cfg.Cooldown())+")")
	fmt.Fprintf(w, "  %-28s %s\n", cfg.ConfirmPrefix+" <id>", "approve a search the AI asked for")
	fmt.Fprintf(w, "  %-28s %s\n", "@ai <text>", "send text as the AI; "+cfg.AISearchFlag+` "query" requests a search`)
	fmt.Fprintf(w, "  %-28s %s\n", "/pending", "list searches awaiting confirmation")
	fmt.Fprintf(w, "  %-28s %s\n", "/context", "show context injected for the AI")
	fmt.Fprintf(w, "  %-28s %s\n", "help", "show this help")
	fmt.Fprintf(w, "  %-28s %s\n", "exit", "quit")
	fmt.Fprintln(w)
}
