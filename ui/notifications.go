package ui

import (
	"fmt"
	"io"
	"strings"

	"searchgate/core/types"
)

// FormatNotification renders a notification for a plain terminal.
// Multi-line content is indented under the author line.
func FormatNotification(n types.Notification) string {
	author := n.Author
	if author == "" {
		author = "System"
	}

	lines := strings.Split(strings.TrimRight(n.Content, "\n"), "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", author, lines[0])
	for _, line := range lines[1:] {
		b.WriteString("\n   ")
		b.WriteString(line)
	}
	return b.String()
}

// DisplayNotification writes a notification followed by a blank line
func DisplayNotification(w io.Writer, n types.Notification) {
	fmt.Fprintf(w, "\n%s\n\n", FormatNotification(n))
}
