package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"searchgate/core/types"
	"searchgate/gate"
	"searchgate/session"
	"searchgate/ui"
)

// Interface handles terminal chat I/O and delivers gate notifications
type Interface struct {
	mu      sync.Mutex
	scanner *bufio.Scanner
	out     io.Writer
	history *session.History
}

// NewInterface creates a chat interface reading from in and writing to out
func NewInterface(in io.Reader, out io.Writer, history *session.History) *Interface {
	return &Interface{
		scanner: bufio.NewScanner(in),
		out:     out,
		history: history,
	}
}

// ReadInput prompts and reads one line. It returns io.EOF at end of input.
func (i *Interface) ReadInput() (string, error) {
	i.mu.Lock()
	fmt.Fprint(i.out, "You: ")
	i.mu.Unlock()

	if !i.scanner.Scan() {
		if err := i.scanner.Err(); err != nil {
			return "", fmt.Errorf("error reading input: %w", err)
		}
		return "", io.EOF
	}

	return strings.TrimSpace(i.scanner.Text()), nil
}

// SendMessage prints a notification. It is safe to call from executor goroutines.
func (i *Interface) SendMessage(_ context.Context, n types.Notification) error {
	if i.history != nil {
		i.history.AddMessage(session.RoleSystem, n.Content)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	ui.DisplayNotification(i.out, n)
	return nil
}

// Record adds an input line to the history
func (i *Interface) Record(in Input) {
	if i.history == nil {
		return
	}
	role := session.RoleUser
	if in.Stream == StreamAgent {
		role = session.RoleAgent
	}
	i.history.AddMessage(role, in.Message.Content)
}

// DisplayResponse prints text on behalf of the gate
func (i *Interface) DisplayResponse(response string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprintln(i.out, response)
}

// DisplayError displays an error message
func (i *Interface) DisplayError(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	fmt.Fprintf(i.out, "\nError: %v\n", err)
}

// DisplayPending lists requests awaiting confirmation
func (i *Interface) DisplayPending(pending []gate.PendingRequest, ttl time.Duration, now time.Time) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(pending) == 0 {
		fmt.Fprintln(i.out, "No searches awaiting confirmation")
		return
	}
	for _, p := range pending {
		left := ttl - p.Age(now)
		if left < 0 {
			left = 0
		}
		fmt.Fprintf(i.out, "  %s  %q  (%s left)\n", p.ID, p.Query, left.Round(time.Second))
	}
}

// DisplayContext shows the context injected for the AI
func (i *Interface) DisplayContext(blocks []string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(blocks) == 0 {
		fmt.Fprintln(i.out, "No context injected yet")
		return
	}
	for _, b := range blocks {
		fmt.Fprintln(i.out, b)
	}
}
