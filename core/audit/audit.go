package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"searchgate/core/types"
)

// Entry represents a single search execution
type Entry struct {
	ID          string              `json:"id"`
	Timestamp   time.Time           `json:"timestamp"`
	RequestID   string              `json:"request_id"`
	Query       string              `json:"query"`
	Initiator   types.InitiatorKind `json:"initiator"`
	Provider    string              `json:"provider"`
	DurationMS  int64               `json:"duration_ms"`
	ResultCount int                 `json:"result_count"`
	Error       string              `json:"error,omitempty"`
}

// Logger appends entries as JSON lines to a file
type Logger struct {
	mu   sync.Mutex
	path string
}

// NewLogger creates a logger writing to path
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Path returns the log file location
func (l *Logger) Path() string {
	return l.path
}

// LogExecution appends an entry. Missing ID and Timestamp are filled in.
func (l *Logger) LogExecution(entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer file.Close()

	if _, err := file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}

// Entries reads all entries from the file. Malformed lines are skipped.
func (l *Logger) Entries() ([]Entry, error) {
	l.mu.Lock()
	data, err := os.ReadFile(l.path)
	l.mu.Unlock()

	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}

		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// Recent returns the n most recent entries
func (l *Logger) Recent(n int) ([]Entry, error) {
	entries, err := l.Entries()
	if err != nil {
		return nil, err
	}

	if len(entries) <= n {
		return entries, nil
	}

	return entries[len(entries)-n:], nil
}
