package gate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"searchgate/config"
	"searchgate/core/audit"
	"searchgate/core/types"
)

// fakeClock is a settable clock shared by every component under test
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeProvider returns canned results, or fails/panics when told to
type fakeProvider struct {
	mu      sync.Mutex
	results []types.SearchResult
	err     error
	panics  bool
	block   chan struct{}
	calls   atomic.Int32
	queries []string
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) Search(_ context.Context, query string, _ int) ([]types.SearchResult, error) {
	p.calls.Add(1)
	p.mu.Lock()
	p.queries = append(p.queries, query)
	block := p.block
	p.mu.Unlock()

	if block != nil {
		<-block
	}
	if p.panics {
		panic("boom")
	}
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

func (p *fakeProvider) Queries() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.queries...)
}

// recordingMessenger keeps every notification it is asked to send
type recordingMessenger struct {
	mu    sync.Mutex
	notes []types.Notification
	err   error
}

func (m *recordingMessenger) SendMessage(_ context.Context, n types.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(m.notes, n)
	return m.err
}

func (m *recordingMessenger) All() []types.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Notification(nil), m.notes...)
}

func (m *recordingMessenger) OfKind(kind types.NotificationKind) []types.Notification {
	var out []types.Notification
	for _, n := range m.All() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// recordingSink keeps injected context blocks
type recordingSink struct {
	mu     sync.Mutex
	blocks []string
	err    error
}

func (s *recordingSink) InjectContextualMemory(_ context.Context, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = append(s.blocks, text)
	return s.err
}

func (s *recordingSink) Blocks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.blocks...)
}

// recordingAuditor keeps audit entries in memory
type recordingAuditor struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (a *recordingAuditor) LogExecution(entry audit.Entry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func (a *recordingAuditor) Entries() []audit.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]audit.Entry(nil), a.entries...)
}

var errProviderDown = errors.New("provider unavailable")

// testSearchConfig returns the shipped defaults
func testSearchConfig() config.SearchConfig {
	return config.Default().Search
}

type testEngine struct {
	*Engine
	clock     *fakeClock
	provider  *fakeProvider
	messenger *recordingMessenger
	sink      *recordingSink
	auditor   *recordingAuditor
}

func newTestEngine(t testing.TB, search config.SearchConfig, provider *fakeProvider) *testEngine {
	t.Helper()
	if provider == nil {
		provider = &fakeProvider{results: sampleResults()}
	}
	te := &testEngine{
		clock:     newFakeClock(),
		provider:  provider,
		messenger: &recordingMessenger{},
		sink:      &recordingSink{},
		auditor:   &recordingAuditor{},
	}
	engine, err := NewEngine(Options{
		Search:    search,
		Provider:  provider,
		Messenger: te.messenger,
		Sink:      te.sink,
		Auditor:   te.auditor,
		Now:       te.clock.Now,
	})
	require.NoError(t, err)
	te.Engine = engine
	return te
}

func sampleResults() []types.SearchResult {
	return []types.SearchResult{
		{Title: "The Rust Book: Ownership", URL: "https://doc.rust-lang.org/book/ch04-01-what-is-ownership.html", Snippet: "Each value in Rust has an owner."},
		{Title: "Rust by Example", URL: "https://doc.rust-lang.org/rust-by-example/scope/move.html", Snippet: "Resources can only have one owner."},
		{Title: "Ownership rules explained", URL: "https://example.com/ownership", Snippet: "Borrowing and moves."},
		{Title: "Extra result", URL: "https://example.com/extra", Snippet: "Should be truncated away."},
	}
}
