package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchgate/core/types"
)

func TestLogExecution(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	logger := NewLogger(path)
	assert.Equal(t, path, logger.Path())

	require.NoError(t, logger.LogExecution(Entry{
		RequestID:   "ai-1717243200000-1",
		Query:       "rust ownership rules",
		Initiator:   types.InitiatorAI,
		Provider:    "duckduckgo",
		DurationMS:  420,
		ResultCount: 3,
	}))
	require.NoError(t, logger.LogExecution(Entry{
		RequestID: "user-1717243200000-1",
		Query:     "golang generics",
		Initiator: types.InitiatorUser,
		Error:     "unexpected status code: 429",
	}))

	entries, err := logger.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.NotEmpty(t, entries[0].ID)
	assert.False(t, entries[0].Timestamp.IsZero())
	assert.Equal(t, "rust ownership rules", entries[0].Query)
	assert.Equal(t, types.InitiatorAI, entries[0].Initiator)
	assert.Equal(t, int64(420), entries[0].DurationMS)
	assert.Equal(t, "unexpected status code: 429", entries[1].Error)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestEntriesMissingFile(t *testing.T) {
	entries, err := NewLogger(filepath.Join(t.TempDir(), "none.log")).Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEntriesSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	logger := NewLogger(path)
	require.NoError(t, logger.LogExecution(Entry{RequestID: "a"}))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, logger.LogExecution(Entry{RequestID: "b"}))

	entries, err := logger.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[1].RequestID)
}

func TestRecent(t *testing.T) {
	logger := NewLogger(filepath.Join(t.TempDir(), "audit.log"))
	for i := 0; i < 5; i++ {
		require.NoError(t, logger.LogExecution(Entry{RequestID: fmt.Sprintf("id-%d", i)}))
	}

	recent, err := logger.Recent(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "id-3", recent[0].RequestID)
	assert.Equal(t, "id-4", recent[1].RequestID)

	all, err := logger.Recent(10)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestConcurrentWrites(t *testing.T) {
	logger := NewLogger(filepath.Join(t.TempDir(), "audit.log"))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, logger.LogExecution(Entry{RequestID: fmt.Sprintf("id-%d", i)}))
		}(i)
	}
	wg.Wait()

	entries, err := logger.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}
