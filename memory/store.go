package memory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store persists injected context in SQLite
type Store struct {
	db     *sql.DB
	hasFTS bool
}

// NewStore opens (and creates if needed) the database at dbPath
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session TEXT NOT NULL,
		content TEXT NOT NULL,
		source TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_memories_session ON memories(session);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// FTS5 is optional; without it Search falls back to LIKE
	ftsSchema := `
	CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(
		content,
		content=memories,
		content_rowid=id
	);

	CREATE TRIGGER IF NOT EXISTS memories_ai AFTER INSERT ON memories BEGIN
		INSERT INTO memories_fts(rowid, content) VALUES (new.id, new.content);
	END;

	CREATE TRIGGER IF NOT EXISTS memories_ad AFTER DELETE ON memories BEGIN
		INSERT INTO memories_fts(memories_fts, rowid, content) VALUES ('delete', old.id, old.content);
	END;
	`
	if _, err := s.db.Exec(ftsSchema); err == nil {
		s.hasFTS = true
	}

	return nil
}

// Add stores content for session
func (s *Store) Add(ctx context.Context, session, content, source string) (*Memory, error) {
	if content == "" {
		return nil, errors.New("memory content is empty")
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (session, content, source, created_at) VALUES (?, ?, ?, ?)`,
		session, content, source, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert memory: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get memory id: %w", err)
	}

	return &Memory{
		ID:        id,
		Session:   session,
		Content:   content,
		Source:    source,
		CreatedAt: now,
	}, nil
}

// Recent returns the last limit memories of session, oldest first
func (s *Store) Recent(ctx context.Context, session string, limit int) ([]Memory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session, content, source, created_at FROM (
			SELECT id, session, content, source, created_at
			FROM memories WHERE session = ?
			ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`, session, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// Search finds memories of session containing term
func (s *Store) Search(ctx context.Context, session, term string, limit int) ([]Memory, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if s.hasFTS {
		rows, err = s.db.QueryContext(ctx, `
			SELECT m.id, m.session, m.content, m.source, m.created_at
			FROM memories_fts f JOIN memories m ON m.id = f.rowid
			WHERE memories_fts MATCH ? AND m.session = ?
			ORDER BY m.id DESC LIMIT ?`, ftsQuote(term), session, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, session, content, source, created_at
			FROM memories WHERE session = ? AND content LIKE ?
			ORDER BY id DESC LIMIT ?`, session, "%"+term+"%", limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search memories: %w", err)
	}
	defer rows.Close()

	return scanMemories(rows)
}

// Clear deletes every memory of session
func (s *Store) Clear(ctx context.Context, session string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM memories WHERE session = ?`, session)
	if err != nil {
		return 0, fmt.Errorf("failed to clear memories: %w", err)
	}
	return res.RowsAffected()
}

// Sink returns a context sink that writes into session
func (s *Store) Sink(session string) *Sink {
	return &Sink{store: s, session: session}
}

// Sink adapts a Store to the engine's context-injection interface
type Sink struct {
	store   *Store
	session string
}

// InjectContextualMemory stores text as a search memory
func (k *Sink) InjectContextualMemory(ctx context.Context, text string) error {
	_, err := k.store.Add(ctx, k.session, text, SourceSearch)
	return err
}

func scanMemories(rows *sql.Rows) ([]Memory, error) {
	var memories []Memory
	for rows.Next() {
		var (
			m      Memory
			source sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.Session, &m.Content, &source, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		m.Source = source.String
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

// ftsQuote turns term into a single FTS5 phrase so punctuation is not parsed as syntax
func ftsQuote(term string) string {
	escaped := ""
	for _, r := range term {
		if r == '"' {
			escaped += `""`
			continue
		}
		escaped += string(r)
	}
	return `"` + escaped + `"`
}
