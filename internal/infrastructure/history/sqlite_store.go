package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/doeshing/sllm/internal/domain"
	"github.com/doeshing/sllm/internal/ports"
)

// SQLiteStore persists the exchange log in a SQLite database. It honours the
// same cap and window semantics as FileStore.
type SQLiteStore struct {
	db    *sql.DB
	path  string
	limit int
	log   ports.Logger
}

// NewSQLiteStore opens (or creates) <dir>/history.db.
func NewSQLiteStore(dir string, limit int, log ports.Logger) (*SQLiteStore, error) {
	if limit <= 0 {
		limit = domain.MaxHistoryStore
	}
	store := &SQLiteStore{
		path:  filepath.Join(dir, domain.HistoryDBFileName),
		limit: limit,
		log:   log,
	}
	if err := store.open(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) open() error {
	if err := os.MkdirAll(filepath.Dir(s.path), domain.DirectoryPermissions); err != nil {
		return &domain.IOError{Op: "create", Path: filepath.Dir(s.path), Err: err}
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return &domain.IOError{Op: "open", Path: s.path, Err: err}
	}
	s.db = db
	return s.init()
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS exchanges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		prompt TEXT NOT NULL,
		reply TEXT NOT NULL,
		created_at TEXT NOT NULL
	);`)
	if err != nil {
		return &domain.IOError{Op: "init", Path: s.path, Err: err}
	}
	return nil
}

// Path returns the sqlite database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Ensure reopens the database after a purge.
func (s *SQLiteStore) Ensure() error {
	if s.db != nil {
		return s.init()
	}
	return s.open()
}

// Append inserts an exchange and prunes everything but the newest limit rows.
func (s *SQLiteStore) Append(entry domain.HistoryEntry) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin history append: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO exchanges (prompt, reply, created_at) VALUES (?, ?, ?)`,
		entry.User, entry.LLM, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM exchanges WHERE id NOT IN (
		SELECT id FROM exchanges ORDER BY id DESC LIMIT ?)`, s.limit); err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	return tx.Commit()
}

// Window implements ports.HistoryRepository. Query failures degrade to an
// empty window with a warning.
func (s *SQLiteStore) Window(count int, newestFirst bool) ([]domain.HistoryEntry, error) {
	if count <= 0 || s.db == nil {
		return []domain.HistoryEntry{}, nil
	}
	rows, err := s.db.Query(`SELECT prompt, reply FROM exchanges ORDER BY id DESC LIMIT ?`, count)
	if err != nil {
		s.warn("can not read history database", err)
		return []domain.HistoryEntry{}, nil
	}
	defer rows.Close()

	newest := domain.HistoryLog{}
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.User, &entry.LLM); err != nil {
			s.warn("can not read history row", err)
			return []domain.HistoryEntry{}, nil
		}
		newest = append(newest, entry)
	}
	if err := rows.Err(); err != nil {
		s.warn("can not read history database", err)
		return []domain.HistoryEntry{}, nil
	}
	if newestFirst {
		return newest, nil
	}
	// newest is already newest-first; asking the log for its own newest-first
	// window of the full length flips it back to chronological order.
	return newest.Window(len(newest), true), nil
}

// Undo deletes the n most recent exchanges.
func (s *SQLiteStore) Undo(n int) error {
	if n <= 0 {
		n = domain.DefaultUndoCount
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM exchanges WHERE id IN (
		SELECT id FROM exchanges ORDER BY id DESC LIMIT ?)`, n)
	if err != nil {
		return fmt.Errorf("undo history: %w", err)
	}
	return nil
}

// Last returns the most recent exchange.
func (s *SQLiteStore) Last() (domain.HistoryEntry, bool, error) {
	window, err := s.Window(1, true)
	if err != nil || len(window) == 0 {
		return domain.HistoryEntry{}, false, err
	}
	return window[0], true, nil
}

// Purge closes and deletes the database file.
func (s *SQLiteStore) Purge() error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("close history database: %w", err)
		}
		s.db = nil
	}
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return &domain.IOError{Op: "remove", Path: s.path, Err: err}
	}
	return nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteStore) warn(msg string, err error) {
	if s.log == nil {
		return
	}
	s.log.Warn(msg, map[string]interface{}{"path": s.path, "error": err.Error()})
}

var _ ports.HistoryRepository = (*SQLiteStore)(nil)
