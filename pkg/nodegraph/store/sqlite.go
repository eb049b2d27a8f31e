package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists document revisions to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite document store.
// The path should be a file path (e.g., "./scenes.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Each connection to ":memory:" is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT NOT NULL,
			revision INTEGER NOT NULL,
			timestamp TEXT NOT NULL,
			data BLOB NOT NULL,
			PRIMARY KEY (doc_id, revision)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(docID string, data []byte) (Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return Info{}, ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Info{}, fmt.Errorf("save document: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var rev int64
	if err := tx.QueryRow(`
		SELECT COALESCE(MAX(revision), 0) + 1 FROM documents WHERE doc_id = ?
	`, docID).Scan(&rev); err != nil {
		return Info{}, fmt.Errorf("save document: %w", err)
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(`
		INSERT INTO documents (doc_id, revision, timestamp, data)
		VALUES (?, ?, ?, ?)
	`, docID, rev, now.Format(time.RFC3339Nano), data); err != nil {
		return Info{}, fmt.Errorf("save document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Info{}, fmt.Errorf("save document: %w", err)
	}

	return Info{
		DocumentID: docID,
		Revision:   rev,
		Timestamp:  now,
		Size:       int64(len(data)),
	}, nil
}

// Load implements Store.
func (s *SQLiteStore) Load(docID string) ([]byte, Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, Info{}, ErrStoreClosed
	}

	var (
		data      []byte
		timestamp string
		info      = Info{DocumentID: docID}
	)
	err := s.db.QueryRow(`
		SELECT revision, timestamp, data FROM documents
		WHERE doc_id = ?
		ORDER BY revision DESC
		LIMIT 1
	`, docID).Scan(&info.Revision, &timestamp, &data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, Info{}, ErrNotFound
	}
	if err != nil {
		return nil, Info{}, fmt.Errorf("load document: %w", err)
	}
	info.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
	info.Size = int64(len(data))
	return data, info, nil
}

// LoadRevision implements Store.
func (s *SQLiteStore) LoadRevision(docID string, revision int64) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	var data []byte
	err := s.db.QueryRow(`
		SELECT data FROM documents
		WHERE doc_id = ? AND revision = ?
	`, docID, revision).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load revision: %w", err)
	}
	return data, nil
}

// List implements Store.
func (s *SQLiteStore) List(docID string) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`
		SELECT revision, timestamp, LENGTH(data)
		FROM documents
		WHERE doc_id = ?
		ORDER BY revision
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	defer rows.Close()

	infos := []Info{}
	for rows.Next() {
		info := Info{DocumentID: docID}
		var timestamp string
		if err := rows.Scan(&info.Revision, &timestamp, &info.Size); err != nil {
			return nil, fmt.Errorf("scan revision info: %w", err)
		}
		info.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate revisions: %w", err)
	}
	return infos, nil
}

// Documents implements Store.
func (s *SQLiteStore) Documents() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.Query(`SELECT DISTINCT doc_id FROM documents ORDER BY doc_id`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return ids, nil
}

// DeleteRevision implements Store.
func (s *SQLiteStore) DeleteRevision(docID string, revision int64) error {
	return s.exec("delete revision",
		`DELETE FROM documents WHERE doc_id = ? AND revision = ?`, docID, revision)
}

// Delete implements Store.
func (s *SQLiteStore) Delete(docID string) error {
	return s.exec("delete document", `DELETE FROM documents WHERE doc_id = ?`, docID)
}

// Prune implements Store.
func (s *SQLiteStore) Prune(docID string, keep int) error {
	if keep < 0 {
		return ErrInvalidKeep
	}
	return s.exec("prune document", `
		DELETE FROM documents
		WHERE doc_id = ? AND revision NOT IN (
			SELECT revision FROM documents
			WHERE doc_id = ?
			ORDER BY revision DESC
			LIMIT ?
		)
	`, docID, docID, keep)
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

func (s *SQLiteStore) exec(op, query string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
