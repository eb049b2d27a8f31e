package store

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory document store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string][]storedRevision // docID -> revisions, oldest first
	closed bool
}

type storedRevision struct {
	data      []byte
	revision  int64
	timestamp time.Time
}

// NewMemoryStore creates a new in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]storedRevision),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(docID string, data []byte) (Info, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Info{}, ErrStoreClosed
	}

	revs := m.data[docID]
	rev := int64(1)
	if n := len(revs); n > 0 {
		rev = revs[n-1].revision + 1
	}

	// Copy data to avoid retaining caller's slice
	stored := make([]byte, len(data))
	copy(stored, data)

	r := storedRevision{data: stored, revision: rev, timestamp: time.Now().UTC()}
	m.data[docID] = append(revs, r)
	return r.info(docID), nil
}

// Load implements Store.
func (m *MemoryStore) Load(docID string) ([]byte, Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, Info{}, ErrStoreClosed
	}

	revs := m.data[docID]
	if len(revs) == 0 {
		return nil, Info{}, ErrNotFound
	}
	r := revs[len(revs)-1]
	return copyBytes(r.data), r.info(docID), nil
}

// LoadRevision implements Store.
func (m *MemoryStore) LoadRevision(docID string, revision int64) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	for _, r := range m.data[docID] {
		if r.revision == revision {
			return copyBytes(r.data), nil
		}
	}
	return nil, ErrNotFound
}

// List implements Store.
func (m *MemoryStore) List(docID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	revs := m.data[docID]
	infos := make([]Info, 0, len(revs))
	for _, r := range revs {
		infos = append(infos, r.info(docID))
	}
	return infos, nil
}

// Documents implements Store.
func (m *MemoryStore) Documents() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	ids := make([]string, 0, len(m.data))
	for id := range m.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteRevision implements Store.
func (m *MemoryStore) DeleteRevision(docID string, revision int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	revs := m.data[docID]
	for i, r := range revs {
		if r.revision == revision {
			m.set(docID, append(revs[:i:i], revs[i+1:]...))
			break
		}
	}
	return nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(docID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, docID)
	return nil
}

// Prune implements Store.
func (m *MemoryStore) Prune(docID string, keep int) error {
	if keep < 0 {
		return ErrInvalidKeep
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	revs := m.data[docID]
	if len(revs) > keep {
		m.set(docID, append([]storedRevision(nil), revs[len(revs)-keep:]...))
	}
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the total number of revisions across all documents.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, revs := range m.data {
		count += len(revs)
	}
	return count
}

// set replaces the revisions of docID, dropping the document when none remain.
// Callers hold m.mu.
func (m *MemoryStore) set(docID string, revs []storedRevision) {
	if len(revs) == 0 {
		delete(m.data, docID)
		return
	}
	m.data[docID] = revs
}

func (r storedRevision) info(docID string) Info {
	return Info{
		DocumentID: docID,
		Revision:   r.revision,
		Timestamp:  r.timestamp,
		Size:       int64(len(r.data)),
	}
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
