// Package store provides revisioned persistence for scene documents.
//
// Every Save appends a new revision under the document id, so earlier
// versions of a document stay loadable until they are deleted or pruned.
// The stored bytes are opaque to the store; callers save the JSON produced
// by the document package.
package store

import (
	"errors"
	"time"
)

// Store persists document revisions.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data as the next revision of docID.
	// Revisions start at 1 and are one more than the highest existing revision.
	Save(docID string, data []byte) (Info, error)

	// Load retrieves the latest revision of docID.
	// Returns ErrNotFound if the document has no revisions.
	Load(docID string) ([]byte, Info, error)

	// LoadRevision retrieves a specific revision.
	// Returns ErrNotFound if it doesn't exist.
	LoadRevision(docID string, revision int64) ([]byte, error)

	// List returns all revisions of docID, oldest first.
	// Returns empty slice (not error) if the document has no revisions.
	List(docID string) ([]Info, error)

	// Documents returns the ids of all stored documents, sorted.
	Documents() ([]string, error)

	// DeleteRevision removes one revision.
	// Returns nil if it doesn't exist.
	DeleteRevision(docID string, revision int64) error

	// Delete removes every revision of docID.
	// Returns nil if the document doesn't exist.
	Delete(docID string) error

	// Prune keeps the newest keep revisions of docID and removes the rest.
	Prune(docID string, keep int) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides revision metadata without loading the data.
type Info struct {
	DocumentID string
	Revision   int64
	Timestamp  time.Time
	Size       int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a document or revision doesn't exist.
	ErrNotFound = errors.New("document not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("document store closed")

	// ErrInvalidKeep indicates a negative Prune count.
	ErrInvalidKeep = errors.New("prune keep count must be >= 0")
)
