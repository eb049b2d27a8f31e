package nodegraph

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every typed error below matches one of these with
// errors.Is.
var (
	// ErrNotFound indicates an operation referenced an id not in the scene.
	ErrNotFound = errors.New("not found")

	// ErrInvalidEndpoint indicates an edge endpoint is missing or refused.
	ErrInvalidEndpoint = errors.New("invalid edge endpoint")

	// ErrKindMismatch indicates an edge source is not an output or its
	// target is not an input.
	ErrKindMismatch = errors.New("socket kind mismatch")

	// ErrCapacityExceeded indicates a socket is at its connection limit.
	ErrCapacityExceeded = errors.New("socket capacity exceeded")

	// ErrEmptyID indicates an empty id was offered for registration.
	ErrEmptyID = errors.New("empty id")

	// ErrInvalidPosition indicates a node position that is NaN or infinite.
	ErrInvalidPosition = errors.New("invalid node position")

	// ErrDuplicateID indicates an id is already in use in the scene.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrMalformedDocument indicates a document cannot be loaded.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrReentrancy indicates a scene operation was started while another
	// one, including its notifications, was still in flight.
	ErrReentrancy = errors.New("reentrant scene operation")

	// ErrDisposed indicates the scene has been disposed.
	ErrDisposed = errors.New("scene disposed")

	// ErrInconsistent is returned by Validate when an internal invariant
	// does not hold.
	ErrInconsistent = errors.New("scene inconsistent")
)

// NotFoundError reports a missing node, edge or socket.
type NotFoundError struct {
	// Kind is "node", "edge", "socket" or "item".
	Kind string
	ID   ID
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// InvalidEndpointError reports an edge that cannot be created between two
// sockets.
type InvalidEndpointError struct {
	Source ID
	Target ID
	Reason string
	// Err is the validator error, if a validator refused the edge.
	Err error
}

// Error implements the error interface.
func (e *InvalidEndpointError) Error() string {
	return fmt.Sprintf("invalid edge %s -> %s: %s", e.Source, e.Target, e.Reason)
}

// Is reports whether target is ErrInvalidEndpoint.
func (e *InvalidEndpointError) Is(target error) bool {
	return target == ErrInvalidEndpoint
}

// Unwrap returns the validator error for errors.Is/As support.
func (e *InvalidEndpointError) Unwrap() error {
	return e.Err
}

// KindMismatchError reports a socket used on the wrong end of an edge.
type KindMismatchError struct {
	SocketID ID
	Want     SocketKind
	Got      SocketKind
}

// Error implements the error interface.
func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("socket %s is an %s, want %s", e.SocketID, e.Got, e.Want)
}

// Is reports whether target is ErrKindMismatch.
func (e *KindMismatchError) Is(target error) bool {
	return target == ErrKindMismatch
}

// CapacityExceededError reports a socket at its connection limit.
type CapacityExceededError struct {
	SocketID ID
	Max      int
}

// Error implements the error interface.
func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("socket %s is at its limit of %d connections", e.SocketID, e.Max)
}

// Is reports whether target is ErrCapacityExceeded.
func (e *CapacityExceededError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// InvalidPositionError reports a non-finite node position.
type InvalidPositionError struct {
	Pos Point
}

// Error implements the error interface.
func (e *InvalidPositionError) Error() string {
	return fmt.Sprintf("invalid node position (%v, %v)", e.Pos.X, e.Pos.Y)
}

// Is reports whether target is ErrInvalidPosition.
func (e *InvalidPositionError) Is(target error) bool {
	return target == ErrInvalidPosition
}

// DuplicateIDError reports an id that is already in use.
type DuplicateIDError struct {
	ID ID
}

// Error implements the error interface.
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate id %s", e.ID)
}

// Is reports whether target is ErrDuplicateID.
func (e *DuplicateIDError) Is(target error) bool {
	return target == ErrDuplicateID
}

// MalformedDocumentError reports a document that cannot be loaded.
// When the cause is a duplicate id, Err is a *DuplicateIDError, so the error
// matches both ErrMalformedDocument and ErrDuplicateID.
type MalformedDocumentError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *MalformedDocumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed document: %s: %v", e.Reason, e.Err)
	}
	return "malformed document: " + e.Reason
}

// Is reports whether target is ErrMalformedDocument.
func (e *MalformedDocumentError) Is(target error) bool {
	return target == ErrMalformedDocument
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *MalformedDocumentError) Unwrap() error {
	return e.Err
}

// ReentrancyError reports an operation started from inside a notification
// handler of another operation.
type ReentrancyError struct {
	// Op is the rejected operation.
	Op string
}

// Error implements the error interface.
func (e *ReentrancyError) Error() string {
	return fmt.Sprintf("%s called while another scene operation is in progress", e.Op)
}

// Is reports whether target is ErrReentrancy.
func (e *ReentrancyError) Is(target error) bool {
	return target == ErrReentrancy
}

func malformed(err error, format string, args ...any) *MalformedDocumentError {
	return &MalformedDocumentError{Reason: fmt.Sprintf(format, args...), Err: err}
}
