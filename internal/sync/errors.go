package sync

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Store.Get when no document exists under the
// requested collection/id.
var ErrNotFound = errors.New("document not found")

// StoreErrorKind classifies store-level failures.
type StoreErrorKind string

const (
	StoreUnavailable StoreErrorKind = "unavailable"
	StoreRejected    StoreErrorKind = "rejected"
	StoreTimeout     StoreErrorKind = "timeout"
)

// StoreError wraps a failure from the remote store. The adapter performs
// no retries; callers decide whether a kind is worth acting on.
type StoreError struct {
	Kind StoreErrorKind
	Op   string // "get", "query", "put", "delete", "batch"
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err as a StoreError of the given kind.
func NewStoreError(kind StoreErrorKind, op string, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

// IsStoreError reports whether err is (or wraps) a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// ReconciliationErrorKind classifies logical inconsistencies between the
// catalog and the remote store.
type ReconciliationErrorKind string

const (
	PartialWrite        ReconciliationErrorKind = "partial_write"
	OrphanSlides        ReconciliationErrorKind = "orphan_slides"
	DuplicateNaturalKey ReconciliationErrorKind = "duplicate_natural_key"
	StuckSuperseding    ReconciliationErrorKind = "stuck_superseding"
)

// ReconciliationError reports a logical inconsistency. These are detected
// by the resolver and by Verify; they are never auto-repaired.
type ReconciliationError struct {
	Kind       ReconciliationErrorKind
	NaturalKey string
	Detail     string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("reconciliation %s for %q: %s", e.Kind, e.NaturalKey, e.Detail)
}

// IsReconciliationError reports whether err is a ReconciliationError of the
// given kind.
func IsReconciliationError(err error, kind ReconciliationErrorKind) bool {
	var re *ReconciliationError
	if !errors.As(err, &re) {
		return false
	}
	return re.Kind == kind
}
