package sync

import (
	"context"
	"errors"
	"fmt"
)

// KeyExtractor maps a lesson to its natural key and names the remote
// field that key is stored under. The default is the exact title; a
// slug- or hash-based key can be swapped in without touching the syncer.
type KeyExtractor interface {
	Key(lesson Lesson) string
	Field() string
}

// TitleKey is the default KeyExtractor: exact string match on the title
// field, no case or whitespace normalization.
type TitleKey struct{}

func (TitleKey) Key(lesson Lesson) string { return lesson.Title }
func (TitleKey) Field() string            { return "title" }

// Resolver determines whether a catalog lesson already has a remote
// counterpart. Lookups are keyed on the natural key, never on the remote
// id, because the syncer runs before any remote id is known.
type Resolver struct {
	store Store
	keys  KeyExtractor
}

// NewResolver creates a Resolver over the given store. If keys is nil,
// TitleKey is used.
func NewResolver(store Store, keys KeyExtractor) *Resolver {
	if keys == nil {
		keys = TitleKey{}
	}
	return &Resolver{store: store, keys: keys}
}

// Keys returns the resolver's KeyExtractor.
func (r *Resolver) Keys() KeyExtractor { return r.keys }

// FindByNaturalKey returns the remote lesson document matching the given
// natural key, or ErrNotFound if absent. More than one match means the
// uniqueness convention was violated somewhere and is reported as a
// ReconciliationError rather than silently picking the first result.
func (r *Resolver) FindByNaturalKey(ctx context.Context, naturalKey string) (Document, error) {
	docs, err := r.store.QueryByField(ctx, LessonsCollection, r.keys.Field(), naturalKey)
	if err != nil {
		return Document{}, fmt.Errorf("querying lessons by %s: %w", r.keys.Field(), err)
	}

	switch len(docs) {
	case 0:
		return Document{}, ErrNotFound
	case 1:
		return docs[0], nil
	default:
		return Document{}, &ReconciliationError{
			Kind:       DuplicateNaturalKey,
			NaturalKey: naturalKey,
			Detail:     fmt.Sprintf("%d remote lessons share this key", len(docs)),
		}
	}
}

// Exists reports whether a lesson with the given natural key is present
// remotely. Duplicate matches propagate as an error.
func (r *Resolver) Exists(ctx context.Context, naturalKey string) (bool, error) {
	_, err := r.FindByNaturalKey(ctx, naturalKey)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}
