package testutil

import (
	"context"

	"lsync-go/internal/store"
	lsync "lsync-go/internal/sync"
)

// NewTestStore creates an in-memory document store with a fixed clock.
func NewTestStore() *store.MemoryStore {
	return store.NewMemoryStore(FixedClock())
}

// FlakyStore wraps a Store and fails selected operations with the
// configured error. A zero FlakyStore passes everything through.
type FlakyStore struct {
	Inner lsync.Store

	GetErr     error
	QueryErr   error
	BatchErr   error
	BatchAfter int // fail BatchWrite only after this many successful batches
	batches    int
}

func (f *FlakyStore) Get(ctx context.Context, collection, id string) (lsync.Document, error) {
	if f.GetErr != nil {
		return lsync.Document{}, f.GetErr
	}
	return f.Inner.Get(ctx, collection, id)
}

func (f *FlakyStore) QueryByField(ctx context.Context, collection, field string, value any) ([]lsync.Document, error) {
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	return f.Inner.QueryByField(ctx, collection, field, value)
}

func (f *FlakyStore) Put(ctx context.Context, collection, id string, data map[string]any) error {
	return f.Inner.Put(ctx, collection, id, data)
}

func (f *FlakyStore) Delete(ctx context.Context, collection, id string) error {
	return f.Inner.Delete(ctx, collection, id)
}

func (f *FlakyStore) BatchWrite(ctx context.Context, ops []lsync.Op) error {
	if f.BatchErr != nil {
		if f.batches >= f.BatchAfter {
			return f.BatchErr
		}
		f.batches++
	}
	return f.Inner.BatchWrite(ctx, ops)
}

func (f *FlakyStore) Close() error { return f.Inner.Close() }
