package store

import (
	"context"
	"fmt"
	"sync"

	lsync "lsync-go/internal/sync"
)

// MemoryStore is an in-memory implementation of the Store interface.
// It backs tests and the demo mode. Batches are applied under one lock,
// so they are atomic with respect to every other operation. This
// implementation is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any // collection -> id -> fields
	clock       lsync.Clock
}

// NewMemoryStore creates an empty in-memory store stamping timestamps
// from the given clock. A nil clock falls back to real time.
func NewMemoryStore(clock lsync.Clock) *MemoryStore {
	if clock == nil {
		clock = lsync.RealClock{}
	}
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]any),
		clock:       clock,
	}
}

func (m *MemoryStore) Get(_ context.Context, collection, id string) (lsync.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.collections[collection][id]
	if !ok {
		return lsync.Document{}, lsync.ErrNotFound
	}
	return lsync.Document{ID: id, Data: cloneFields(data)}, nil
}

func (m *MemoryStore) QueryByField(_ context.Context, collection, field string, value any) ([]lsync.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var docs []lsync.Document
	for id, data := range m.collections[collection] {
		if data[field] == value {
			docs = append(docs, lsync.Document{ID: id, Data: cloneFields(data)})
		}
	}
	return docs, nil
}

func (m *MemoryStore) Put(ctx context.Context, collection, id string, data map[string]any) error {
	return m.BatchWrite(ctx, []lsync.Op{{Kind: lsync.OpPut, Collection: collection, ID: id, Data: data}})
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	return m.BatchWrite(ctx, []lsync.Op{{Kind: lsync.OpDelete, Collection: collection, ID: id}})
}

// BatchWrite applies every op or none. Ops are validated up front so a
// malformed op cannot leave the batch half-applied.
func (m *MemoryStore) BatchWrite(_ context.Context, ops []lsync.Op) error {
	for _, op := range ops {
		if op.Collection == "" || op.ID == "" {
			return lsync.NewStoreError(lsync.StoreRejected, "batch",
				fmt.Errorf("op missing collection or id"))
		}
		if op.Kind != lsync.OpPut && op.Kind != lsync.OpDelete {
			return lsync.NewStoreError(lsync.StoreRejected, "batch",
				fmt.Errorf("unknown op kind %q", op.Kind))
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	for _, op := range ops {
		switch op.Kind {
		case lsync.OpPut:
			col, ok := m.collections[op.Collection]
			if !ok {
				col = make(map[string]map[string]any)
				m.collections[op.Collection] = col
			}
			data := cloneFields(op.Data)
			if existing, ok := col[op.ID]; ok {
				data["createdAt"] = existing["createdAt"]
			} else {
				data["createdAt"] = now
			}
			data["updatedAt"] = now
			col[op.ID] = data
		case lsync.OpDelete:
			delete(m.collections[op.Collection], op.ID)
		}
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// Len reports how many documents a collection holds. Test helper.
func (m *MemoryStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.collections[collection])
}

func cloneFields(data map[string]any) map[string]any {
	clone := make(map[string]any, len(data)+2)
	for k, v := range data {
		clone[k] = v
	}
	return clone
}
