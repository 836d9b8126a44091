package sync

import "context"

// Document is a single record read from the store: its id plus the raw
// field map. The sync engine treats field values as opaque except for the
// handful of fields it wrote itself.
type Document struct {
	ID   string
	Data map[string]any
}

// OpKind distinguishes writes within a batch.
type OpKind string

const (
	OpPut    OpKind = "put"
	OpDelete OpKind = "delete"
)

// Op is one write in a batch. Data is nil for deletes.
type Op struct {
	Kind       OpKind
	Collection string
	ID         string
	Data       map[string]any
}

// Store is the adapter over a document-store client. Implementations map
// their native failures onto StoreError and must apply BatchWrite
// atomically: either every op in the batch takes effect or none do.
//
// Every Put stamps createdAt/updatedAt server-side; the engine never
// forges these locally. QueryByField materializes the full result before
// returning; partial reads are never surfaced.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	QueryByField(ctx context.Context, collection, field string, value any) ([]Document, error)
	Put(ctx context.Context, collection, id string, data map[string]any) error
	Delete(ctx context.Context, collection, id string) error
	BatchWrite(ctx context.Context, ops []Op) error
	Close() error
}
