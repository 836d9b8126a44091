package store

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	lsync "lsync-go/internal/sync"
)

// FirestoreStore implements the Store interface over Cloud Firestore.
// Batches use a Firestore WriteBatch, which the service applies
// atomically (up to 500 writes). createdAt/updatedAt are stamped with
// Firestore server timestamps, never forged locally.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore connects to the given project. Credentials come from
// GOOGLE_APPLICATION_CREDENTIALS_JSON (inline JSON) or
// GOOGLE_APPLICATION_CREDENTIALS (file path); with neither set the
// client falls back to application-default credentials.
func NewFirestoreStore(ctx context.Context, projectID string) (*FirestoreStore, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore store requires a project id")
	}

	client, err := firestore.NewClient(ctx, projectID, clientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &FirestoreStore{client: client}, nil
}

func clientOptionsFromEnv() []option.ClientOption {
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}
}

func (f *FirestoreStore) Get(ctx context.Context, collection, id string) (lsync.Document, error) {
	snap, err := f.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return lsync.Document{}, lsync.ErrNotFound
		}
		return lsync.Document{}, mapFirestoreErr("get", err)
	}
	return lsync.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (f *FirestoreStore) QueryByField(ctx context.Context, collection, field string, value any) ([]lsync.Document, error) {
	iter := f.client.Collection(collection).Where(field, "==", value).Documents(ctx)
	defer iter.Stop()

	// The result is materialized fully before returning; the engine
	// never acts on a partial read.
	var docs []lsync.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, mapFirestoreErr("query", err)
		}
		docs = append(docs, lsync.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (f *FirestoreStore) Put(ctx context.Context, collection, id string, data map[string]any) error {
	return f.BatchWrite(ctx, []lsync.Op{{Kind: lsync.OpPut, Collection: collection, ID: id, Data: data}})
}

func (f *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	return f.BatchWrite(ctx, []lsync.Op{{Kind: lsync.OpDelete, Collection: collection, ID: id}})
}

func (f *FirestoreStore) BatchWrite(ctx context.Context, ops []lsync.Op) error {
	batch := f.client.Batch()
	for _, op := range ops {
		ref := f.client.Collection(op.Collection).Doc(op.ID)
		switch op.Kind {
		case lsync.OpPut:
			batch.Set(ref, stamped(op.Data))
		case lsync.OpDelete:
			batch.Delete(ref)
		default:
			return lsync.NewStoreError(lsync.StoreRejected, "batch",
				fmt.Errorf("unknown op kind %q", op.Kind))
		}
	}

	if _, err := batch.Commit(ctx); err != nil {
		return mapFirestoreErr("batch", err)
	}
	return nil
}

func (f *FirestoreStore) Close() error { return f.client.Close() }

// stamped adds server timestamps to a put. An existing createdAt value
// (carried over from a read, e.g. when marking a lesson superseding) is
// preserved; a fresh document gets a server-side createdAt.
func stamped(data map[string]any) map[string]any {
	out := make(map[string]any, len(data)+2)
	for k, v := range data {
		out[k] = v
	}
	if _, ok := out["createdAt"]; !ok {
		out["createdAt"] = firestore.ServerTimestamp
	}
	out["updatedAt"] = firestore.ServerTimestamp
	return out
}

// mapFirestoreErr folds gRPC status codes into the StoreError taxonomy.
func mapFirestoreErr(op string, err error) error {
	kind := lsync.StoreRejected
	switch status.Code(err) {
	case codes.Unavailable:
		kind = lsync.StoreUnavailable
	case codes.DeadlineExceeded:
		kind = lsync.StoreTimeout
	}
	return lsync.NewStoreError(kind, op, err)
}
