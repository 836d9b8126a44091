package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	lsync "lsync-go/internal/sync"
	"lsync-go/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the Store interface over a single documents
// table: one row per (collection, id), field maps serialized as JSON and
// queried with json_extract. Batches run in one SQL transaction, which
// gives the all-or-nothing guarantee the contract requires.
type SQLiteStore struct {
	db    *sql.DB
	clock lsync.Clock
	path  string
}

// NewSQLiteStore opens (or creates) a document store at path and brings
// its schema up to date. path can be ":memory:" for tests.
func NewSQLiteStore(path string, clock lsync.Clock) (*SQLiteStore, error) {
	if clock == nil {
		clock = lsync.RealClock{}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite default is OFF for backward compatibility.
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := migrations.Up(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating document store: %w", err)
	}

	return &SQLiteStore{db: db, clock: clock, path: path}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, collection, id string) (lsync.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT data, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id)

	var raw string
	var createdAt, updatedAt time.Time
	if err := row.Scan(&raw, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return lsync.Document{}, lsync.ErrNotFound
		}
		return lsync.Document{}, mapSQLiteErr("get", err)
	}

	return decodeRow(id, raw, createdAt, updatedAt)
}

func (s *SQLiteStore) QueryByField(ctx context.Context, collection, field string, value any) ([]lsync.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data, created_at, updated_at FROM documents
		 WHERE collection = ? AND json_extract(data, '$.' || ?) = ?`,
		collection, field, value)
	if err != nil {
		return nil, mapSQLiteErr("query", err)
	}
	defer rows.Close()

	var docs []lsync.Document
	for rows.Next() {
		var id, raw string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &raw, &createdAt, &updatedAt); err != nil {
			return nil, mapSQLiteErr("query", err)
		}
		doc, err := decodeRow(id, raw, createdAt, updatedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapSQLiteErr("query", err)
	}
	return docs, nil
}

func (s *SQLiteStore) Put(ctx context.Context, collection, id string, data map[string]any) error {
	return s.BatchWrite(ctx, []lsync.Op{{Kind: lsync.OpPut, Collection: collection, ID: id, Data: data}})
}

func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	return s.BatchWrite(ctx, []lsync.Op{{Kind: lsync.OpDelete, Collection: collection, ID: id}})
}

func (s *SQLiteStore) BatchWrite(ctx context.Context, ops []lsync.Op) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapSQLiteErr("batch", err)
	}
	defer tx.Rollback()

	now := s.clock.Now().UTC()
	for _, op := range ops {
		switch op.Kind {
		case lsync.OpPut:
			raw, err := json.Marshal(op.Data)
			if err != nil {
				return lsync.NewStoreError(lsync.StoreRejected, "batch",
					fmt.Errorf("encoding document %s/%s: %w", op.Collection, op.ID, err))
			}
			_, err = tx.ExecContext(ctx,
				`INSERT INTO documents (collection, id, data, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT (collection, id) DO UPDATE SET
				   data = excluded.data, updated_at = excluded.updated_at`,
				op.Collection, op.ID, string(raw), now, now)
			if err != nil {
				return mapSQLiteErr("batch", err)
			}
		case lsync.OpDelete:
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM documents WHERE collection = ? AND id = ?`,
				op.Collection, op.ID); err != nil {
				return mapSQLiteErr("batch", err)
			}
		default:
			return lsync.NewStoreError(lsync.StoreRejected, "batch",
				fmt.Errorf("unknown op kind %q", op.Kind))
		}
	}

	if err := tx.Commit(); err != nil {
		return mapSQLiteErr("batch", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

// decodeRow rebuilds a Document, surfacing the column timestamps through
// the field map the way the other backends do.
func decodeRow(id, raw string, createdAt, updatedAt time.Time) (lsync.Document, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return lsync.Document{}, lsync.NewStoreError(lsync.StoreRejected, "get",
			fmt.Errorf("decoding document %s: %w", id, err))
	}
	data["createdAt"] = createdAt
	data["updatedAt"] = updatedAt
	return lsync.Document{ID: id, Data: data}, nil
}

// mapSQLiteErr folds driver failures into the StoreError taxonomy.
func mapSQLiteErr(op string, err error) error {
	kind := lsync.StoreRejected
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = lsync.StoreTimeout
	case errors.Is(err, context.Canceled), errors.Is(err, sql.ErrConnDone):
		kind = lsync.StoreUnavailable
	}
	return lsync.NewStoreError(kind, op, err)
}
