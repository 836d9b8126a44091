package store

import (
	"context"
	"fmt"
	"path/filepath"

	"lsync-go/internal/config"
	lsync "lsync-go/internal/sync"
)

// NewStoreFromConfig creates a Store implementation based on the store
// config type. A firestore config without a real project id falls back
// to the in-memory demo backend rather than failing, so the tool stays
// usable without credentials.
func NewStoreFromConfig(ctx context.Context, cfg *config.Config, clock lsync.Clock, logger lsync.Logger) (lsync.Store, error) {
	switch cfg.Store.Type {
	case "memory":
		return NewMemoryStore(clock), nil
	case "sqlite":
		if cfg.Store.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite store")
		}
		return NewSQLiteStore(filepath.Join(cfg.Store.DataDir, "content.db"), clock)
	case "firestore":
		if cfg.DemoMode() {
			logger.Warn("no firestore project configured, running in demo mode with in-memory store")
			return NewMemoryStore(clock), nil
		}
		return NewFirestoreStore(ctx, cfg.ResolveProjectID())
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Store.Type)
	}
}
