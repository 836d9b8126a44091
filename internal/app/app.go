package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"lsync-go/internal/catalog"
	"lsync-go/internal/config"
	"lsync-go/internal/store"
	lsync "lsync-go/internal/sync"
)

// App is the application layer between the CLI and the sync engine.
// It constructs all dependencies from config and manages the store
// lifecycle on Close.
type App struct {
	cfg     *config.Config
	store   lsync.Store
	catalog *catalog.Catalog
	syncer  *lsync.Syncer
	content *lsync.ContentService
	log     lsync.Logger
	logSink io.Closer
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Migrate",
// "Replace"). The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, operation string) (*App, error) {
	opID := time.Now().UTC().Format("20060102T150405Z") + "-" + operation
	logger, logSink, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	cat, err := catalog.Load(cfg.Catalog.LessonsDir)
	if err != nil {
		logSink.Close()
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	clock := lsync.RealClock{}
	st, err := store.NewStoreFromConfig(ctx, cfg, clock, log)
	if err != nil {
		logSink.Close()
		return nil, fmt.Errorf("creating store: %w", err)
	}

	resolver := lsync.NewResolver(st, nil)
	syncer := lsync.NewSyncer(st, resolver, log, clock, lsync.UUIDGenerator{})
	content := lsync.NewContentService(st, cat.Lessons(), nil, log)

	return &App{
		cfg:     cfg,
		store:   st,
		catalog: cat,
		syncer:  syncer,
		content: content,
		log:     log,
		logSink: logSink,
	}, nil
}

// Migrate uploads every catalog lesson that has no remote counterpart.
func (a *App) Migrate(ctx context.Context) lsync.Summary {
	return a.syncer.SyncAll(ctx, a.catalog.Lessons())
}

// Replace force-replaces the named lessons. Every title must exist in
// the catalog.
func (a *App) Replace(ctx context.Context, titles []string) (lsync.Summary, error) {
	lessons, err := a.lessonsByTitle(titles)
	if err != nil {
		return lsync.Summary{}, err
	}
	return a.syncer.ReplaceAll(ctx, lessons), nil
}

// Verify checks the named lessons against the store; with no titles the
// whole catalog is verified.
func (a *App) Verify(ctx context.Context, titles []string) ([]lsync.Report, error) {
	lessons := a.catalog.Lessons()
	if len(titles) > 0 {
		var err error
		lessons, err = a.lessonsByTitle(titles)
		if err != nil {
			return nil, err
		}
	}
	return a.syncer.Verify(ctx, lessons), nil
}

// Repair finishes any force replace that was interrupted mid-run.
func (a *App) Repair(ctx context.Context) (lsync.Summary, error) {
	return a.syncer.Repair(ctx, a.catalog.Lessons())
}

// Lessons returns the catalog lessons in order.
func (a *App) Lessons() []lsync.Lesson {
	return a.catalog.Lessons()
}

// ContentService exposes the runtime read path for the HTTP server.
func (a *App) ContentService() *lsync.ContentService {
	return a.content
}

// Config returns the app's configuration.
func (a *App) Config() *config.Config {
	return a.cfg
}

// Logger returns the app's structured logger.
func (a *App) Logger() lsync.Logger {
	return a.log
}

func (a *App) lessonsByTitle(titles []string) ([]lsync.Lesson, error) {
	lessons := make([]lsync.Lesson, 0, len(titles))
	for _, title := range titles {
		lesson, ok := a.catalog.Find(title)
		if !ok {
			return nil, fmt.Errorf("lesson %q is not in the catalog", title)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// Close releases the store connection and the log sink.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = err
	}
	if err := a.logSink.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
