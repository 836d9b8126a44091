package sync

import (
	"context"
	"errors"
	"fmt"
)

// Syncer reconciles catalog lessons with the remote store. A lesson and
// all of its slides are always written in a single atomic batch, so the
// store never holds a lesson with a partial slide set. Lessons are
// processed strictly sequentially; one lesson's failure never aborts a
// multi-lesson run.
type Syncer struct {
	store    Store
	resolver *Resolver
	logger   Logger
	clock    Clock
	idgen    IDGenerator
}

// NewSyncer creates a Syncer with the provided dependencies.
func NewSyncer(store Store, resolver *Resolver, logger Logger, clock Clock, idgen IDGenerator) *Syncer {
	return &Syncer{
		store:    store,
		resolver: resolver,
		logger:   logger,
		clock:    clock,
		idgen:    idgen,
	}
}

// UploadIfAbsent uploads the lesson and its slides unless a remote
// counterpart already exists under the lesson's natural key. Calling it
// twice in a row yields Created then Skipped, with the remote slide set
// unchanged by the second call.
func (s *Syncer) UploadIfAbsent(ctx context.Context, lesson Lesson) Result {
	key := s.resolver.Keys().Key(lesson)

	existing, err := s.resolver.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		s.logger.Debug("lesson already present, skipping", "lesson", key, "remoteId", existing.ID)
		return Result{NaturalKey: key, Status: StatusSkipped, RemoteID: existing.ID, SlideCount: len(lesson.Slides)}
	case errors.Is(err, ErrNotFound):
		// absent: proceed with the upload
	default:
		return failed(key, fmt.Errorf("resolving existence: %w", err))
	}

	return s.upload(ctx, lesson, 1)
}

// ForceReplace replaces the remote counterpart of the lesson with a fresh
// copy, minting a new remote id. The replace is two-phase: the old lesson
// is first marked superseding (so an interrupted replace is detectable),
// then the old lesson and all of its slides are removed in one delete
// batch, then the fresh copy is written in one create batch. The two
// batches are individually atomic but not wrapped in a single
// transaction; Verify and Repair cover the gap.
func (s *Syncer) ForceReplace(ctx context.Context, lesson Lesson) Result {
	key := s.resolver.Keys().Key(lesson)
	version := 1

	existing, err := s.resolver.FindByNaturalKey(ctx, key)
	switch {
	case err == nil:
		version = intField(existing.Data, "version") + 1
		if err := s.removeRemote(ctx, existing); err != nil {
			return failed(key, err)
		}
	case errors.Is(err, ErrNotFound):
		// nothing to remove
	default:
		return failed(key, fmt.Errorf("resolving existence: %w", err))
	}

	return s.upload(ctx, lesson, version)
}

// removeRemote marks the lesson superseding, then deletes it together
// with every slide referencing its remote id in one atomic batch.
func (s *Syncer) removeRemote(ctx context.Context, existing Document) error {
	marked := make(map[string]any, len(existing.Data)+1)
	for k, v := range existing.Data {
		marked[k] = v
	}
	marked["status"] = StatusSuperseding

	if err := s.store.Put(ctx, LessonsCollection, existing.ID, marked); err != nil {
		return fmt.Errorf("marking lesson superseding: %w", err)
	}

	slides, err := s.store.QueryByField(ctx, SlidesCollection, "lessonId", existing.ID)
	if err != nil {
		return fmt.Errorf("querying stale slides: %w", err)
	}

	ops := make([]Op, 0, len(slides)+1)
	ops = append(ops, Op{Kind: OpDelete, Collection: LessonsCollection, ID: existing.ID})
	for _, slide := range slides {
		ops = append(ops, Op{Kind: OpDelete, Collection: SlidesCollection, ID: slide.ID})
	}

	if err := s.store.BatchWrite(ctx, ops); err != nil {
		return fmt.Errorf("deleting stale lesson and %d slides: %w", len(slides), err)
	}

	s.logger.Info("stale lesson removed", "remoteId", existing.ID, "slides", len(slides))
	return nil
}

// upload writes the lesson and its slides as one atomic batch. Slide
// order is taken from slice position, 1-based, never from the slide
// structs themselves.
func (s *Syncer) upload(ctx context.Context, lesson Lesson, version int) Result {
	key := s.resolver.Keys().Key(lesson)
	remoteID := s.idgen.New()

	ops := make([]Op, 0, len(lesson.Slides)+1)
	ops = append(ops, Op{
		Kind:       OpPut,
		Collection: LessonsCollection,
		ID:         remoteID,
		Data:       lessonDoc(lesson, version),
	})
	for i, slide := range lesson.Slides {
		ops = append(ops, Op{
			Kind:       OpPut,
			Collection: SlidesCollection,
			ID:         s.idgen.New(),
			Data:       slideDoc(slide, remoteID, i+1),
		})
	}

	if err := s.store.BatchWrite(ctx, ops); err != nil {
		return failed(key, fmt.Errorf("uploading lesson with %d slides: %w", len(lesson.Slides), err))
	}

	s.logger.Info("lesson uploaded", "lesson", key, "remoteId", remoteID, "slides", len(lesson.Slides), "version", version)
	return Result{NaturalKey: key, Status: StatusCreated, RemoteID: remoteID, SlideCount: len(lesson.Slides)}
}

// SyncAll runs UploadIfAbsent over the given lessons in order and
// aggregates a summary. Adapter errors are recorded per lesson; the run
// continues to the next lesson.
func (s *Syncer) SyncAll(ctx context.Context, lessons []Lesson) Summary {
	start := s.clock.Now()
	var summary Summary
	for _, lesson := range lessons {
		summary.add(s.UploadIfAbsent(ctx, lesson))
	}
	s.logger.Info("sync complete",
		"created", summary.Created, "skipped", summary.Skipped, "failed", summary.Failed,
		"elapsed", s.clock.Now().Sub(start))
	return summary
}

// ReplaceAll runs ForceReplace over the given lessons in order and
// aggregates a summary.
func (s *Syncer) ReplaceAll(ctx context.Context, lessons []Lesson) Summary {
	start := s.clock.Now()
	var summary Summary
	for _, lesson := range lessons {
		summary.add(s.ForceReplace(ctx, lesson))
	}
	s.logger.Info("replace complete",
		"created", summary.Created, "failed", summary.Failed,
		"elapsed", s.clock.Now().Sub(start))
	return summary
}

func failed(key string, err error) Result {
	return Result{NaturalKey: key, Status: StatusFailed, Err: err, Detail: err.Error()}
}
