package sync

import (
	"context"
	"errors"
	"fmt"
)

// Verify re-reads each lesson and its slides from the store and checks
// that the remote copy is internally consistent: present exactly once,
// not stuck mid-replace, slide count matching the cached totalSlides,
// and order values forming a dense 1..N sequence. Findings are reported,
// never auto-repaired; repair requires an explicit ForceReplace or
// Repair run.
func (s *Syncer) Verify(ctx context.Context, lessons []Lesson) []Report {
	reports := make([]Report, 0, len(lessons))
	for _, lesson := range lessons {
		reports = append(reports, s.verifyOne(ctx, lesson))
	}
	return reports
}

func (s *Syncer) verifyOne(ctx context.Context, lesson Lesson) Report {
	key := s.resolver.Keys().Key(lesson)

	doc, err := s.resolver.FindByNaturalKey(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Report{NaturalKey: key, Detail: "lesson not present remotely"}
		}
		var re *ReconciliationError
		if errors.As(err, &re) {
			return Report{NaturalKey: key, Detail: re.Error()}
		}
		return Report{NaturalKey: key, Detail: fmt.Sprintf("lookup failed: %v", err)}
	}

	if stringField(doc.Data, "status") == StatusSuperseding {
		return Report{NaturalKey: key, Detail: string(StuckSuperseding) + ": replace was interrupted, run repair"}
	}

	slides, err := s.store.QueryByField(ctx, SlidesCollection, "lessonId", doc.ID)
	if err != nil {
		return Report{NaturalKey: key, Detail: fmt.Sprintf("querying slides: %v", err)}
	}

	total := intField(doc.Data, "totalSlides")
	if len(slides) != total {
		return Report{NaturalKey: key, Detail: fmt.Sprintf("%s: totalSlides=%d but %d slides found", PartialWrite, total, len(slides))}
	}

	if detail, ok := checkDenseOrder(slides); !ok {
		return Report{NaturalKey: key, Detail: fmt.Sprintf("%s: %s", PartialWrite, detail)}
	}

	return Report{NaturalKey: key, OK: true}
}

// checkDenseOrder verifies that slide order values are exactly {1..N}
// with no gaps or duplicates.
func checkDenseOrder(slides []Document) (string, bool) {
	seen := make(map[int]bool, len(slides))
	for _, slide := range slides {
		order := intField(slide.Data, "order")
		if order < 1 || order > len(slides) {
			return fmt.Sprintf("slide order %d outside 1..%d", order, len(slides)), false
		}
		if seen[order] {
			return fmt.Sprintf("duplicate slide order %d", order), false
		}
		seen[order] = true
	}
	return "", true
}

// Repair finds lessons stuck in the superseding state (a crash between
// the delete and create phases of a force replace) and finishes the
// replace from the catalog copy. Superseding lessons with no catalog
// counterpart are removed together with their now-orphaned slides.
func (s *Syncer) Repair(ctx context.Context, catalog []Lesson) (Summary, error) {
	stuck, err := s.store.QueryByField(ctx, LessonsCollection, "status", StatusSuperseding)
	if err != nil {
		return Summary{}, fmt.Errorf("querying superseding lessons: %w", err)
	}

	byKey := make(map[string]Lesson, len(catalog))
	for _, lesson := range catalog {
		byKey[s.resolver.Keys().Key(lesson)] = lesson
	}

	var summary Summary
	for _, doc := range stuck {
		key := stringField(doc.Data, s.resolver.Keys().Field())
		lesson, known := byKey[key]
		if !known {
			// No catalog copy to restore from: the remote lesson and any
			// slides still referencing it are dropped.
			if err := s.removeRemote(ctx, doc); err != nil {
				summary.add(failed(key, &ReconciliationError{
					Kind: OrphanSlides, NaturalKey: key,
					Detail: fmt.Sprintf("removing orphaned lesson: %v", err),
				}))
				continue
			}
			s.logger.Warn("orphaned superseding lesson removed", "lesson", key, "remoteId", doc.ID)
			summary.add(Result{NaturalKey: key, Status: StatusSkipped, Detail: "orphan removed"})
			continue
		}
		summary.add(s.ForceReplace(ctx, lesson))
	}

	return summary, nil
}
