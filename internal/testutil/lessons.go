package testutil

import (
	"fmt"

	lsync "lsync-go/internal/sync"
)

// Lesson builds a catalog lesson with n slides in dense 1..n order.
func Lesson(title string, n int) lsync.Lesson {
	lesson := lsync.Lesson{
		Title:      title,
		Difficulty: "beginner",
		Duration:   "10 min",
	}
	for i := 1; i <= n; i++ {
		lesson.Slides = append(lesson.Slides, lsync.Slide{
			ID:      fmt.Sprintf("%s-slide-%d", title, i),
			Order:   i,
			Type:    "content",
			Title:   fmt.Sprintf("Slide %d", i),
			Content: map[string]any{"text": fmt.Sprintf("body %d", i)},
		})
	}
	lesson.TotalSlides = n
	return lesson
}

// NewSyncer wires a Syncer over the given store with deterministic
// clock and id generation.
func NewSyncer(st lsync.Store) *lsync.Syncer {
	resolver := lsync.NewResolver(st, nil)
	return lsync.NewSyncer(st, resolver, lsync.NewNopLogger(), FixedClock(), NewStubIDGenerator())
}
