package sync_test

import (
	"context"
	"fmt"
	"testing"

	lsync "lsync-go/internal/sync"
	"lsync-go/internal/testutil"
)

func TestSyncer_UploadIfAbsent(t *testing.T) {
	t.Run("creates lesson and slides in one batch", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)

		result := syncer.UploadIfAbsent(context.Background(), testutil.Lesson("Intro to Cyber", 18))
		if result.Status != lsync.StatusCreated {
			t.Fatalf("UploadIfAbsent() status = %q, want %q (err: %v)", result.Status, lsync.StatusCreated, result.Err)
		}
		if result.SlideCount != 18 {
			t.Errorf("UploadIfAbsent() slideCount = %d, want 18", result.SlideCount)
		}
		if result.RemoteID == "" {
			t.Error("UploadIfAbsent() assigned no remote id")
		}
		if got := ms.Len(lsync.LessonsCollection); got != 1 {
			t.Errorf("lessons in store = %d, want 1", got)
		}
		if got := ms.Len(lsync.SlidesCollection); got != 18 {
			t.Errorf("slides in store = %d, want 18", got)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		lesson := testutil.Lesson("Intro to Cyber", 3)

		first := syncer.UploadIfAbsent(context.Background(), lesson)
		if first.Status != lsync.StatusCreated {
			t.Fatalf("first upload status = %q, want created", first.Status)
		}

		second := syncer.UploadIfAbsent(context.Background(), lesson)
		if second.Status != lsync.StatusSkipped {
			t.Errorf("second upload status = %q, want skipped", second.Status)
		}
		if second.RemoteID != first.RemoteID {
			t.Errorf("second upload remoteId = %q, want %q", second.RemoteID, first.RemoteID)
		}
		if got := ms.Len(lsync.LessonsCollection); got != 1 {
			t.Errorf("lessons in store = %d, want 1", got)
		}
		if got := ms.Len(lsync.SlidesCollection); got != 3 {
			t.Errorf("slides in store = %d, want 3", got)
		}
	})

	t.Run("leaves no partial artifacts when the batch fails", func(t *testing.T) {
		ms := testutil.NewTestStore()
		flaky := &testutil.FlakyStore{
			Inner:    ms,
			BatchErr: lsync.NewStoreError(lsync.StoreUnavailable, "batch", fmt.Errorf("connection reset")),
		}
		syncer := testutil.NewSyncer(flaky)

		result := syncer.UploadIfAbsent(context.Background(), testutil.Lesson("Windows", 5))
		if result.Status != lsync.StatusFailed {
			t.Fatalf("UploadIfAbsent() status = %q, want failed", result.Status)
		}
		if got := ms.Len(lsync.LessonsCollection); got != 0 {
			t.Errorf("lessons in store = %d, want 0", got)
		}
		if got := ms.Len(lsync.SlidesCollection); got != 0 {
			t.Errorf("slides in store = %d, want 0", got)
		}
	})

	t.Run("fails on duplicate natural keys", func(t *testing.T) {
		ms := testutil.NewTestStore()
		ctx := context.Background()
		ms.Put(ctx, lsync.LessonsCollection, "a", map[string]any{"title": "Windows", "status": lsync.StatusActive})
		ms.Put(ctx, lsync.LessonsCollection, "b", map[string]any{"title": "Windows", "status": lsync.StatusActive})

		syncer := testutil.NewSyncer(ms)
		result := syncer.UploadIfAbsent(ctx, testutil.Lesson("Windows", 2))
		if result.Status != lsync.StatusFailed {
			t.Fatalf("UploadIfAbsent() status = %q, want failed", result.Status)
		}
		if !lsync.IsReconciliationError(result.Err, lsync.DuplicateNaturalKey) {
			t.Errorf("UploadIfAbsent() err = %v, want duplicate natural key", result.Err)
		}
	})
}

func TestSyncer_OrderPreservation(t *testing.T) {
	ms := testutil.NewTestStore()
	syncer := testutil.NewSyncer(ms)
	ctx := context.Background()

	lesson := lsync.Lesson{Title: "Ordered", Difficulty: "beginner"}
	for i, name := range []string{"A", "B", "C"} {
		lesson.Slides = append(lesson.Slides, lsync.Slide{
			ID: name, Order: i + 1, Type: "content", Title: name,
		})
	}

	result := syncer.UploadIfAbsent(ctx, lesson)
	if result.Status != lsync.StatusCreated {
		t.Fatalf("UploadIfAbsent() status = %q, want created", result.Status)
	}

	docs, err := ms.QueryByField(ctx, lsync.SlidesCollection, "lessonId", result.RemoteID)
	if err != nil {
		t.Fatalf("QueryByField() error = %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("slides = %d, want 3", len(docs))
	}

	byOrder := make(map[int]string, 3)
	for _, doc := range docs {
		order, _ := doc.Data["order"].(int)
		title, _ := doc.Data["title"].(string)
		if byOrder[order] != "" {
			t.Fatalf("duplicate slide order %d", order)
		}
		byOrder[order] = title
	}
	for i, want := range []string{"A", "B", "C"} {
		if got := byOrder[i+1]; got != want {
			t.Errorf("slide at order %d = %q, want %q", i+1, got, want)
		}
	}
}

func TestSyncer_ForceReplace(t *testing.T) {
	t.Run("replaces stale lesson and every stale slide", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		ctx := context.Background()

		stale := syncer.UploadIfAbsent(ctx, testutil.Lesson("Windows", 5))
		if stale.Status != lsync.StatusCreated {
			t.Fatalf("seeding upload status = %q, want created", stale.Status)
		}

		result := syncer.ForceReplace(ctx, testutil.Lesson("Windows", 8))
		if result.Status != lsync.StatusCreated {
			t.Fatalf("ForceReplace() status = %q, want created (err: %v)", result.Status, result.Err)
		}
		if result.RemoteID == stale.RemoteID {
			t.Error("ForceReplace() kept the old remote id, want a fresh one")
		}

		oldSlides, err := ms.QueryByField(ctx, lsync.SlidesCollection, "lessonId", stale.RemoteID)
		if err != nil {
			t.Fatalf("QueryByField(old) error = %v", err)
		}
		if len(oldSlides) != 0 {
			t.Errorf("slides referencing old id = %d, want 0", len(oldSlides))
		}

		newSlides, err := ms.QueryByField(ctx, lsync.SlidesCollection, "lessonId", result.RemoteID)
		if err != nil {
			t.Fatalf("QueryByField(new) error = %v", err)
		}
		if len(newSlides) != 8 {
			t.Errorf("slides referencing new id = %d, want 8", len(newSlides))
		}

		doc, err := ms.Get(ctx, lsync.LessonsCollection, result.RemoteID)
		if err != nil {
			t.Fatalf("Get(new lesson) error = %v", err)
		}
		if v, _ := doc.Data["version"].(int); v != 2 {
			t.Errorf("replaced lesson version = %d, want 2", v)
		}
	})

	t.Run("uploads fresh when nothing exists remotely", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)

		result := syncer.ForceReplace(context.Background(), testutil.Lesson("New", 4))
		if result.Status != lsync.StatusCreated {
			t.Fatalf("ForceReplace() status = %q, want created", result.Status)
		}
		if got := ms.Len(lsync.SlidesCollection); got != 4 {
			t.Errorf("slides in store = %d, want 4", got)
		}
	})
}

func TestSyncer_SyncAll(t *testing.T) {
	t.Run("continues past a failing lesson", func(t *testing.T) {
		ms := testutil.NewTestStore()
		flaky := &testutil.FlakyStore{
			Inner:      ms,
			BatchErr:   lsync.NewStoreError(lsync.StoreTimeout, "batch", fmt.Errorf("deadline exceeded")),
			BatchAfter: 1, // first lesson lands, the rest fail
		}
		syncer := testutil.NewSyncer(flaky)

		summary := syncer.SyncAll(context.Background(), []lsync.Lesson{
			testutil.Lesson("First", 2),
			testutil.Lesson("Second", 3),
		})
		if summary.Created != 1 {
			t.Errorf("summary.Created = %d, want 1", summary.Created)
		}
		if summary.Failed != 1 {
			t.Errorf("summary.Failed = %d, want 1", summary.Failed)
		}
		if summary.TotalSlides != 2 {
			t.Errorf("summary.TotalSlides = %d, want 2", summary.TotalSlides)
		}
		if len(summary.Results) != 2 {
			t.Errorf("len(summary.Results) = %d, want 2", len(summary.Results))
		}
	})

	t.Run("skips everything on a second run", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		lessons := []lsync.Lesson{testutil.Lesson("A", 1), testutil.Lesson("B", 2)}

		first := syncer.SyncAll(context.Background(), lessons)
		if first.Created != 2 || first.TotalSlides != 3 {
			t.Fatalf("first run created = %d, totalSlides = %d, want 2 and 3", first.Created, first.TotalSlides)
		}

		second := syncer.SyncAll(context.Background(), lessons)
		if second.Skipped != 2 || second.Created != 0 {
			t.Errorf("second run skipped = %d, created = %d, want 2 and 0", second.Skipped, second.Created)
		}
	})
}
