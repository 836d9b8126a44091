package sync_test

import (
	"context"
	"strings"
	"testing"

	lsync "lsync-go/internal/sync"
	"lsync-go/internal/testutil"
)

func TestSyncer_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("reports ok for a freshly uploaded lesson", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		lesson := testutil.Lesson("Intro to Cyber", 18)

		if r := syncer.UploadIfAbsent(ctx, lesson); r.Status != lsync.StatusCreated {
			t.Fatalf("seeding upload status = %q, want created", r.Status)
		}

		reports := syncer.Verify(ctx, []lsync.Lesson{lesson})
		if len(reports) != 1 {
			t.Fatalf("len(reports) = %d, want 1", len(reports))
		}
		if !reports[0].OK {
			t.Errorf("report not ok: %s", reports[0].Detail)
		}
	})

	t.Run("reports missing lesson", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)

		reports := syncer.Verify(ctx, []lsync.Lesson{testutil.Lesson("Ghost", 2)})
		if reports[0].OK {
			t.Error("report ok for a lesson that was never uploaded")
		}
		if !strings.Contains(reports[0].Detail, "not present") {
			t.Errorf("detail = %q, want mention of absence", reports[0].Detail)
		}
	})

	t.Run("reports slide count drift", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		lesson := testutil.Lesson("Windows", 3)

		result := syncer.UploadIfAbsent(ctx, lesson)
		if result.Status != lsync.StatusCreated {
			t.Fatalf("seeding upload status = %q, want created", result.Status)
		}

		// Simulate an outside writer losing a slide.
		docs, err := ms.QueryByField(ctx, lsync.SlidesCollection, "lessonId", result.RemoteID)
		if err != nil {
			t.Fatalf("QueryByField() error = %v", err)
		}
		if err := ms.Delete(ctx, lsync.SlidesCollection, docs[0].ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}

		reports := syncer.Verify(ctx, []lsync.Lesson{lesson})
		if reports[0].OK {
			t.Error("report ok despite missing slide")
		}
		if !strings.Contains(reports[0].Detail, "partial_write") {
			t.Errorf("detail = %q, want partial_write", reports[0].Detail)
		}
	})

	t.Run("reports lesson stuck mid-replace", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		lesson := testutil.Lesson("Stuck", 2)

		result := syncer.UploadIfAbsent(ctx, lesson)
		doc, err := ms.Get(ctx, lsync.LessonsCollection, result.RemoteID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		doc.Data["status"] = lsync.StatusSuperseding
		if err := ms.Put(ctx, lsync.LessonsCollection, result.RemoteID, doc.Data); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		reports := syncer.Verify(ctx, []lsync.Lesson{lesson})
		if reports[0].OK {
			t.Error("report ok despite superseding status")
		}
		if !strings.Contains(reports[0].Detail, "stuck_superseding") {
			t.Errorf("detail = %q, want stuck_superseding", reports[0].Detail)
		}
	})
}

func TestSyncer_Repair(t *testing.T) {
	ctx := context.Background()

	t.Run("finishes an interrupted replace", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		lesson := testutil.Lesson("Windows", 4)

		result := syncer.UploadIfAbsent(ctx, lesson)
		doc, err := ms.Get(ctx, lsync.LessonsCollection, result.RemoteID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		doc.Data["status"] = lsync.StatusSuperseding
		if err := ms.Put(ctx, lsync.LessonsCollection, result.RemoteID, doc.Data); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		summary, err := syncer.Repair(ctx, []lsync.Lesson{lesson})
		if err != nil {
			t.Fatalf("Repair() error = %v", err)
		}
		if summary.Created != 1 {
			t.Fatalf("Repair() created = %d, want 1", summary.Created)
		}

		reports := syncer.Verify(ctx, []lsync.Lesson{lesson})
		if !reports[0].OK {
			t.Errorf("post-repair verify failed: %s", reports[0].Detail)
		}
	})

	t.Run("drops orphaned lessons with no catalog copy", func(t *testing.T) {
		ms := testutil.NewTestStore()
		syncer := testutil.NewSyncer(ms)
		lesson := testutil.Lesson("Retired", 2)

		result := syncer.UploadIfAbsent(ctx, lesson)
		doc, err := ms.Get(ctx, lsync.LessonsCollection, result.RemoteID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		doc.Data["status"] = lsync.StatusSuperseding
		if err := ms.Put(ctx, lsync.LessonsCollection, result.RemoteID, doc.Data); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		// Catalog no longer contains "Retired".
		if _, err := syncer.Repair(ctx, nil); err != nil {
			t.Fatalf("Repair() error = %v", err)
		}

		if got := ms.Len(lsync.LessonsCollection); got != 0 {
			t.Errorf("lessons in store = %d, want 0", got)
		}
		if got := ms.Len(lsync.SlidesCollection); got != 0 {
			t.Errorf("slides in store = %d, want 0", got)
		}
	})
}
