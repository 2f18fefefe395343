package queue

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenPath(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestNewFileAssignsIdentityAndPendingStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, err := store.NewFile(ctx, "M2-T1-SCI-P0078.mp4", "/ingest/M2-T1-SCI-P0078.mp4")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if item.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if item.UploadGUID == "" {
		t.Fatal("expected upload GUID")
	}
	if item.Status != StatusPending {
		t.Fatalf("status = %q, want %q", item.Status, StatusPending)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps")
	}

	other, err := store.NewFile(ctx, "M3-T1-MATH-P0011.mp4", "/ingest/M3-T1-MATH-P0011.mp4")
	if err != nil {
		t.Fatalf("NewFile second: %v", err)
	}
	if other.UploadGUID == item.UploadGUID {
		t.Fatal("upload GUIDs must be unique per item")
	}
}

func TestNewFileRejectsEmptyFilename(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.NewFile(context.Background(), "  ", "/ingest/x"); err == nil {
		t.Fatal("expected error for empty filename")
	}
}

func TestUpdateRoundTripsMatchFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, err := store.NewFile(ctx, "S1-T2-AR-P0042.mp4", "/ingest/S1-T2-AR-P0042.mp4")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	item.Status = StatusMatched
	item.AcademicYear = "S1"
	item.LibraryID = 7
	item.LibraryName = "S1 Arabic - Ms Mona"
	item.Confidence = 132
	item.CollectionName = "T2-S1"
	item.CollectionReason = "standard content"
	item.MatchSource = "scoring"
	if err := item.SetSuggestions([]Suggestion{
		{LibraryID: 7, LibraryName: "S1 Arabic - Ms Mona", Score: 132},
		{LibraryID: 3, LibraryName: "S1 Social - Mr Adel", Score: 41},
	}); err != nil {
		t.Fatalf("SetSuggestions: %v", err)
	}
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update: %v", err)
	}

	loaded, err := store.ItemByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemByID: %v", err)
	}
	if loaded.Status != StatusMatched {
		t.Fatalf("status = %q, want %q", loaded.Status, StatusMatched)
	}
	if loaded.LibraryID != 7 || loaded.Confidence != 132 {
		t.Fatalf("match fields = (%d, %d), want (7, 132)", loaded.LibraryID, loaded.Confidence)
	}
	if loaded.CollectionName != "T2-S1" {
		t.Fatalf("collection = %q, want T2-S1", loaded.CollectionName)
	}
	suggestions := loaded.Suggestions()
	if len(suggestions) != 2 || suggestions[1].LibraryName != "S1 Social - Mr Adel" {
		t.Fatalf("unexpected suggestions: %+v", suggestions)
	}
	if !loaded.UpdatedAt.After(loaded.CreatedAt) {
		t.Fatal("expected updated_at to advance past created_at")
	}
}

func TestUpdateRejectsInvalidStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item, err := store.NewFile(ctx, "M1-T1-EN-P0001.mp4", "/ingest/x.mp4")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	item.Status = Status("exploded")
	if err := store.Update(ctx, item); err == nil {
		t.Fatal("expected error for invalid status")
	}
}

func TestUpdateMissingItemReturnsNotFound(t *testing.T) {
	store := newTestStore(t)
	item := &Item{ID: 9999, Status: StatusPending}
	if err := store.Update(context.Background(), item); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := store.NewFile(ctx, "a.mp4", "/ingest/a.mp4")
	second, _ := store.NewFile(ctx, "b.mp4", "/ingest/b.mp4")
	third, _ := store.NewFile(ctx, "c.mp4", "/ingest/c.mp4")

	second.Status = StatusCompleted
	if err := store.Update(ctx, second); err != nil {
		t.Fatalf("Update: %v", err)
	}
	third.Status = StatusFailed
	third.ErrorMessage = "library request timed out"
	if err := store.Update(ctx, third); err != nil {
		t.Fatalf("Update: %v", err)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}

	pending, err := store.List(ctx, StatusPending)
	if err != nil {
		t.Fatalf("List pending: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != first.ID {
		t.Fatalf("unexpected pending list: %+v", pending)
	}

	terminal, err := store.List(ctx, StatusCompleted, StatusFailed)
	if err != nil {
		t.Fatalf("List terminal: %v", err)
	}
	if len(terminal) != 2 {
		t.Fatalf("len(terminal) = %d, want 2", len(terminal))
	}

	if _, err := store.List(ctx, Status("bogus")); err == nil {
		t.Fatal("expected error for invalid status filter")
	}
}

func TestNextPendingOrderAndDrain(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, _ := store.NewFile(ctx, "a.mp4", "/ingest/a.mp4")
	_, _ = store.NewFile(ctx, "b.mp4", "/ingest/b.mp4")

	next, err := store.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("next = %+v, want item %d", next, first.ID)
	}

	items, _ := store.List(ctx)
	for _, item := range items {
		item.Status = StatusCompleted
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	next, err = store.NextPending(ctx)
	if err != nil {
		t.Fatalf("NextPending drained: %v", err)
	}
	if next != nil {
		t.Fatalf("expected nil on drained queue, got %+v", next)
	}
}

func TestItemByFilenameReturnsLatest(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, _ = store.NewFile(ctx, "dup.mp4", "/ingest/old/dup.mp4")
	second, _ := store.NewFile(ctx, "dup.mp4", "/ingest/new/dup.mp4")

	found, err := store.ItemByFilename(ctx, "dup.mp4")
	if err != nil {
		t.Fatalf("ItemByFilename: %v", err)
	}
	if found.ID != second.ID {
		t.Fatalf("found item %d, want latest %d", found.ID, second.ID)
	}

	if _, err := store.ItemByFilename(ctx, "absent.mp4"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHealthAndClearCompleted(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.NewFile(ctx, "a.mp4", "/ingest/a.mp4")
	b, _ := store.NewFile(ctx, "b.mp4", "/ingest/b.mp4")
	_, _ = store.NewFile(ctx, "c.mp4", "/ingest/c.mp4")

	a.Status = StatusCompleted
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update: %v", err)
	}
	b.Status = StatusNeedsSelection
	b.NeedsManualSelection = true
	if err := store.Update(ctx, b); err != nil {
		t.Fatalf("Update: %v", err)
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Total != 3 || health.Pending != 1 || health.Completed != 1 || health.NeedsSelection != 1 {
		t.Fatalf("unexpected health: %+v", health)
	}

	removed, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	health, _ = store.Health(ctx)
	if health.Total != 2 || health.Completed != 0 {
		t.Fatalf("unexpected health after clear: %+v", health)
	}
}

func TestReopenPreservesItems(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "queue.db")
	ctx := context.Background()

	store, err := OpenPath(dbPath)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	item, err := store.NewFile(ctx, "persist.mp4", "/ingest/persist.mp4")
	if err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenPath(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.ItemByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("ItemByID after reopen: %v", err)
	}
	if loaded.UploadGUID != item.UploadGUID {
		t.Fatalf("guid = %q, want %q", loaded.UploadGUID, item.UploadGUID)
	}
}
