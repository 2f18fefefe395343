package workflow

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/library"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/queue"
)

func newTestQueue(t *testing.T) *queue.Store {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestProcessPendingDrainsQueue(t *testing.T) {
	matcher, _, notifier := newTestMatcher(t)
	store := newTestQueue(t)
	ctx := context.Background()

	if _, err := store.NewFile(ctx, "M2-T1-SCI-P0078-John-Smith.mp4", "/ingest/a.mp4"); err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if _, err := store.NewFile(ctx, "random-clip.mp4", "/ingest/b.mp4"); err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	processor := NewProcessor(matcher, store, library.StaticDirectory(testLibraries), notifier, logging.NewNop())
	result, err := processor.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if result.Processed != 2 || result.Failed != 0 {
		t.Fatalf("result = %+v, want 2 processed", result)
	}
	if notifier.batches != 1 {
		t.Fatalf("batch notifications = %d, want 1", notifier.batches)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if items[0].Status != queue.StatusMatched {
		t.Fatalf("first item status = %q, want matched", items[0].Status)
	}
	if items[1].Status != queue.StatusNeedsSelection {
		t.Fatalf("second item status = %q, want needs_selection", items[1].Status)
	}

	// Nothing pending remains; a second pass is a no-op without notifying.
	result, err = processor.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("second ProcessPending: %v", err)
	}
	if result.Processed+result.Failed != 0 {
		t.Fatalf("second pass result = %+v, want empty", result)
	}
	if notifier.batches != 1 {
		t.Fatalf("batch notifications = %d, want still 1", notifier.batches)
	}
}

func TestProcessPendingIsolatesItemFailures(t *testing.T) {
	matcher, _, notifier := newTestMatcher(t)
	store := newTestQueue(t)
	ctx := context.Background()

	if _, err := store.NewFile(ctx, "M2-T1-SCI-P0078.mp4", "/ingest/a.mp4"); err != nil {
		t.Fatalf("NewFile: %v", err)
	}
	if _, err := store.NewFile(ctx, "M2-T2-AR-P0042.mp4", "/ingest/b.mp4"); err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	// Empty candidate list makes every match attempt a hard failure; both
	// items must still be visited and marked failed individually.
	processor := NewProcessor(matcher, store, library.StaticDirectory(nil), notifier, logging.NewNop())
	result, err := processor.ProcessPending(ctx)
	if err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}
	if result.Failed != 2 || result.Processed != 0 {
		t.Fatalf("result = %+v, want 2 failed", result)
	}

	items, _ := store.List(ctx)
	for _, item := range items {
		if item.Status != queue.StatusFailed {
			t.Fatalf("item %d status = %q, want failed", item.ID, item.Status)
		}
		if item.ErrorMessage == "" {
			t.Fatalf("item %d missing error message", item.ID)
		}
	}
}

func TestProcessPendingStopsOnContextCancel(t *testing.T) {
	matcher, _, notifier := newTestMatcher(t)
	store := newTestQueue(t)

	if _, err := store.NewFile(context.Background(), "M2-T1-SCI.mp4", "/ingest/a.mp4"); err != nil {
		t.Fatalf("NewFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	processor := NewProcessor(matcher, store, library.StaticDirectory(testLibraries), notifier, logging.NewNop())
	if _, err := processor.ProcessPending(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
