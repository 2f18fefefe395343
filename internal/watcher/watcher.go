package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ezzeldin-elkheta/elkheta-operation/internal/config"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/logging"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/notifications"
	"github.com/ezzeldin-elkheta/elkheta-operation/internal/queue"
)

// Watcher monitors the ingest directory and enqueues new video files once
// they have settled. Writers copy large files in; the settle delay avoids
// enqueueing a file that is still growing.
type Watcher struct {
	dir        string
	extensions map[string]struct{}
	settle     time.Duration
	store      *queue.Store
	notifier   notifications.Service
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// New builds a Watcher from configuration. The watch directory must exist.
func New(cfg *config.Config, store *queue.Store, notifier notifications.Service, logger *slog.Logger) (*Watcher, error) {
	dir := strings.TrimSpace(cfg.Paths.WatchDir)
	if dir == "" {
		return nil, errors.New("watcher: watch_dir is not configured")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	extensions := make(map[string]struct{}, len(cfg.Watcher.Extensions))
	for _, ext := range cfg.Watcher.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = struct{}{}
	}
	if len(extensions) == 0 {
		extensions[".mp4"] = struct{}{}
	}

	settle := time.Duration(cfg.Watcher.SettleSeconds) * time.Second
	if settle <= 0 {
		settle = 5 * time.Second
	}

	return &Watcher{
		dir:        dir,
		extensions: extensions,
		settle:     settle,
		store:      store,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "watcher"),
		pending:    map[string]*time.Timer{},
	}, nil
}

// Run watches the ingest directory until the context is cancelled. Files
// already present at startup are enqueued immediately.
func (w *Watcher) Run(ctx context.Context) error {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer notify.Close()

	if err := notify.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching ingest directory", logging.String("dir", w.dir))

	if err := w.enqueueExisting(ctx); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.wantFile(event.Name) {
				continue
			}
			w.scheduleSettle(ctx, event.Name)
		case err, ok := <-notify.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) wantFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := w.extensions[ext]
	return ok
}

// scheduleSettle arms (or re-arms) the settle timer for a path. Every write
// event pushes the deadline out again; the file is only enqueued once writes
// stop for the full settle window.
func (w *Watcher) scheduleSettle(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.enqueue(ctx, path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) enqueueExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, entry.Name())
		if !w.wantFile(path) {
			continue
		}
		w.enqueue(ctx, path)
	}
	return nil
}

func (w *Watcher) enqueue(ctx context.Context, path string) {
	filename := filepath.Base(path)

	if existing, err := w.store.ItemByFilename(ctx, filename); err == nil && existing != nil {
		if existing.Status != queue.StatusFailed {
			w.logger.Info("skipping already-queued file",
				logging.String(logging.FieldFilename, filename))
			return
		}
	}

	item, err := w.store.NewFile(ctx, filename, path)
	if err != nil {
		w.logger.Error("enqueue failed",
			logging.String(logging.FieldFilename, filename),
			logging.Error(err))
		return
	}
	w.logger.Info("queued new file",
		logging.Any(logging.FieldItemID, item.ID),
		logging.String(logging.FieldFilename, filename))

	if w.notifier != nil {
		if err := w.notifier.NotifyFileDetected(ctx, filename); err != nil {
			w.logger.Warn("detection notification failed", logging.Error(err))
		}
	}
}
